package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/auth"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/service"
	"github.com/rs/zerolog/log"
)

// RespondError writes the status and body for err according to the service error kinds.
func RespondError(c *gin.Context, err error) {
	var (
		blocked *service.BlockedError
		state   *service.StateError
	)
	switch {
	case errors.As(err, &blocked):
		until := blocked.Until
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error(), Code: "blocked", BlockedUntil: &until})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error(), Code: "forbidden"})
	case errors.As(err, &state):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error(), Code: "state", Redirect: state.Redirect})
	case errors.Is(err, service.ErrState):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error(), Code: "state"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error(), Code: "not_found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error(), Code: "validation"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error", Code: "internal"})
	}
}

// BadRequest answers a malformed path or body.
func BadRequest(c *gin.Context, msg string, err error) {
	resp := dto.ErrorResponse{Message: msg, Code: "bad_request"}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	c.JSON(http.StatusBadRequest, resp)
}

// ParseID reads a positive numeric path parameter. On failure it has already responded.
func ParseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		BadRequest(c, fmt.Sprintf("Invalid %s format", name), nil)
		return 0, false
	}
	return uint(v), true
}

// ParseIndex reads a non-negative integer path parameter.
func ParseIndex(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 0 {
		BadRequest(c, fmt.Sprintf("Invalid %s format", name), nil)
		return 0, false
	}
	return v, true
}

// CurrentUser returns the authenticated principal. Routes using it sit behind auth.Middleware.
func CurrentUser(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "not authenticated", Code: "unauthorized"})
	}
	return p, ok
}
