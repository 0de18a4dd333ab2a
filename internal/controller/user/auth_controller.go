package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/auth"
	"github.com/quizline/quizline/internal/controller"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthController issues development tokens. It is only routed when dev login is enabled.
type AuthController struct {
	tokens         *auth.TokenService
	profileService service.ProfileService
}

func NewAuthController(tokens *auth.TokenService, profileService service.ProfileService) *AuthController {
	return &AuthController{tokens: tokens, profileService: profileService}
}

// IssueToken godoc
// @Summary (Dev) Issue a token for a user id
// @Description Provisions the user's profile and returns a signed token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.TokenRequestDTO true "User id and staff flag"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/token [post]
func (ctrl *AuthController) IssueToken(c *gin.Context) {
	var req dto.TokenRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, "Invalid request body", err)
		return
	}
	if _, err := ctrl.profileService.Provision(c.Request.Context(), req.UserID); err != nil {
		controller.RespondError(c, err)
		return
	}
	token, expires, err := ctrl.tokens.Issue(auth.Principal{UserID: req.UserID, Staff: req.Staff})
	if err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("Failed to sign token")
		controller.RespondError(c, err)
		return
	}
	log.Info().Uint("userID", req.UserID).Bool("staff", req.Staff).Msg("Development token issued")
	c.JSON(http.StatusOK, dto.TokenResponseDTO{Token: token, ExpiresAt: expires})
}
