package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/dto"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

// Middleware authenticates the Bearer token and stores the Principal in the gin context.
func Middleware(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing bearer token", Code: "unauthorized"})
			return
		}
		p, err := ts.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid or expired token", Code: "unauthorized"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireStaff must run after Middleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.Staff {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "staff access required", Code: "forbidden"})
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
