package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "storefront-service/errors"
	"storefront-service/services"
)

// Context keys set by RequireToken for downstream handlers.
const (
	SessionEmailKey = "session_email"
	SessionTokenKey = "session_token"
)

// RequireToken validates the bearer token carried in the "token" header and
// stores the session's email and token id on the request context. Requests
// without a live token are rejected before the handler runs.
func RequireToken(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, svcErr := tokens.Validate(c.Request.Context(), c.GetHeader("token"))
		if svcErr != nil {
			apperrors.Render(c, svcErr)
			c.Abort()
			return
		}

		c.Set(SessionEmailKey, token.Email)
		c.Set(SessionTokenKey, token.ID)
		c.Next()
	}
}

// SessionEmail returns the authenticated email set by RequireToken.
func SessionEmail(c *gin.Context) string {
	return c.GetString(SessionEmailKey)
}
