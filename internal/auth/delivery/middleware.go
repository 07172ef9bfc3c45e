package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authdto "inboxcal-backend/internal/auth/dto"
	"inboxcal-backend/internal/auth/usecase"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"
	// StateCookie carries the OAuth state nonce between redirect and callback.
	StateCookie = "oauth_state"
)

// AuthMiddleware verifies the session cookie, or a Bearer token, and stores
// the caller's id under "userID". It never touches the store.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		if token == "" {
			parts := strings.Split(c.GetHeader("Authorization"), " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authdto.ErrorResponse{Error: "Unauthorized"})
			return
		}

		session, err := authUsecase.ValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authdto.ErrorResponse{Error: "Unauthorized"})
			return
		}

		c.Set("userID", session.UserID)
		c.Set("session", session)
		c.Next()
	}
}
