package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/ctxutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

type AuthMiddleware struct {
	log      *logger.Logger
	verifier TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.RespondErrorMessage(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		userID, err := am.verifier.VerifyAccessToken(tokenString)
		if err != nil {
			am.log.Debug("Rejected access token", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
