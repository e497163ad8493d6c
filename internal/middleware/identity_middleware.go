package middleware

import (
	"net/http"
	"strings"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/utils"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const DefaultIdentityHeader = "X-Clerk-User-Id"

// IdentityMiddleware trusts the external identity provider's user id header.
// When jwtSecret is set, the request must also carry a bearer token whose
// subject matches the header.
func IdentityMiddleware(header, jwtSecret string) gin.HandlerFunc {
	if header == "" {
		header = DefaultIdentityHeader
	}

	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(header))
		if userID == "" {
			abortUnauthenticated(c, "Missing user identity")
			return
		}

		if jwtSecret != "" {
			authHeader := c.GetHeader("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenString == authHeader {
				abortUnauthenticated(c, "Authorization header required. Use: Bearer <token>")
				return
			}

			claims, err := utils.ValidateIdentityToken(tokenString, jwtSecret)
			if err != nil {
				logger.Log.Warn("Identity token rejected", zap.String("user_id", userID), zap.Error(err))
				abortUnauthenticated(c, "Invalid or expired token")
				return
			}
			if claims.Subject != userID {
				logger.Log.Warn("Identity header does not match token subject",
					zap.String("header_user_id", userID),
					zap.String("token_subject", claims.Subject),
				)
				abortUnauthenticated(c, "Identity mismatch")
				return
			}
			c.Set("claims", claims)
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "unauthenticated",
			"message": message,
		},
	})
}
