package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"launchpad_backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth protects the admin surface with a single static bearer key.
type APIKeyAuth struct {
	apiKey    string
	debugMode bool
}

func NewAPIKeyAuth(apiKey string, debugMode bool) *APIKeyAuth {
	return &APIKeyAuth{
		apiKey:    apiKey,
		debugMode: debugMode,
	}
}

func (a *APIKeyAuth) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		if a.debugMode {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		key := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) != 1 {
			log.Info("invalid api key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}

		c.Next()
	}
}
