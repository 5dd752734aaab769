package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcpjungle/obsidian-mcp/internal"
	"go.uber.org/zap"
)

// requireAccessToken rejects requests that do not carry the configured bearer token.
// It lets every request through when no access token is configured.
func (s *Server) requireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.accessToken == "" {
			c.Next()
			return
		}

		token, ok := internal.ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		if !internal.TokensMatch(s.accessToken, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
