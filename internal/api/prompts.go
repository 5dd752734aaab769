package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcpjungle/obsidian-mcp/internal/service/mcp"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

func (s *Server) listPromptsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.mcpService.ListPrompts())
	}
}

func (s *Server) renderPromptHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input types.PromptRenderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.mcpService.RenderPrompt(c.Request.Context(), input.Name, input.Arguments)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, mcp.ErrUnknownPrompt) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
