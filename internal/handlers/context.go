package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext returns the request context, falling back to background
// when the handler runs without a real request.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}
