package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HelloResponse is the static payload of GET /
type HelloResponse struct {
	Success bool   `json:"success"`
	Body    string `json:"body"`
}

// handleHello answers every request with the same payload
func (s *Server) handleHello(c *gin.Context) {
	c.JSON(http.StatusOK, HelloResponse{
		Success: true,
		Body:    "Hello World",
	})
}
