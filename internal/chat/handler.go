package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AskRequest is the POST /chat/ask body
type AskRequest struct {
	Message string `json:"message" binding:"required"`
	History []Turn `json:"history"`
}

// AskResponse is the POST /chat/ask answer
type AskResponse struct {
	Response string `json:"response"`
}

// Handler serves the assistant over HTTP
type Handler struct {
	assistant *Assistant
}

// NewHandler creates a chat handler
func NewHandler(assistant *Assistant) *Handler {
	return &Handler{assistant: assistant}
}

// RegisterRoutes mounts the chat routes under /chat
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.Group("/chat").POST("/ask", h.Ask)
}

// Ask godoc
// @Summary      Ask the assistant
// @Description  Answers a parent question about autism screening and support. Upstream failures return a soft reply.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      AskRequest  true  "Question and prior turns"
// @Success      200      {object}  AskResponse
// @Failure      400      {object}  map[string]string
// @Router       /chat/ask [post]
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Response: h.assistant.Ask(c.Request.Context(), req.Message, req.History),
	})
}
