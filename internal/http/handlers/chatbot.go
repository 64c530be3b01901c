package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type ChatbotHandler struct {
	log            *logger.Logger
	chatbotService services.ChatbotService
}

func NewChatbotHandler(log *logger.Logger, chatbotService services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{log: log.With("handler", "ChatbotHandler"), chatbotService: chatbotService}
}

func (ch *ChatbotHandler) Query(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if !bindJSON(c, ch.log, &req) {
		return
	}
	reply, err := ch.chatbotService.Query(c.Request.Context(), req.Query)
	if err != nil {
		respondErr(c, ch.log, err)
		return
	}
	response.RespondOK(c, reply)
}
