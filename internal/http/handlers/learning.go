package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type LearningHandler struct {
	log             *logger.Logger
	learningService services.LearningService
}

func NewLearningHandler(log *logger.Logger, learningService services.LearningService) *LearningHandler {
	return &LearningHandler{log: log.With("handler", "LearningHandler"), learningService: learningService}
}

func (lh *LearningHandler) SimplifyBareAct(c *gin.Context) {
	var req struct {
		Section string `json:"section" binding:"required,min=3"`
	}
	if !bindJSON(c, lh.log, &req) {
		return
	}
	out, err := lh.learningService.SimplifyBareAct(c.Request.Context(), req.Section)
	lh.respond(c, out, err)
}

func (lh *LearningHandler) EvaluateAnswer(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required,min=10"`
		Answer   string `json:"answer" binding:"required,min=20"`
	}
	if !bindJSON(c, lh.log, &req) {
		return
	}
	out, err := lh.learningService.EvaluateAnswer(c.Request.Context(), req.Question, req.Answer)
	lh.respond(c, out, err)
}

func (lh *LearningHandler) ResearchTopic(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required,min=5"`
	}
	if !bindJSON(c, lh.log, &req) {
		return
	}
	out, err := lh.learningService.ResearchTopic(c.Request.Context(), req.Topic)
	lh.respond(c, out, err)
}

func (lh *LearningHandler) respond(c *gin.Context, out map[string]any, err error) {
	if err != nil {
		respondErr(c, lh.log, err)
		return
	}
	response.RespondOK(c, out)
}
