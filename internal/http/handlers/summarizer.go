package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type SummarizerHandler struct {
	log               *logger.Logger
	summarizerService services.SummarizerService
}

func NewSummarizerHandler(log *logger.Logger, summarizerService services.SummarizerService) *SummarizerHandler {
	return &SummarizerHandler{log: log.With("handler", "SummarizerHandler"), summarizerService: summarizerService}
}

func (sh *SummarizerHandler) UploadAndSummarize(c *gin.Context) {
	upload, err := readUpload(c)
	if err != nil {
		respondErr(c, sh.log, err)
		return
	}
	res, err := sh.summarizerService.Summarize(c.Request.Context(), upload)
	if err != nil {
		respondErr(c, sh.log, err)
		return
	}
	response.RespondOK(c, res)
}
