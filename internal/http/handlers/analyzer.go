package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type AnalyzerHandler struct {
	log             *logger.Logger
	analyzerService services.AnalyzerService
}

func NewAnalyzerHandler(log *logger.Logger, analyzerService services.AnalyzerService) *AnalyzerHandler {
	return &AnalyzerHandler{log: log.With("handler", "AnalyzerHandler"), analyzerService: analyzerService}
}

func (ah *AnalyzerHandler) AnalyzeFIR(c *gin.Context) {
	upload, err := readUpload(c)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	out, err := ah.analyzerService.AnalyzeFIR(c.Request.Context(), upload)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, out)
}
