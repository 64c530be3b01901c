package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type FAQHandler struct {
	log        *logger.Logger
	faqService services.FAQService
}

func NewFAQHandler(log *logger.Logger, faqService services.FAQService) *FAQHandler {
	return &FAQHandler{log: log.With("handler", "FAQHandler"), faqService: faqService}
}

func (fh *FAQHandler) GenerateFromTopic(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required,min=5"`
	}
	if !bindJSON(c, fh.log, &req) {
		return
	}
	out, err := fh.faqService.GenerateFromTopic(c.Request.Context(), req.Topic)
	if err != nil {
		respondErr(c, fh.log, err)
		return
	}
	response.RespondOK(c, out)
}

func (fh *FAQHandler) DownloadPDF(c *gin.Context) {
	var req documents.FAQSheetRequest
	if !bindJSON(c, fh.log, &req) {
		return
	}
	sheet, err := fh.faqService.BuildPDF(c.Request.Context(), req)
	if err != nil {
		respondErr(c, fh.log, err)
		return
	}
	response.RespondOK(c, sheet)
}

func (fh *FAQHandler) Download(c *gin.Context) {
	fileID := strings.TrimSpace(c.Param("file_id"))
	path, err := fh.faqService.PDFPath(fileID)
	if err != nil {
		respondErr(c, fh.log, err)
		return
	}
	c.FileAttachment(path, "FAQ_"+fileID+".pdf")
}
