package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

// DocumentHandler serves the form-driven generators: agreements, deeds and
// legal notices. Request bodies are validated by the document service.
type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{log: log.With("handler", "DocumentHandler"), documentService: documentService}
}

func (dh *DocumentHandler) GenerateNDA(c *gin.Context) {
	generate[documents.NDARequest](dh, c)
}

func (dh *DocumentHandler) GenerateAffidavit(c *gin.Context) {
	generate[documents.AffidavitRequest](dh, c)
}

func (dh *DocumentHandler) GenerateRentAgreement(c *gin.Context) {
	generate[documents.RentAgreementRequest](dh, c)
}

func (dh *DocumentHandler) GenerateSaleDeed(c *gin.Context) {
	generate[documents.SaleDeedRequest](dh, c)
}

func (dh *DocumentHandler) GenerateLeaseDeed(c *gin.Context) {
	generate[documents.LeaseDeedRequest](dh, c)
}

func (dh *DocumentHandler) GenerateUnpaidSalaryNotice(c *gin.Context) {
	generate[documents.UnpaidSalaryNoticeRequest](dh, c)
}

func (dh *DocumentHandler) GenerateLoanRepaymentNotice(c *gin.Context) {
	generate[documents.LoanRepaymentNoticeRequest](dh, c)
}

func generate[R documents.Request](dh *DocumentHandler, c *gin.Context) {
	var req R
	if !bindJSON(c, dh.log, &req) {
		return
	}
	links, err := dh.documentService.Generate(c.Request.Context(), req)
	if err != nil {
		respondErr(c, dh.log, err)
		return
	}
	response.RespondOK(c, links)
}
