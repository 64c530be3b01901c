package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/apierr"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// respondErr maps service errors onto the HTTP error envelope.
func respondErr(c *gin.Context, log *logger.Logger, err error) {
	status, code, msg, details := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "code", code, "error", err)
	}
	_ = c.Error(err)
	response.RespondErrorMessage(c, status, code, msg, details)
}

func classify(err error) (status int, code, msg string, details []string) {
	var (
		verr     *documents.ValidationError
		fieldErr validator.ValidationErrors
		readErr  *extraction.ReadError
		tooLarge *http.MaxBytesError
	)
	if ae, ok := apierr.As(err); ok {
		status = ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code = ae.Code
		if code == "" {
			code = "error"
		}
		return status, code, ae.Error(), nil
	}
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "invalid_request", "Invalid request.", verr.Problems
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, "invalid_request", "Invalid request.", documents.DescribeValidation(fieldErr)
	case errors.Is(err, documents.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request", err.Error(), nil
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large", "Uploaded file is too large.", nil
	case errors.Is(err, documents.ErrTemplateNotFound):
		return http.StatusNotFound, "template_not_found", "Template not found.", nil
	case errors.Is(err, documents.ErrInvalidTemplateName):
		return http.StatusBadRequest, "invalid_template_name", "Invalid template name.", nil
	case errors.Is(err, documents.ErrInvalidTemplate):
		return http.StatusInternalServerError, "invalid_template", "Template could not be parsed.", nil
	case errors.Is(err, documents.ErrTemplateContextMismatch):
		return http.StatusInternalServerError, "template_context_mismatch", "Template and request data do not match.", nil
	case errors.Is(err, extraction.ErrUnsupportedFileType):
		return http.StatusBadRequest, "unsupported_file_type", "Invalid file type. Please upload a PDF, DOCX, or TXT file.", nil
	case errors.Is(err, extraction.ErrNoExtractableText):
		return http.StatusBadRequest, "no_extractable_text", "Uploaded file is empty or text could not be extracted.", nil
	case errors.As(err, &readErr):
		return http.StatusBadRequest, "unreadable_file", "Could not read " + readErr.Format + ". File may be corrupt or encrypted.", nil
	case errors.Is(err, extraction.ErrResponseBlocked):
		return http.StatusBadRequest, "response_blocked", "Response was blocked by safety filters.", nil
	case errors.Is(err, extraction.ErrExtractionFailed):
		return http.StatusInternalServerError, "upstream_error", "Error processing text with AI.", nil
	}
	return http.StatusInternalServerError, "internal_error", "Internal server error.", nil
}

// bindJSON decodes the body into dst and reports binding failures.
func bindJSON(c *gin.Context, log *logger.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var fieldErr validator.ValidationErrors
		if errors.As(err, &fieldErr) {
			respondErr(c, log, err)
			return false
		}
		response.RespondErrorMessage(c, http.StatusBadRequest, "invalid_request", "Malformed JSON body.", []string{err.Error()})
		return false
	}
	return true
}
