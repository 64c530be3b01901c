package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/services"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &documents.ValidationError{Problems: []string{"x is required"}}, http.StatusBadRequest, "invalid_request"},
		{"template missing", fmt.Errorf("load: %w", documents.ErrTemplateNotFound), http.StatusNotFound, "template_not_found"},
		{"mismatch", fmt.Errorf("%w: key", documents.ErrTemplateContextMismatch), http.StatusInternalServerError, "template_context_mismatch"},
		{"unsupported", extraction.ErrUnsupportedFileType, http.StatusBadRequest, "unsupported_file_type"},
		{"empty text", extraction.ErrNoExtractableText, http.StatusBadRequest, "no_extractable_text"},
		{"unreadable", &extraction.ReadError{Format: "PDF", Err: fmt.Errorf("bad xref")}, http.StatusBadRequest, "unreadable_file"},
		{"blocked", extraction.ErrResponseBlocked, http.StatusBadRequest, "response_blocked"},
		{"upstream", &extraction.Error{Op: "faq_builder", Err: fmt.Errorf("503")}, http.StatusInternalServerError, "upstream_error"},
		{"email taken", services.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"user missing", services.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, msg, _ := classify(tc.err)
			if status != tc.status || code != tc.code || msg == "" {
				t.Fatalf("classify=%d %q %q want %d %q", status, code, msg, tc.status, tc.code)
			}
		})
	}
}
