package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/apierr"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

var (
	errFAQFileID   = apierr.BadRequest("invalid_file_id", "Invalid file id.")
	errFAQNotFound = apierr.WithMessage(http.StatusNotFound, "file_not_found", "File not found", nil)
)

type FAQSheet struct {
	PDFURL   string `json:"pdf_url"`
	Filename string `json:"filename"`
}

type FAQService interface {
	GenerateFromTopic(ctx context.Context, topic string) (map[string]any, error)
	// BuildPDF renders the FAQ sheet and keeps only its PDF rendition.
	BuildPDF(ctx context.Context, req documents.FAQSheetRequest) (*FAQSheet, error)
	// PDFPath resolves a file id from BuildPDF to the PDF on disk.
	PDFPath(fileID string) (string, error)
}

type faqService struct {
	log      *logger.Logger
	adapter  *extraction.Adapter
	pipeline *documents.Pipeline
	tool     Tool
}

func NewFAQService(log *logger.Logger, adapter *extraction.Adapter, pipeline *documents.Pipeline, tool Tool) FAQService {
	return &faqService{
		log:      log.With("service", "FAQService"),
		adapter:  adapter,
		pipeline: pipeline,
		tool:     tool,
	}
}

func (fs *faqService) GenerateFromTopic(ctx context.Context, topic string) (map[string]any, error) {
	prompt := "Please generate 5-7 FAQs for the following legal topic in India: " + topic
	return fs.adapter.Extract(ctx, fs.tool.call(prompt))
}

func (fs *faqService) BuildPDF(ctx context.Context, req documents.FAQSheetRequest) (*FAQSheet, error) {
	if err := documents.Validate(req); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	pair, _, err := fs.pipeline.GenerateNamed(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(pair.Primary.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fs.log.Warn("Removing FAQ docx failed", "file", pair.Primary.Name, "error", err)
	}
	if pair.Secondary == nil {
		return nil, apierr.Internal("Failed to generate PDF", fmt.Errorf("no pdf rendition for %s", id))
	}
	return &FAQSheet{
		PDFURL:   "/api/v1/faq/download/" + id,
		Filename: fmt.Sprintf("FAQ_%s_%s.pdf", strings.ReplaceAll(req.Topic, " ", "_"), id[:6]),
	}, nil
}

func (fs *faqService) PDFPath(fileID string) (string, error) {
	id, err := uuid.Parse(fileID)
	if err != nil || id.String() != strings.ToLower(fileID) {
		return "", errFAQFileID
	}
	path := filepath.Join(fs.pipeline.OutputDir(), id.String()+".pdf")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errFAQNotFound
		}
		return "", fmt.Errorf("stat faq pdf: %w", err)
	}
	return path, nil
}
