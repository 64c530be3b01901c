package services

import (
	"context"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type AnalyzerService interface {
	AnalyzeFIR(ctx context.Context, upload extraction.Upload) (map[string]any, error)
}

type analyzerService struct {
	log     *logger.Logger
	adapter *extraction.Adapter
	tool    Tool
}

func NewAnalyzerService(log *logger.Logger, adapter *extraction.Adapter, tool Tool) AnalyzerService {
	return &analyzerService{
		log:     log.With("service", "AnalyzerService"),
		adapter: adapter,
		tool:    tool,
	}
}

// AnalyzeFIR returns the extracted FIR fields as the model produced them.
func (as *analyzerService) AnalyzeFIR(ctx context.Context, upload extraction.Upload) (map[string]any, error) {
	return as.adapter.ExtractUpload(ctx, upload, extraction.Strict, as.tool.call(""))
}
