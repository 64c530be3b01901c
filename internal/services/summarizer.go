package services

import (
	"context"
	"fmt"

	artifactrepo "github.com/yungbote/kanoon-backend/internal/data/repos/artifact"
	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type SummaryResult struct {
	SummaryData   map[string]any  `json:"summary_data"`
	DownloadLinks documents.Links `json:"download_links"`
}

type SummarizerService interface {
	Summarize(ctx context.Context, upload extraction.Upload) (*SummaryResult, error)
}

type summarizerService struct {
	log      *logger.Logger
	adapter  *extraction.Adapter
	pipeline *documents.Pipeline
	recorder *artifactRecorder
	tool     Tool
}

func NewSummarizerService(log *logger.Logger, adapter *extraction.Adapter, pipeline *documents.Pipeline, artifacts artifactrepo.ArtifactRepo, tool Tool) SummarizerService {
	serviceLog := log.With("service", "SummarizerService")
	return &summarizerService{
		log:      serviceLog,
		adapter:  adapter,
		pipeline: pipeline,
		recorder: newArtifactRecorder(serviceLog, artifacts),
		tool:     tool,
	}
}

func (ss *summarizerService) Summarize(ctx context.Context, upload extraction.Upload) (*SummaryResult, error) {
	extracted, err := ss.adapter.ExtractUpload(ctx, upload, extraction.Lenient, ss.tool.call(""))
	if err != nil {
		return nil, err
	}
	summary := extraction.DeepMerge(extracted, extraction.DefaultSummary())
	req := summaryRequest(summary)

	pair, rc, err := ss.pipeline.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	ss.recorder.record(ctx, req, pair, rc)
	return &SummaryResult{SummaryData: summary, DownloadLinks: pair.Links()}, nil
}

// summaryRequest maps the nested summary onto the template's flat keys.
func summaryRequest(s map[string]any) documents.SummaryRequest {
	title := section(s, "case_title_info")
	parties := section(s, "parties_involved")
	dates := section(s, "dates")
	return documents.SummaryRequest{
		CaseName:      text(title["case_name"]),
		CaseNumber:    text(title["case_number"]),
		CourtName:     text(title["court_name"]),
		Jurisdiction:  text(title["jurisdiction"]),
		Citations:     text(title["citations"]),
		Petitioner:    text(parties["petitioner"]),
		Respondent:    text(parties["respondent"]),
		AdvPetitioner: text(parties["advocates_petitioner"]),
		AdvRespondent: text(parties["advocates_respondent"]),
		JudgmentDate:  text(dates["date_of_judgment"]),
		FilingDate:    text(dates["date_of_filing"]),
		Sections:      text(s["sections_invoked"]),
		Issues:        textList(s["legal_issues"]),
		FinalJudgment: text(s["final_judgment"]),
	}
}

func section(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func textList(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return x
	case string:
		if x == "" {
			return []string{}
		}
		return []string{x}
	}
	return []string{}
}
