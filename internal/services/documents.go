package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	artifactrepo "github.com/yungbote/kanoon-backend/internal/data/repos/artifact"
	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/domain/artifact"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// DocumentService renders the form-driven documents and legal notices.
type DocumentService interface {
	Generate(ctx context.Context, req documents.Request) (*documents.Links, error)
}

type documentService struct {
	log      *logger.Logger
	pipeline *documents.Pipeline
	recorder *artifactRecorder
}

func NewDocumentService(log *logger.Logger, pipeline *documents.Pipeline, artifacts artifactrepo.ArtifactRepo) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{
		log:      serviceLog,
		pipeline: pipeline,
		recorder: newArtifactRecorder(serviceLog, artifacts),
	}
}

func (ds *documentService) Generate(ctx context.Context, req documents.Request) (*documents.Links, error) {
	if err := documents.Validate(req); err != nil {
		return nil, err
	}
	pair, rc, err := ds.pipeline.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	ds.recorder.record(ctx, req, pair, rc)
	links := pair.Links()
	return &links, nil
}

// artifactRecorder writes an audit row per render. Failures are logged and
// never fail the request.
type artifactRecorder struct {
	log  *logger.Logger
	repo artifactrepo.ArtifactRepo
}

func newArtifactRecorder(log *logger.Logger, repo artifactrepo.ArtifactRepo) *artifactRecorder {
	return &artifactRecorder{log: log, repo: repo}
}

func (r *artifactRecorder) record(ctx context.Context, req documents.Request, pair *documents.ArtifactPair, rc documents.RenderContext) {
	if r == nil || r.repo == nil || pair == nil {
		return
	}
	rec := &artifact.Record{
		Kind:        string(req.Kind()),
		BaseName:    req.BaseName(),
		PrimaryName: pair.Primary.Name,
		PrimaryURL:  pair.Primary.URL,
	}
	if pair.Secondary != nil {
		name, url := pair.Secondary.Name, pair.Secondary.URL
		rec.SecondaryName = &name
		rec.SecondaryURL = &url
	}
	if rc != nil {
		if raw, err := json.Marshal(rc); err == nil {
			rec.Context = datatypes.JSON(raw)
		}
	}
	if err := r.repo.Create(dbctx.New(ctx), rec); err != nil {
		r.log.Warn("Recording artifact failed", "kind", rec.Kind, "file", rec.PrimaryName, "error", err)
	}
}
