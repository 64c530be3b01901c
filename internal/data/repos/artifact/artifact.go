package artifact

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/domain/artifact"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type ArtifactRepo interface {
	Create(dbc dbctx.Context, rec *artifact.Record) error
	GetByPrimaryName(dbc dbctx.Context, name string) (*artifact.Record, error)
	ListRecent(dbc dbctx.Context, kind string, limit int) ([]*artifact.Record, error)
}

type artifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ArtifactRepo {
	return &artifactRepo{db: db, log: baseLog.With("repo", "ArtifactRepo")}
}

func (r *artifactRepo) Create(dbc dbctx.Context, rec *artifact.Record) error {
	return dbc.DB(r.db).Create(rec).Error
}

func (r *artifactRepo) GetByPrimaryName(dbc dbctx.Context, name string) (*artifact.Record, error) {
	var rec artifact.Record
	err := dbc.DB(r.db).Where("primary_name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns the newest records first. An empty kind matches all.
func (r *artifactRepo) ListRecent(dbc dbctx.Context, kind string, limit int) ([]*artifact.Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := dbc.DB(r.db).Order("created_at DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []*artifact.Record
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
