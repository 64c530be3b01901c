package artifact

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/kanoon-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/kanoon-backend/internal/domain/artifact"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
)

func TestArtifactRepoCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewArtifactRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	kind := "test_" + uuid.NewString()[:8]
	base := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		rec := &domain.Record{
			Kind:        kind,
			BaseName:    "NDA",
			PrimaryName: "NDA_" + uuid.NewString(),
			PrimaryURL:  "/outputs/x.docx",
			Context:     datatypes.JSON([]byte(`{"party":"A"}`)),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(dbc, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recs, err := repo.ListRecent(dbc, kind, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	if !recs[0].CreatedAt.After(recs[1].CreatedAt) {
		t.Fatalf("records not newest first")
	}

	got, err := repo.GetByPrimaryName(dbc, recs[0].PrimaryName)
	if err != nil || got == nil || got.ID != recs[0].ID {
		t.Fatalf("GetByPrimaryName: got=%v err=%v", got, err)
	}
	missing, err := repo.GetByPrimaryName(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing: got=%v err=%v", missing, err)
	}
}
