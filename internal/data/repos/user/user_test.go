package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/kanoon-backend/internal/domain/user"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
)

func newUser(email string) *domain.User {
	return &domain.User{
		Name:     "Asha",
		Email:    email,
		Password: "hash",
	}
}

func TestUserRepoCreateAndLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := "Asha." + uuid.NewString()[:8] + "@Example.com"
	u := newUser(email)
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected id to be assigned")
	}

	got, err := repo.GetByEmail(dbc, "  "+email+" ")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if got.Email != domain.NormalizeEmail(email) {
		t.Fatalf("email not normalized: %q", got.Email)
	}

	exists, err := repo.EmailExists(dbc, email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}

	missing, err := repo.GetByID(dbc, uuid.NewString())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): got=%v err=%v", missing, err)
	}
}

func TestUserRepoResetTokenLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := newUser("reset." + uuid.NewString()[:8] + "@example.com")
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	token := uuid.NewString()
	if err := repo.SetResetToken(dbc, u.ID, token, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}
	got, err := repo.GetByResetToken(dbc, token)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByResetToken: got=%v err=%v", got, err)
	}
	if got.ResetTokenExpires == nil {
		t.Fatalf("expected expiry to be stored")
	}

	if ok, err := repo.ConsumeResetToken(dbc, u.ID, "other-"+token, time.Now()); err != nil || ok {
		t.Fatalf("ConsumeResetToken(wrong token): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.ConsumeResetToken(dbc, u.ID, token, time.Now().Add(2*time.Hour)); err != nil || ok {
		t.Fatalf("ConsumeResetToken(expired): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.ConsumeResetToken(dbc, u.ID, token, time.Now()); err != nil || !ok {
		t.Fatalf("ConsumeResetToken: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.ConsumeResetToken(dbc, u.ID, token, time.Now()); err != nil || ok {
		t.Fatalf("second ConsumeResetToken must fail: ok=%v err=%v", ok, err)
	}
	got, err = repo.GetByResetToken(dbc, token)
	if err != nil || got != nil {
		t.Fatalf("token should be cleared: got=%v err=%v", got, err)
	}
}

func TestUserRepoUpdateFieldsMissingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	err := repo.UpdateFields(dbc, uuid.NewString(), map[string]interface{}{"name": "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
