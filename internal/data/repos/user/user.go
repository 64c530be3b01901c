package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/domain/user"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *user.User) error
	GetByID(dbc dbctx.Context, id string) (*user.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*user.User, error)
	GetByResetToken(dbc dbctx.Context, token string) (*user.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) error
	SetResetToken(dbc dbctx.Context, id, token string, expires time.Time) error
	ConsumeResetToken(dbc dbctx.Context, id, token string, now time.Time) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	return dbc.DB(r.db).Create(u).Error
}

// Lookups return (nil, nil) when no row matches.
func (r *userRepo) GetByID(dbc dbctx.Context, id string) (*user.User, error) {
	return r.first(dbc, "id = ?", id)
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*user.User, error) {
	return r.first(dbc, "email = ?", user.NormalizeEmail(email))
}

func (r *userRepo) GetByResetToken(dbc dbctx.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.first(dbc, "reset_token = ?", token)
}

func (r *userRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	err := dbc.DB(r.db).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&user.User{}).
		Where("email = ?", user.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if email, ok := updates["email"].(string); ok {
		updates["email"] = user.NormalizeEmail(email)
	}
	updates["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).Model(&user.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) SetResetToken(dbc dbctx.Context, id, token string, expires time.Time) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{
		"reset_token":         token,
		"reset_token_expires": expires.UTC(),
	})
}

// ConsumeResetToken clears the reset token of user id if it still equals
// token and has not expired at now. It reports whether this call cleared it.
func (r *userRepo) ConsumeResetToken(dbc dbctx.Context, id, token string, now time.Time) (bool, error) {
	if token == "" {
		return false, nil
	}
	res := dbc.DB(r.db).Model(&user.User{}).
		Where("id = ? AND reset_token = ? AND reset_token_expires > ?", id, token, now.UTC()).
		Updates(map[string]interface{}{
			"reset_token":         nil,
			"reset_token_expires": nil,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
