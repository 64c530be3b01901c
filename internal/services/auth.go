package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/kanoon-backend/internal/data/repos/user"
	types "github.com/yungbote/kanoon-backend/internal/domain/user"
	"github.com/yungbote/kanoon-backend/internal/platform/apierr"
	"github.com/yungbote/kanoon-backend/internal/platform/ctxutil"
	"github.com/yungbote/kanoon-backend/internal/platform/dbctx"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

var (
	ErrEmailTaken         = apierr.BadRequest("email_taken", "Email already registered.")
	ErrInvalidCredentials = apierr.WithMessage(http.StatusUnauthorized, "invalid_credentials", "Incorrect email or password.", nil)
	ErrInvalidResetToken  = apierr.BadRequest("invalid_reset_token", "Invalid or expired token.")
	ErrUserNotFound       = apierr.WithMessage(http.StatusNotFound, "user_not_found", "User not found.", nil)
	errWrongPassword      = apierr.WithMessage(http.StatusUnauthorized, "invalid_credentials", "Incorrect current password.", nil)
	errUnauthenticated    = apierr.WithMessage(http.StatusUnauthorized, "unauthorized", "Not authenticated.", nil)
	errInvalidAccessToken = apierr.WithMessage(http.StatusUnauthorized, "invalid_token", "Invalid or expired token.", nil)
)

type SignupInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type ProfileUpdate struct {
	Email       string  `json:"email" binding:"required,email"`
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phone_number"`
	ProfilePic  *string `json:"profile_pic"`
}

type LoginResult struct {
	User        *types.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// ForgotPassword returns the message shown to the client.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, email, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
	// VerifyAccessToken returns the user id carried by a valid token.
	VerifyAccessToken(token string) (string, error)
	AccessTTL() time.Duration
}

type AuthConfig struct {
	JWTSecret        string
	AccessTTL        time.Duration
	ResetTokenTTL    time.Duration
	PasswordResetURL string
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo user.UserRepo
	mailer   Mailer
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo user.UserRepo, mailer Mailer, cfg AuthConfig) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 15 * time.Minute
	}
	if strings.TrimSpace(cfg.PasswordResetURL) == "" {
		cfg.PasswordResetURL = "http://localhost:5173/reset-password"
	}
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (as *authService) AccessTTL() time.Duration { return as.cfg.AccessTTL }

func (as *authService) Signup(ctx context.Context, in SignupInput) (*types.User, error) {
	dbc := dbctx.New(ctx)
	email := types.NormalizeEmail(in.Email)
	exists, err := as.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &types.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Password:    hash,
		Gender:      optional(in.Gender),
		PhoneNumber: optional(in.PhoneNumber),
	}
	if err := as.userRepo.Create(dbc, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := as.userRepo.GetByEmail(dbctx.New(ctx), email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := as.generateAccessToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, AccessToken: token, ExpiresIn: int64(as.cfg.AccessTTL.Seconds())}, nil
}

func (as *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return "If that email exists, we have sent a reset link.", nil
	}
	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	if err := as.userRepo.SetResetToken(dbc, u.ID, token, as.now().Add(as.cfg.ResetTokenTTL)); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	link := as.cfg.PasswordResetURL + "?token=" + url.QueryEscape(token)
	if err := as.mailer.SendPasswordReset(ctx, u.Email, u.Name, link); err != nil {
		as.log.Error("Sending reset email failed", "user_id", u.ID, "error", err)
		return "", apierr.Internal("Failed to send email.", err)
	}
	return "Reset link sent to your email.", nil
}

func (as *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByResetToken(dbc, token)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil || u.ResetTokenExpires == nil || !u.ResetTokenExpires.After(as.now()) {
		return ErrInvalidResetToken
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		// Only the caller that clears the token may set the password.
		consumed, err := as.userRepo.ConsumeResetToken(txc, u.ID, token, as.now())
		if err != nil {
			return fmt.Errorf("consume reset token: %w", err)
		}
		if !consumed {
			return ErrInvalidResetToken
		}
		if err := as.userRepo.UpdateFields(txc, u.ID, map[string]interface{}{"password": hash}); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
}

func (as *authService) UpdatePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)) != nil {
		return errWrongPassword
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return as.userRepo.UpdateFields(dbc, u.ID, map[string]interface{}{"password": hash})
}

func (as *authService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*types.User, error) {
	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByEmail(dbc, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	updates := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Gender != nil {
		updates["gender"] = optional(*in.Gender)
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = optional(*in.PhoneNumber)
	}
	if in.ProfilePic != nil {
		updates["profile_pic"] = optional(*in.ProfilePic)
	}
	if len(updates) > 0 {
		if err := as.userRepo.UpdateFields(dbc, u.ID, updates); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return as.userRepo.GetByID(dbc, u.ID)
}

func (as *authService) GetMe(ctx context.Context) (*types.User, error) {
	id := ctxutil.UserID(ctx)
	if id == "" {
		return nil, errUnauthenticated
	}
	u, err := as.userRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (as *authService) VerifyAccessToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", errInvalidAccessToken
	}
	return claims.Subject, nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// newResetToken returns 32 random bytes, base64url encoded without padding.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
