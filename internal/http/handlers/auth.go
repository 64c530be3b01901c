package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/kanoon-backend/internal/domain/user"
	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type userOut struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phone_number"`
	ProfilePic  *string `json:"profile_pic"`
}

func newUserOut(u *types.User) userOut {
	return userOut{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Gender:      u.Gender,
		PhoneNumber: u.PhoneNumber,
		ProfilePic:  u.ProfilePic,
	}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupInput
	if !bindJSON(c, ah.log, &req) {
		return
	}
	u, err := ah.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, newUserOut(u))
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, ah.log, &req) {
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":         newUserOut(res.User),
		"access_token": res.AccessToken,
		"expires_in":   res.ExpiresIn,
	})
}

func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, ah.log, &req) {
		return
	}
	msg, err := ah.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": msg})
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if !bindJSON(c, ah.log, &req) {
		return
	}
	if err := ah.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Password reset successful."})
}

func (ah *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Email           string `json:"email" binding:"required,email"`
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if !bindJSON(c, ah.log, &req) {
		return
	}
	if err := ah.authService.UpdatePassword(c.Request.Context(), req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Password updated successfully."})
}

func (ah *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if !bindJSON(c, ah.log, &req) {
		return
	}
	u, err := ah.authService.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, newUserOut(u))
}

// Me requires AuthMiddleware.RequireAuth upstream.
func (ah *AuthHandler) Me(c *gin.Context) {
	u, err := ah.authService.GetMe(c.Request.Context())
	if err != nil {
		respondErr(c, ah.log, err)
		return
	}
	response.RespondOK(c, newUserOut(u))
}
