package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/service"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

func (s *Server) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := service.NewAuthService().Login(req.Username, req.Password, req.TOTPCode)
	if err != nil {
		logger.L.Warnf("login failed for %q: %v", req.Username, err)
		s.fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	s.ok(c, gin.H{"username": user.Username, "totp_enabled": user.TOTPEnabled}, "login success")
}

func (s *Server) LogoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	s.ok(c, nil, "logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *Server) ChangePasswordHandler(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}

	if err := service.NewAuthService().ChangePassword(currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ok(c, nil, "password changed")
}

// EnableTOTPHandler 生成 2FA 密钥, 返回 otpauth URL 供验证器扫码
func (s *Server) EnableTOTPHandler(c *gin.Context) {
	url, err := service.NewAuthService().EnableTOTP(currentUserID(c))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ok(c, gin.H{"otpauth_url": url}, "scan the QR code and confirm with a code")
}

type totpCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) ConfirmTOTPHandler(c *gin.Context) {
	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "code is required")
		return
	}
	if err := service.NewAuthService().ConfirmTOTP(currentUserID(c), req.Code); err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ok(c, nil, "two-factor authentication enabled")
}

func (s *Server) DisableTOTPHandler(c *gin.Context) {
	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "code is required")
		return
	}
	if err := service.NewAuthService().DisableTOTP(currentUserID(c), req.Code); err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ok(c, nil, "two-factor authentication disabled")
}
