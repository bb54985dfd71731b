package service

import (
	"errors"

	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/model"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login verifies username and password, and the TOTP code when 2FA is on
func (s *AuthService) Login(username, password, totpCode string) (*model.User, error) {
	var user model.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if user.TOTPEnabled {
		if totpCode == "" {
			return nil, errors.New("totp code required")
		}
		if !totp.Validate(totpCode, user.TOTPSecret) {
			return nil, errors.New("invalid totp code")
		}
	}

	return &user, nil
}

// CreateUser registers a new user (internal use mostly)
func (s *AuthService) CreateUser(username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// EnsureDefaultUser creates a default admin user if no users exist
func (s *AuthService) EnsureDefaultUser() {
	var count int64
	db.DB.Model(&model.User{}).Count(&count)
	if count == 0 {
		logger.L.Info("No users found. Creating default admin user (admin/admin)...")
		if _, err := s.CreateUser("admin", "admin"); err != nil {
			logger.L.Errorf("Failed to create default admin user: %v", err)
		}
	}
}

// ChangePassword updates the password for a given user
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	var user model.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New("incorrect old password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	return db.DB.Save(&user).Error
}

// EnableTOTP generates a secret for the user and returns the otpauth URL
// 需要用户用返回的 URL/secret 配置验证器后再确认开启
func (s *AuthService) EnableTOTP(userID uint) (string, error) {
	var user model.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return "", errors.New("user not found")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "filmflow",
		AccountName: user.Username,
	})
	if err != nil {
		return "", err
	}

	user.TOTPSecret = key.Secret()
	user.TOTPEnabled = false // 确认一次验证码后才激活
	if err := db.DB.Save(&user).Error; err != nil {
		return "", err
	}
	return key.URL(), nil
}

// ConfirmTOTP activates 2FA after the user proves the authenticator works
func (s *AuthService) ConfirmTOTP(userID uint, code string) error {
	var user model.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	if user.TOTPSecret == "" {
		return errors.New("totp not initialized")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return errors.New("invalid totp code")
	}

	user.TOTPEnabled = true
	return db.DB.Save(&user).Error
}

// DisableTOTP turns 2FA off, requires a valid current code
func (s *AuthService) DisableTOTP(userID uint, code string) error {
	var user model.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	if !user.TOTPEnabled {
		return nil
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return errors.New("invalid totp code")
	}

	user.TOTPEnabled = false
	user.TOTPSecret = ""
	return db.DB.Save(&user).Error
}
