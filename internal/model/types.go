package model

import (
	"time"

	"gorm.io/gorm"
)

// User 管理员账号 (单用户系统, 但保留表结构方便恢复账号)
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	TOTPSecret   string `json:"-"` // 启用两步验证后保存
	TOTPEnabled  bool   `json:"totp_enabled"`
	Memo         string `json:"-"`
}

// CloudStorage 云盘凭据
// Provider 决定认证方式: "115" 走 Cookie, "123" 走 ClientID/ClientSecret
type CloudStorage struct {
	gorm.Model
	Name         string     `json:"name" gorm:"uniqueIndex"`
	Provider     string     `json:"provider"`
	Cookie       string     `json:"cookie"`
	ClientID     string     `json:"client_id"`
	ClientSecret string     `json:"client_secret"`
	AccessToken  string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry"`
	RootFolderID string     `json:"root_folder_id"` // 整理目标根目录
	QPS          float64    `json:"qps"`            // 对该云盘外部调用的速率上限
	IsActive     bool       `json:"is_active"`
}

// TokenValid 判断缓存的 access token 是否还能用 (提前一分钟视为过期)
func (s *CloudStorage) TokenValid() bool {
	if s.AccessToken == "" || s.TokenExpiry == nil {
		return false
	}
	return time.Now().Add(time.Minute).Before(*s.TokenExpiry)
}

// WebhookEvent 记录收到的媒体服务器 webhook, 仅用于排查
type WebhookEvent struct {
	gorm.Model
	Source  string `json:"source"` // "emby"
	Event   string `json:"event"`
	Payload string `json:"payload"`
}

// GlobalConfig 存储全局配置 (key/value, 运行期可改)
type GlobalConfig struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const (
	ConfigKeyLLMBaseURL     = "llm_base_url"
	ConfigKeyLLMAPIKey      = "llm_api_key"
	ConfigKeyLLMModel       = "llm_model"
	ConfigKeyTMDBToken      = "tmdb_token"
	ConfigKeyTMDBLanguage   = "tmdb_language"
	ConfigKeyTelegramToken  = "telegram_bot_token"
	ConfigKeyTelegramChatID = "telegram_chat_id"
	ConfigKeyEmbyServer     = "emby_server"
	ConfigKeyEmbyAPIKey     = "emby_api_key"
	ConfigKeyMovieRoot      = "organize_movie_root"
	ConfigKeyTVRoot         = "organize_tv_root"
)

// SecretKeys 读取配置时需要脱敏的键
var SecretKeys = map[string]bool{
	ConfigKeyLLMAPIKey:     true,
	ConfigKeyTMDBToken:     true,
	ConfigKeyTelegramToken: true,
	ConfigKeyEmbyAPIKey:    true,
}
