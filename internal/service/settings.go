package service

import (
	"strings"

	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/model"
	"github.com/spf13/cast"
	"gorm.io/gorm/clause"
)

// MaskSentinel 前端提交这个值表示"保持原样", 避免脱敏值被写回库里
const MaskSentinel = "__masked__"

type SettingsService struct{}

func NewSettingsService() *SettingsService {
	return &SettingsService{}
}

// Get 读取单个配置值, 不存在返回空串
func (s *SettingsService) Get(key string) string {
	var cfg model.GlobalConfig
	if err := db.DB.Where("key = ?", key).First(&cfg).Error; err != nil {
		return ""
	}
	return cfg.Value
}

// GetFloat 读取数值型配置
func (s *SettingsService) GetFloat(key string) float64 {
	return cast.ToFloat64(s.Get(key))
}

// Set 写入单个配置值
func (s *SettingsService) Set(key, value string) error {
	cfg := model.GlobalConfig{Key: key, Value: value}
	return db.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cfg).Error
}

// All 返回全部配置, 机密键做脱敏
func (s *SettingsService) All() map[string]string {
	var rows []model.GlobalConfig
	db.DB.Find(&rows)

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if model.SecretKeys[row.Key] {
			out[row.Key] = MaskSecret(row.Value)
		} else {
			out[row.Key] = row.Value
		}
	}
	return out
}

// Update 批量写入, 值等于脱敏哨兵的键跳过 (保持库里原值)
func (s *SettingsService) Update(values map[string]string) error {
	for key, value := range values {
		if value == MaskSentinel {
			continue
		}
		// 已脱敏的值回传也视为未修改
		if model.SecretKeys[key] && strings.Contains(value, "****") {
			continue
		}
		if err := s.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// MaskSecret 脱敏: 保留前 4 后 2, 太短的全遮
func MaskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "****" + v[len(v)-2:]
}
