package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Organize OrganizeConfig `mapstructure:"organize"`
}

type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	Mode          string `mapstructure:"mode"` // debug or release
	SessionSecret string `mapstructure:"session_secret"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OrganizeConfig struct {
	WorkersPerProvider int     `mapstructure:"workers_per_provider"` // 每个云盘的并发整理协程数
	QueueSize          int     `mapstructure:"queue_size"`
	DefaultQPS         float64 `mapstructure:"default_qps"`
	TaskRetention      int     `mapstructure:"task_retention_hours"`
}

var AppConfig *Config

func LoadConfig(configPath string) error {
	v := viper.New()

	// 默认值
	v.SetDefault("server.port", 8210)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_secret", "filmflow-session-secret")
	v.SetDefault("database.path", "data/filmflow.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("organize.workers_per_provider", 2)
	v.SetDefault("organize.queue_size", 64)
	v.SetDefault("organize.default_qps", 1)
	v.SetDefault("organize.task_retention_hours", 24)

	// 配置文件路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	// 环境变量替换 (使用 FILMFLOW_ 前缀)
	// 比如 FILMFLOW_SERVER_PORT=9090
	v.SetEnvPrefix("FILMFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, use defaults
	}

	AppConfig = &Config{}
	if err := v.Unmarshal(AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}
