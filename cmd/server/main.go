package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/api"
	"github.com/hysende/filmflow/internal/cloud"
	"github.com/hysende/filmflow/internal/config"
	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/event"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/model"
	"github.com/hysende/filmflow/internal/organize"
	"github.com/hysende/filmflow/internal/qps"
	"github.com/hysende/filmflow/internal/scheduler"
	"github.com/hysende/filmflow/internal/service"
	"github.com/hysende/filmflow/internal/telegram"
)

func main() {
	// 1. Load Config
	if err := config.LoadConfig("."); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup(config.AppConfig.Log.Level)
	gin.SetMode(config.AppConfig.Server.Mode)

	absPath, _ := filepath.Abs(config.AppConfig.Database.Path)
	logger.L.Infof("Initializing database at: %s", absPath)
	db.InitDB(config.AppConfig.Database.Path)
	defer db.CloseDB()

	service.NewAuthService().EnsureDefaultUser()

	// 2. 组装核心依赖
	clouds := cloud.NewRegistry()
	limits := qps.NewRegistry(config.AppConfig.Organize.DefaultQPS)
	logs := organize.NewLogRing(500)
	bus := event.NewInMemoryBus()
	worker := organize.NewWorker(clouds, limits, logs, bus, organize.Options{
		WorkersPerProvider: config.AppConfig.Organize.WorkersPerProvider,
		QueueSize:          config.AppConfig.Organize.QueueSize,
	})

	server := api.NewServer(clouds, limits, worker, logs, bus)
	server.LoadStorages()

	// 3. 任务完成推 Telegram 通知 (未配置 token 时客户端自己跳过)
	bus.Subscribe(event.EventOrganizeComplete, func(e event.Event) {
		snapshot, ok := e.Payload.(organize.TaskSnapshot)
		if !ok {
			return
		}
		settings := service.NewSettingsService()
		tg := telegram.NewClient(
			settings.Get(model.ConfigKeyTelegramToken),
			settings.Get(model.ConfigKeyTelegramChatID),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msg := fmt.Sprintf("整理任务完成: %d 成功 %d 失败 (%s)",
			snapshot.CompletedCount, snapshot.FailedCount, snapshot.Status)
		if err := tg.SendMessage(ctx, msg); err != nil {
			logger.L.Warnf("telegram notify failed: %v", err)
		}
	})

	// 4. 周期任务: 清理过期整理任务 + 保活 123 token
	var refreshers []scheduler.TokenRefresher
	for _, t := range clouds.Types() {
		if c, err := clouds.Get(t); err == nil {
			if r, ok := c.(scheduler.TokenRefresher); ok {
				refreshers = append(refreshers, r)
			}
		}
	}
	retention := time.Duration(config.AppConfig.Organize.TaskRetention) * time.Hour
	sch := scheduler.NewManager(worker, retention, refreshers...)
	sch.Start()
	defer sch.Stop()

	// 5. 路由
	r := gin.Default()
	api.InitRoutes(r, server, config.AppConfig.Server.SessionSecret)

	port := fmt.Sprintf("%d", config.AppConfig.Server.Port)
	logger.L.Infof("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
