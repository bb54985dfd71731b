package scheduler

import (
	"context"
	"time"

	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/organize"
)

// TokenRefresher 需要周期性保活 token 的客户端 (123 云盘)
type TokenRefresher interface {
	RefreshToken(ctx context.Context) error
}

// Manager 周期性维护任务: 清理过期整理任务, 刷新云盘 token
type Manager struct {
	ticker     *time.Ticker
	quit       chan struct{}
	worker     *organize.Worker
	retention  time.Duration
	refreshers []TokenRefresher
}

func NewManager(worker *organize.Worker, retention time.Duration, refreshers ...TokenRefresher) *Manager {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	// 每小时跑一轮
	return &Manager{
		ticker:     time.NewTicker(time.Hour),
		quit:       make(chan struct{}),
		worker:     worker,
		retention:  retention,
		refreshers: refreshers,
	}
}

func (m *Manager) Start() {
	logger.L.Info("Scheduler started...")
	go func() {
		for {
			select {
			case <-m.ticker.C:
				m.runOnce()
			case <-m.quit:
				m.ticker.Stop()
				return
			}
		}
	}()
}

func (m *Manager) Stop() {
	close(m.quit)
	logger.L.Info("Scheduler stopped.")
}

func (m *Manager) runOnce() {
	if m.worker != nil {
		if removed := m.worker.Cleanup(m.retention); removed > 0 {
			logger.L.Infof("Scheduler: cleaned up %d finished organize tasks", removed)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, r := range m.refreshers {
		if err := r.RefreshToken(ctx); err != nil {
			logger.L.Warnf("Scheduler: token refresh failed: %v", err)
		}
	}
}
