package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/service"
)

// GetSettingsHandler 返回全部配置, 机密键已脱敏
func (s *Server) GetSettingsHandler(c *gin.Context) {
	s.ok(c, service.NewSettingsService().All(), "")
}

// UpdateSettingsHandler 批量更新配置
// 值为脱敏哨兵或脱敏形态的键保持库里原值
func (s *Server) UpdateSettingsHandler(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid settings payload")
		return
	}

	if err := service.NewSettingsService().Update(values); err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(c, service.NewSettingsService().All(), "settings updated")
}

// EmbyTestHandler 按当前配置探活 Emby
func (s *Server) EmbyTestHandler(c *gin.Context) {
	client := s.embyClient()
	if client == nil {
		s.fail(c, http.StatusBadRequest, "emby server is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, nil, "emby reachable")
}

// EmbyRefreshHandler 触发 Emby 媒体库扫描
func (s *Server) EmbyRefreshHandler(c *gin.Context) {
	client := s.embyClient()
	if client == nil {
		s.fail(c, http.StatusBadRequest, "emby server is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	if err := client.RefreshLibrary(ctx); err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, nil, "library refresh triggered")
}
