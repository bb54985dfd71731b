package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/model"
	"github.com/hysende/filmflow/internal/service"
)

type storageRequest struct {
	Name         string  `json:"name" binding:"required"`
	Provider     string  `json:"provider" binding:"required"`
	Cookie       string  `json:"cookie"`
	ClientID     string  `json:"client_id"`
	ClientSecret string  `json:"client_secret"`
	RootFolderID string  `json:"root_folder_id"`
	QPS          float64 `json:"qps"`
	IsActive     *bool   `json:"is_active"`
}

// storageView 凭据字段脱敏后的返回形态
type storageView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Provider     string  `json:"provider"`
	Cookie       string  `json:"cookie"`
	ClientID     string  `json:"client_id"`
	ClientSecret string  `json:"client_secret"`
	RootFolderID string  `json:"root_folder_id"`
	QPS          float64 `json:"qps"`
	IsActive     bool    `json:"is_active"`
}

func toStorageView(st *model.CloudStorage) storageView {
	return storageView{
		ID:           st.ID,
		Name:         st.Name,
		Provider:     st.Provider,
		Cookie:       service.MaskSecret(st.Cookie),
		ClientID:     st.ClientID,
		ClientSecret: service.MaskSecret(st.ClientSecret),
		RootFolderID: st.RootFolderID,
		QPS:          st.QPS,
		IsActive:     st.IsActive,
	}
}

func (s *Server) ListStoragesHandler(c *gin.Context) {
	var storages []model.CloudStorage
	if err := db.DB.Find(&storages).Error; err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]storageView, len(storages))
	for i := range storages {
		views[i] = toStorageView(&storages[i])
	}
	s.ok(c, views, "")
}

func (s *Server) CreateStorageHandler(c *gin.Context) {
	var req storageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "name and provider are required")
		return
	}

	st := model.CloudStorage{
		Name:         req.Name,
		Provider:     req.Provider,
		Cookie:       req.Cookie,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RootFolderID: req.RootFolderID,
		QPS:          req.QPS,
		IsActive:     true,
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	if st.QPS <= 0 {
		st.QPS = 1
	}

	if st.IsActive {
		if err := s.RegisterStorage(&st); err != nil {
			s.fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := db.DB.Create(&st).Error; err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(c, toStorageView(&st), "storage created")
}

func (s *Server) UpdateStorageHandler(c *gin.Context) {
	var st model.CloudStorage
	if err := db.DB.First(&st, c.Param("id")).Error; err != nil {
		s.fail(c, http.StatusNotFound, "storage not found")
		return
	}

	var req storageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid storage payload")
		return
	}

	st.Name = req.Name
	st.Provider = req.Provider
	st.RootFolderID = req.RootFolderID
	if req.QPS > 0 {
		st.QPS = req.QPS
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	// 脱敏形态回传视为未修改
	if req.Cookie != "" && req.Cookie != service.MaskSecret(st.Cookie) {
		st.Cookie = req.Cookie
	}
	if req.ClientSecret != "" && req.ClientSecret != service.MaskSecret(st.ClientSecret) {
		st.ClientSecret = req.ClientSecret
	}
	if req.ClientID != "" {
		st.ClientID = req.ClientID
	}

	if err := db.DB.Save(&st).Error; err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	if st.IsActive {
		if err := s.RegisterStorage(&st); err != nil {
			s.fail(c, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		s.Clouds.Register(st.Provider, nil)
	}
	s.ok(c, toStorageView(&st), "storage updated")
}

func (s *Server) DeleteStorageHandler(c *gin.Context) {
	var st model.CloudStorage
	if err := db.DB.First(&st, c.Param("id")).Error; err != nil {
		s.fail(c, http.StatusNotFound, "storage not found")
		return
	}

	if err := db.DB.Delete(&st).Error; err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.Clouds.Register(st.Provider, nil)
	s.ok(c, nil, "storage deleted")
}

// TestStorageHandler 用当前凭据列一次根目录验证连通性
func (s *Server) TestStorageHandler(c *gin.Context) {
	var st model.CloudStorage
	if err := db.DB.First(&st, c.Param("id")).Error; err != nil {
		s.fail(c, http.StatusNotFound, "storage not found")
		return
	}

	client, err := s.Clouds.Get(st.Provider)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()
	files, err := client.List(ctx, st.RootFolderID)
	if err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, gin.H{"entries": len(files)}, "connection ok")
}
