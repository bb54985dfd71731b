package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFilesHandler 代理云盘目录列表
// GET /api/files?cloud_type=115&dir_id=xxx
func (s *Server) ListFilesHandler(c *gin.Context) {
	cloudType := c.Query("cloud_type")
	if cloudType == "" {
		s.fail(c, http.StatusBadRequest, "cloud_type is required")
		return
	}

	client, err := s.Clouds.Get(cloudType)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	files, err := client.List(c.Request.Context(), c.Query("dir_id"))
	if err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, files, "")
}

type offlineDownloadRequest struct {
	CloudType string `json:"cloud_type" binding:"required"`
	URL       string `json:"url" binding:"required"`
	DirID     string `json:"dir_id"`
}

// OfflineDownloadHandler 提交离线下载到云盘
func (s *Server) OfflineDownloadHandler(c *gin.Context) {
	var req offlineDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "cloud_type and url are required")
		return
	}

	client, err := s.Clouds.Get(req.CloudType)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := client.AddOfflineDownload(c.Request.Context(), req.URL, req.DirID); err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, nil, "offline download submitted")
}

type deleteFileRequest struct {
	CloudType string `json:"cloud_type" binding:"required"`
	FileID    string `json:"file_id" binding:"required"`
}

// DeleteFileHandler 删除云盘文件
func (s *Server) DeleteFileHandler(c *gin.Context) {
	var req deleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "cloud_type and file_id are required")
		return
	}

	client, err := s.Clouds.Get(req.CloudType)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := client.Delete(c.Request.Context(), req.FileID); err != nil {
		s.fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.ok(c, nil, "file deleted")
}
