package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/mediaparser"
	"github.com/hysende/filmflow/internal/organize"
	"github.com/hysende/filmflow/internal/service"
	"golang.org/x/sync/errgroup"
)

// ParseHandler 纯确定性解析, 不走 LLM/TMDB, 用于调试
// GET /api/parse?filename=xxx
func (s *Server) ParseHandler(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		s.fail(c, http.StatusBadRequest, "filename is required")
		return
	}
	s.ok(c, mediaparser.New().Parse(filename), "")
}

type previewRequest struct {
	Files []previewFile `json:"files" binding:"required"`
}

type previewFile struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename" binding:"required"`
}

type previewResult struct {
	FileID string `json:"file_id"`
	service.Suggestion
}

// PreviewHandler 对一批文件名给出识别结论和整理建议
// 识别链按当前配置现配, 缺 LLM/TMDB 凭据时自动降级为纯解析
// 识别涉及 LLM/TMDB 外部调用, 并发跑但限制在 4 路
func (s *Server) PreviewHandler(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "files is required")
		return
	}

	recognizer := s.recognizeService()
	results := make([]previewResult, len(req.Files))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(4)
	for i, f := range req.Files {
		g.Go(func() error {
			results[i] = previewResult{
				FileID:     f.FileID,
				Suggestion: recognizer.Recognize(ctx, f.Filename),
			}
			return nil
		})
	}
	g.Wait()

	s.ok(c, results, "")
}

type submitOrganizeRequest struct {
	CloudType string          `json:"cloud_type" binding:"required"`
	Items     []organize.Item `json:"items" binding:"required"`
}

func (s *Server) SubmitOrganizeHandler(c *gin.Context) {
	var req submitOrganizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "cloud_type and items are required")
		return
	}

	taskID, err := s.Worker.Submit(req.CloudType, req.Items)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, organize.ErrQueueFull) {
			status = http.StatusTooManyRequests
		}
		s.fail(c, status, err.Error())
		return
	}
	s.ok(c, gin.H{"task_id": taskID}, "task submitted")
}

func (s *Server) ListTasksHandler(c *gin.Context) {
	s.ok(c, s.Worker.List(), "")
}

func (s *Server) GetTaskHandler(c *gin.Context) {
	snapshot, ok := s.Worker.Get(c.Param("id"))
	if !ok {
		s.fail(c, http.StatusNotFound, "task not found")
		return
	}
	s.ok(c, snapshot, "")
}

func (s *Server) CancelTaskHandler(c *gin.Context) {
	err := s.Worker.Cancel(c.Param("id"))
	switch {
	case errors.Is(err, organize.ErrNotFound):
		s.fail(c, http.StatusNotFound, err.Error())
	case err != nil:
		s.fail(c, http.StatusConflict, err.Error())
	default:
		s.ok(c, nil, "task cancelled")
	}
}

// OrganizeLogsHandler 最近的整理操作记录
func (s *Server) OrganizeLogsHandler(c *gin.Context) {
	s.ok(c, s.Logs.Recent(parseIntQuery(c, "limit", 100)), "")
}

func (s *Server) ClearOrganizeLogsHandler(c *gin.Context) {
	s.Logs.Clear()
	s.ok(c, nil, "organize logs cleared")
}
