package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/cloud"
	"github.com/hysende/filmflow/internal/cloud/drive115"
	"github.com/hysende/filmflow/internal/cloud/drive123"
	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/emby"
	"github.com/hysende/filmflow/internal/event"
	"github.com/hysende/filmflow/internal/llm"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/model"
	"github.com/hysende/filmflow/internal/organize"
	"github.com/hysende/filmflow/internal/qps"
	"github.com/hysende/filmflow/internal/service"
	"github.com/hysende/filmflow/internal/tmdb"
)

// ApiResponse 统一响应壳
type ApiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Server 持有全部依赖, handler 都挂在它上面
// 显式构造, 由 main 组装, 不走包级单例
type Server struct {
	Clouds *cloud.Registry
	Limits *qps.Registry
	Worker *organize.Worker
	Logs   *organize.LogRing
	Bus    event.Bus
}

func NewServer(clouds *cloud.Registry, limits *qps.Registry, worker *organize.Worker, logs *organize.LogRing, bus event.Bus) *Server {
	return &Server{
		Clouds: clouds,
		Limits: limits,
		Worker: worker,
		Logs:   logs,
		Bus:    bus,
	}
}

func (s *Server) ok(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, ApiResponse{Code: 0, Message: message, Data: data})
}

func (s *Server) fail(c *gin.Context, status int, message string) {
	c.JSON(status, ApiResponse{Code: status, Message: message})
}

// RegisterStorage 按凭据构建云盘客户端并注册到路由表
// 创建/更新存储凭据和启动加载都走这里
func (s *Server) RegisterStorage(st *model.CloudStorage) error {
	var client cloud.Client
	switch st.Provider {
	case "115":
		client = drive115.NewClient(st.Cookie)
	case "123":
		client = drive123.NewClient(st.ClientID, st.ClientSecret)
	default:
		return fmt.Errorf("unknown cloud provider: %s", st.Provider)
	}

	s.Clouds.Register(st.Provider, client)
	if st.QPS > 0 {
		s.Limits.Set(st.Provider, st.QPS)
	}
	logger.L.Infof("cloud storage %q registered (provider %s)", st.Name, st.Provider)
	return nil
}

// LoadStorages 启动时把库里激活的凭据全部接上
func (s *Server) LoadStorages() {
	var storages []model.CloudStorage
	if err := db.DB.Where("is_active = ?", true).Find(&storages).Error; err != nil {
		logger.L.Errorf("failed to load cloud storages: %v", err)
		return
	}
	for i := range storages {
		if err := s.RegisterStorage(&storages[i]); err != nil {
			logger.L.Warnf("skip storage %q: %v", storages[i].Name, err)
		}
	}
}

// recognizeService 按当前配置现配识别链, 设置改了下个请求即生效
func (s *Server) recognizeService() *service.RecognizeService {
	settings := service.NewSettingsService()

	var llmClient *llm.Client
	if key := settings.Get(model.ConfigKeyLLMAPIKey); key != "" {
		llmClient = llm.NewClient(
			settings.Get(model.ConfigKeyLLMBaseURL),
			key,
			settings.Get(model.ConfigKeyLLMModel),
		)
	}

	var tmdbClient *tmdb.Client
	if token := settings.Get(model.ConfigKeyTMDBToken); token != "" {
		tmdbClient = tmdb.NewClient(token, settings.Get(model.ConfigKeyTMDBLanguage))
	}

	return service.NewRecognizeService(
		llmClient,
		tmdbClient,
		settings.Get(model.ConfigKeyMovieRoot),
		settings.Get(model.ConfigKeyTVRoot),
	)
}

// embyClient 按当前配置拿 Emby 客户端, 未配置返回 nil
func (s *Server) embyClient() *emby.Client {
	settings := service.NewSettingsService()
	server := settings.Get(model.ConfigKeyEmbyServer)
	if server == "" {
		return nil
	}
	return emby.NewClient(server, settings.Get(model.ConfigKeyEmbyAPIKey))
}
