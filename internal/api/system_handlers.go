package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hysende/filmflow/internal/db"
	"github.com/hysende/filmflow/internal/event"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/model"
)

func (s *Server) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LogsHandler 最近的应用日志
// GET /api/logs?limit=200
func (s *Server) LogsHandler(c *gin.Context) {
	s.ok(c, logger.Tail(parseIntQuery(c, "limit", 200)), "")
}

// EmbyWebhookHandler 接收 Emby 的 webhook 通知
// 不鉴权 (Emby 不会带会话), 只存储并广播, 不解析具体事件语义
func (s *Server) EmbyWebhookHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		s.fail(c, http.StatusBadRequest, "failed to read body")
		return
	}

	eventName := ""
	var payload struct {
		Event string `json:"Event"`
	}
	if json.Unmarshal(body, &payload) == nil {
		eventName = payload.Event
	}

	record := model.WebhookEvent{
		Source:  "emby",
		Event:   eventName,
		Payload: string(body),
	}
	if err := db.DB.Create(&record).Error; err != nil {
		logger.L.Errorf("failed to store webhook event: %v", err)
		s.fail(c, http.StatusInternalServerError, "failed to store event")
		return
	}

	if s.Bus != nil {
		s.Bus.Publish(event.EventWebhookReceived, record)
	}
	logger.L.Infof("emby webhook received: %s", eventName)
	s.ok(c, nil, "webhook received")
}

// ListWebhooksHandler 最近收到的 webhook, 新的在前
func (s *Server) ListWebhooksHandler(c *gin.Context) {
	var events []model.WebhookEvent
	if err := db.DB.Order("id desc").Limit(parseIntQuery(c, "limit", 50)).Find(&events).Error; err != nil {
		s.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.ok(c, events, "")
}

// SSEHandler 把任务进度和 webhook 事件推给前端
func (s *Server) SSEHandler(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// 总线是回调多播, 这里桥接到 channel 再逐条推流
	clientChan := make(chan event.Event, 16)
	bridge := func(e event.Event) {
		// 慢客户端丢消息, 不阻塞总线
		select {
		case clientChan <- e:
		default:
		}
	}

	topics := []event.EventType{
		event.EventOrganizeProgress,
		event.EventOrganizeComplete,
		event.EventWebhookReceived,
	}
	subIDs := make(map[event.EventType]string, len(topics))
	for _, t := range topics {
		subIDs[t] = s.Bus.Subscribe(t, bridge)
	}
	defer func() {
		for t, id := range subIDs {
			s.Bus.Unsubscribe(t, id)
		}
	}()

	c.SSEvent("message", "connected")
	c.Writer.Flush()

	for {
		select {
		case evt := <-clientChan:
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				logger.L.Warnf("sse marshal error: %v", err)
				continue
			}
			c.SSEvent(string(evt.Type), string(data))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
