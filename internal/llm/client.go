package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hysende/filmflow/internal/logger"
)

// Client 调 OpenAI 兼容接口做文件名识别补充
// 所有失败都静默降级为空结果, 调用方不会拿到错误
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *resty.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  resty.New().SetTimeout(30 * time.Second),
	}
}

const systemPrompt = `你是媒体文件名识别助手。根据文件名返回 JSON:
{"title": 标题, "year": 年份字符串, "type": "movie"|"tv", "season": 季数, "episode": 集数, "tmdb_id": 数字或0, "category": 分类}
无法判断的字段填空字符串或 0，只返回 JSON。`

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ParseFilename 对文件名做一次补充识别, 单次尝试不重试
// 未配置 API key 时直接返回空 map (no-op, 不是错误)
func (c *Client) ParseFilename(ctx context.Context, filename string) map[string]any {
	if c == nil || c.APIKey == "" || c.BaseURL == "" {
		return map[string]any{}
	}

	body := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: filename},
		},
		Temperature:    0.1,
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.BaseURL + "/chat/completions")

	if err != nil {
		logger.L.Debugf("llm request failed: %v", err)
		return map[string]any{}
	}
	if resp.IsError() {
		logger.L.Debugf("llm returned %s", resp.Status())
		return map[string]any{}
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil || len(parsed.Choices) == 0 {
		return map[string]any{}
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &result); err != nil {
		logger.L.Debugf("llm completion is not valid json: %v", err)
		return map[string]any{}
	}
	return result
}
