package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client Telegram Bot API 客户端, 只做通知
type Client struct {
	Token  string
	ChatID string
	client *resty.Client
}

func NewClient(token, chatID string) *Client {
	return &Client{
		Token:  token,
		ChatID: chatID,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

// SendMessage 发送文本通知
// 通知是尽力而为, 调用方一般只记日志不处理错误
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.Token == "" || c.ChatID == "" {
		return nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": c.ChatID,
			"text":    text,
		}).
		Post(fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.Token))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("telegram send failed: %s", resp.Status())
	}
	return nil
}
