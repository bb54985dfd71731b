package emby

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client Emby 服务器客户端, api key 认证
type Client struct {
	BaseURL string
	APIKey  string
	client  *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  resty.New().SetTimeout(10 * time.Second),
	}
}

// RefreshLibrary 触发整库扫描, 整理完成后调用让新文件入库
func (c *Client) RefreshLibrary(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.APIKey).
		Post(c.BaseURL + "/Library/Refresh")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("emby refresh failed: %s", resp.Status())
	}
	return nil
}

// Ping 连通性检查, 设置页的"测试连接"用
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.APIKey).
		Get(c.BaseURL + "/System/Info")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("emby ping failed: %s", resp.Status())
	}
	return nil
}
