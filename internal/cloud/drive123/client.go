package drive123

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hysende/filmflow/internal/cloud"
)

const defaultBaseURL = "https://open-api.123pan.com"

// Client 123 云盘开放平台客户端, client_id/secret 换取 access token
type Client struct {
	BaseURL      string
	clientID     string
	clientSecret string
	client       *resty.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       resty.New().SetTimeout(15 * time.Second).SetHeader("Platform", "open_platform"),
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// token 返回可用的 access token, 过期前一分钟内主动刷新
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"clientID":     c.clientID,
			"clientSecret": c.clientSecret,
		}).
		Post(c.BaseURL + "/api/v1/access_token")
	if err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", err
	}
	if env.Code != 0 {
		return "", fmt.Errorf("123 token failed: %s", env.Message)
	}

	var data struct {
		AccessToken string `json:"accessToken"`
		ExpiredAt   string `json:"expiredAt"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", err
	}

	c.accessToken = data.AccessToken
	c.tokenExpiry = time.Now().Add(12 * time.Hour)
	if t, err := time.Parse(time.RFC3339, data.ExpiredAt); err == nil {
		c.tokenExpiry = t
	}
	return c.accessToken, nil
}

// RefreshToken 提前刷新 token, 给调度器用
func (c *Client) RefreshToken(ctx context.Context) error {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
	_, err := c.token(ctx)
	return err
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+tok)
	if body != nil {
		req.SetBody(body)
	}

	var resp *resty.Response
	if method == "GET" {
		resp, err = req.Get(c.BaseURL + path)
	} else {
		resp, err = req.Post(c.BaseURL + path)
	}
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return err
	}
	if env.Code != 0 {
		return fmt.Errorf("123 api failed: %s", env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) List(ctx context.Context, dirID string) ([]cloud.File, error) {
	if dirID == "" {
		dirID = "0"
	}

	var files []cloud.File
	lastFileID := "0"
	for {
		var data struct {
			LastFileID string `json:"lastFileId"`
			FileList   []struct {
				FileID   string `json:"fileId"`
				Filename string `json:"filename"`
				Type     int    `json:"type"` // 1 = folder
				Size     int64  `json:"size"`
			} `json:"fileList"`
		}
		path := fmt.Sprintf("/api/v2/file/list?parentFileId=%s&limit=100&lastFileId=%s", dirID, lastFileID)
		if err := c.call(ctx, "GET", path, nil, &data); err != nil {
			return nil, err
		}

		for _, f := range data.FileList {
			files = append(files, cloud.File{
				ID:    f.FileID,
				Name:  f.Filename,
				Size:  f.Size,
				IsDir: f.Type == 1,
			})
		}

		if data.LastFileID == "-1" || data.LastFileID == "" || len(data.FileList) == 0 {
			break
		}
		lastFileID = data.LastFileID
	}
	return files, nil
}

func (c *Client) Rename(ctx context.Context, fileID, newName string) error {
	return c.call(ctx, "POST", "/api/v1/file/name", map[string]string{
		"fileId":   fileID,
		"fileName": newName,
	}, nil)
}

func (c *Client) Move(ctx context.Context, fileID, targetDirID string) error {
	return c.call(ctx, "POST", "/api/v1/file/move", map[string]any{
		"fileIDs":        []string{fileID},
		"toParentFileID": targetDirID,
	}, nil)
}

func (c *Client) CreateDirectory(ctx context.Context, parentID, name string) (string, error) {
	if parentID == "" {
		parentID = "0"
	}
	var data struct {
		DirID json.Number `json:"dirID"`
	}
	err := c.call(ctx, "POST", "/upload/v1/file/mkdir", map[string]string{
		"parentID": parentID,
		"name":     name,
	}, &data)
	if err != nil {
		return "", err
	}
	return data.DirID.String(), nil
}

func (c *Client) Delete(ctx context.Context, fileID string) error {
	return c.call(ctx, "POST", "/api/v1/file/trash", map[string]any{
		"fileIDs": []string{fileID},
	}, nil)
}

func (c *Client) AddOfflineDownload(ctx context.Context, url, dirID string) error {
	body := map[string]any{"url": url}
	if dirID != "" {
		body["dirID"] = dirID
	}
	return c.call(ctx, "POST", "/api/v1/offline/download", body, nil)
}
