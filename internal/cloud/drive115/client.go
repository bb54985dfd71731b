package drive115

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hysende/filmflow/internal/cloud"
)

const defaultBaseURL = "https://webapi.115.com"

// Client 115 网盘 WEB 接口客户端, Cookie 认证
type Client struct {
	BaseURL string
	client  *resty.Client
}

func NewClient(cookie string) *Client {
	c := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Cookie", cookie).
		SetHeader("User-Agent", "Mozilla/5.0")
	return &Client{
		BaseURL: defaultBaseURL,
		client:  c,
	}
}

type listResponse struct {
	State bool   `json:"state"`
	Error string `json:"error"`
	Count int    `json:"count"`
	Data  []struct {
		Fid  string `json:"fid"` // 文件有 fid
		Cid  string `json:"cid"` // 目录只有 cid
		Name string `json:"n"`
		Size int64  `json:"s"`
		Pick string `json:"pc"`
	} `json:"data"`
}

type stateResponse struct {
	State bool   `json:"state"`
	Error string `json:"error"`
}

// List 分页拉全目录内容, dirID 为空取根目录 "0"
func (c *Client) List(ctx context.Context, dirID string) ([]cloud.File, error) {
	if dirID == "" {
		dirID = "0"
	}

	const limit = 1150
	offset := 0
	var files []cloud.File

	for {
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"aid":    "1",
				"cid":    dirID,
				"offset": fmt.Sprintf("%d", offset),
				"limit":  fmt.Sprintf("%d", limit),
				"show_dir": "1",
			}).
			Get(c.BaseURL + "/files")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("115 list failed: %s", resp.Status())
		}

		var result listResponse
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return nil, err
		}
		if !result.State {
			return nil, fmt.Errorf("115 list failed: %s", result.Error)
		}

		for _, item := range result.Data {
			f := cloud.File{
				Name:     item.Name,
				Size:     item.Size,
				PickCode: item.Pick,
			}
			if item.Fid != "" {
				f.ID = item.Fid
			} else {
				f.ID = item.Cid
				f.IsDir = true
			}
			files = append(files, f)
		}

		offset += limit
		if offset >= result.Count || len(result.Data) == 0 {
			break
		}
	}
	return files, nil
}

func (c *Client) Rename(ctx context.Context, fileID, newName string) error {
	return c.postState(ctx, "/files/batch_rename", map[string]string{
		fmt.Sprintf("files_new_name[%s]", fileID): newName,
	})
}

func (c *Client) Move(ctx context.Context, fileID, targetDirID string) error {
	return c.postState(ctx, "/files/move", map[string]string{
		"fid[0]": fileID,
		"pid":    targetDirID,
	})
}

func (c *Client) CreateDirectory(ctx context.Context, parentID, name string) (string, error) {
	if parentID == "" {
		parentID = "0"
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"pid":   parentID,
			"cname": name,
		}).
		Post(c.BaseURL + "/files/add")
	if err != nil {
		return "", err
	}

	var result struct {
		State bool   `json:"state"`
		Error string `json:"error"`
		Cid   string `json:"cid"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", err
	}
	if !result.State {
		return "", fmt.Errorf("115 mkdir failed: %s", result.Error)
	}
	return result.Cid, nil
}

func (c *Client) Delete(ctx context.Context, fileID string) error {
	return c.postState(ctx, "/rb/delete", map[string]string{
		"fid[0]": fileID,
	})
}

func (c *Client) AddOfflineDownload(ctx context.Context, url, dirID string) error {
	form := map[string]string{"url": url}
	if dirID != "" {
		form["wp_path_id"] = dirID
	}
	return c.postState(ctx, "/lixian/?ct=lixian&ac=add_task_url", form)
}

func (c *Client) postState(ctx context.Context, path string, form map[string]string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.BaseURL + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("115 request failed: %s", resp.Status())
	}

	var result stateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return err
	}
	if !result.State {
		return fmt.Errorf("115 request failed: %s", result.Error)
	}
	return nil
}
