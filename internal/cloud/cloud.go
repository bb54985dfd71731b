package cloud

import (
	"context"
	"fmt"
	"sync"
)

// File 云盘文件/目录条目
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	IsDir    bool   `json:"is_dir"`
	PickCode string `json:"pick_code,omitempty"`
}

// Client 整理流程依赖的云盘能力集, 具体由 115/123 实现
type Client interface {
	// List 列出目录内容, dirID 为空表示根目录
	List(ctx context.Context, dirID string) ([]File, error)
	Rename(ctx context.Context, fileID, newName string) error
	Move(ctx context.Context, fileID, targetDirID string) error
	// CreateDirectory 在 parentID 下建目录, 返回新目录 ID
	CreateDirectory(ctx context.Context, parentID, name string) (string, error)
	Delete(ctx context.Context, fileID string) error
	// AddOfflineDownload 提交离线下载任务
	AddOfflineDownload(ctx context.Context, url, dirID string) error
}

// Registry 按 cloudType 选择客户端, 由组装层填充
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(cloudType string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[cloudType] = c
}

func (r *Registry) Get(cloudType string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[cloudType]
	if !ok || c == nil {
		return nil, fmt.Errorf("cloud client %q not initialized", cloudType)
	}
	return c, nil
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.clients))
	for k := range r.clients {
		out = append(out, k)
	}
	return out
}

// EnsureDirectory 逐级确认/创建 targetDir 里缺失的目录段, 返回最终目录 ID
// parts 是相对 parentID 的路径段, 已存在的段直接复用
func EnsureDirectory(ctx context.Context, c Client, parentID string, parts []string) (string, error) {
	current := parentID
	for _, name := range parts {
		if name == "" {
			continue
		}
		files, err := c.List(ctx, current)
		if err != nil {
			return "", fmt.Errorf("list %s: %w", current, err)
		}
		found := ""
		for _, f := range files {
			if f.IsDir && f.Name == name {
				found = f.ID
				break
			}
		}
		if found != "" {
			current = found
			continue
		}
		created, err := c.CreateDirectory(ctx, current, name)
		if err != nil {
			return "", fmt.Errorf("create directory %s: %w", name, err)
		}
		current = created
	}
	return current, nil
}
