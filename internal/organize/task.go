package organize

import "time"

// TaskStatus 任务状态, 状态机: pending → running → completed|failed
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// ItemStatus 单项状态, 单调: pending → processing → completed|failed
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemProcessing ItemStatus = "processing"
	ItemCompleted  ItemStatus = "completed"
	ItemFailed     ItemStatus = "failed"
)

// Item 提交整理任务时的单个文件
type Item struct {
	FileID       string `json:"fileId" binding:"required"`
	OriginalName string `json:"originalName"`
	NewName      string `json:"newName" binding:"required"`
	TargetDir    string `json:"targetDir"` // 相对根目录的路径, 空表示只改名不移动
}

// ItemSnapshot 只读的单项视图
type ItemSnapshot struct {
	FileID       string     `json:"fileId"`
	OriginalName string     `json:"originalName"`
	NewName      string     `json:"newName"`
	TargetDir    string     `json:"targetDir"`
	Status       ItemStatus `json:"status"`
	Error        string     `json:"error,omitempty"`
}

// TaskSnapshot 任务的不可变读模型
// worker 每处理完一项就发布一份新快照, 读方永远拿到字段一致的版本
type TaskSnapshot struct {
	TaskID         string         `json:"taskId"`
	CloudType      string         `json:"cloudType"`
	Status         TaskStatus     `json:"status"`
	Progress       int            `json:"progress"`
	CurrentItem    int            `json:"currentItem"`
	TotalItems     int            `json:"totalItems"`
	CompletedCount int            `json:"completedCount"`
	FailedCount    int            `json:"failedCount"`
	CreatedAt      time.Time      `json:"createdAt"`
	StartedAt      *time.Time     `json:"startedAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
	Error          string         `json:"error,omitempty"`
	Items          []ItemSnapshot `json:"items"`
}

// Terminal 任务是否已结束
func (s TaskSnapshot) Terminal() bool {
	return s.Status == TaskCompleted || s.Status == TaskFailed
}

// task 是 worker 协程私有的可变状态, 只能由执行协程改动
type task struct {
	id        string
	cloudType string
	items     []ItemSnapshot
	createdAt time.Time
}

// snapshot 从当前可变状态拷贝出一致的读模型
func (t *task) snapshot(status TaskStatus, progress, current int, startedAt, completedAt *time.Time, errMsg string) TaskSnapshot {
	items := make([]ItemSnapshot, len(t.items))
	copy(items, t.items)

	completed, failed := 0, 0
	for _, it := range items {
		switch it.Status {
		case ItemCompleted:
			completed++
		case ItemFailed:
			failed++
		}
	}

	return TaskSnapshot{
		TaskID:         t.id,
		CloudType:      t.cloudType,
		Status:         status,
		Progress:       progress,
		CurrentItem:    current,
		TotalItems:     len(items),
		CompletedCount: completed,
		FailedCount:    failed,
		CreatedAt:      t.createdAt,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
		Error:          errMsg,
		Items:          items,
	}
}
