package organize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hysende/filmflow/internal/cloud"
	"github.com/hysende/filmflow/internal/event"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/qps"
)

// Options worker 行为参数
type Options struct {
	WorkersPerProvider int // 每个云盘的执行协程数
	QueueSize          int // 每个云盘的待执行队列长度
}

func (o *Options) fill() {
	if o.WorkersPerProvider <= 0 {
		o.WorkersPerProvider = 2
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
}

// Worker 后台整理执行器
//
// 每个云盘一条固定大小的执行道 (lane), 提交 N 个任务不会派生 N 个协程;
// 任务注册表只存不可变快照, 执行协程处理完一项就发布一份新快照。
type Worker struct {
	clouds *cloud.Registry
	limits *qps.Registry
	logs   *LogRing
	bus    event.Bus
	opts   Options

	mu        sync.Mutex
	snapshots map[string]TaskSnapshot
	lanes     map[string]chan *task
}

func NewWorker(clouds *cloud.Registry, limits *qps.Registry, logs *LogRing, bus event.Bus, opts Options) *Worker {
	opts.fill()
	return &Worker{
		clouds:    clouds,
		limits:    limits,
		logs:      logs,
		bus:       bus,
		opts:      opts,
		snapshots: make(map[string]TaskSnapshot),
		lanes:     make(map[string]chan *task),
	}
}

var (
	ErrNoItems       = errors.New("organize task has no items")
	ErrQueueFull     = errors.New("organize queue is full")
	ErrNotFound      = errors.New("task not found")
	ErrNotCancelable = errors.New("only pending tasks can be cancelled")
)

// Submit 校验并入队一个整理任务, 返回任务 ID
// 校验失败同步拒绝, 不创建任务
func (w *Worker) Submit(cloudType string, items []Item) (string, error) {
	if cloudType == "" {
		return "", errors.New("cloudType is required")
	}
	if len(items) == 0 {
		return "", ErrNoItems
	}
	for i, it := range items {
		if it.FileID == "" {
			return "", fmt.Errorf("item %d: fileId is required", i)
		}
		if it.NewName == "" {
			return "", fmt.Errorf("item %d: newName is required", i)
		}
	}

	t := &task{
		id:        uuid.New().String(),
		cloudType: cloudType,
		createdAt: time.Now(),
		items:     make([]ItemSnapshot, len(items)),
	}
	for i, it := range items {
		t.items[i] = ItemSnapshot{
			FileID:       it.FileID,
			OriginalName: it.OriginalName,
			NewName:      it.NewName,
			TargetDir:    it.TargetDir,
			Status:       ItemPending,
		}
	}

	w.mu.Lock()
	lane, ok := w.lanes[cloudType]
	if !ok {
		lane = make(chan *task, w.opts.QueueSize)
		w.lanes[cloudType] = lane
		for i := 0; i < w.opts.WorkersPerProvider; i++ {
			go w.laneWorker(cloudType, lane)
		}
	}
	w.snapshots[t.id] = t.snapshot(TaskPending, 0, 0, nil, nil, "")
	w.mu.Unlock()

	select {
	case lane <- t:
	default:
		w.mu.Lock()
		delete(w.snapshots, t.id)
		w.mu.Unlock()
		return "", ErrQueueFull
	}

	logger.L.Infof("organize task %s submitted: %d items on %s", t.id, len(items), cloudType)
	return t.id, nil
}

// Get 读取任务快照
func (w *Worker) Get(taskID string) (TaskSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.snapshots[taskID]
	return s, ok
}

// List 所有任务快照, 新任务在前
func (w *Worker) List() []TaskSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]TaskSnapshot, 0, len(w.snapshots))
	for _, s := range w.snapshots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Cancel 取消 pending 任务; running 任务没有抢占点, 返回错误
func (w *Worker) Cancel(taskID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.snapshots[taskID]
	if !ok {
		return ErrNotFound
	}
	if s.Status != TaskPending {
		return ErrNotCancelable
	}

	now := time.Now()
	s.Status = TaskFailed
	s.Error = "cancelled"
	s.CompletedAt = &now
	w.snapshots[taskID] = s
	return nil
}

// Cleanup 清掉结束超过 maxAge 的任务, 返回清掉的数量
func (w *Worker) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for id, s := range w.snapshots {
		if s.Terminal() && s.CompletedAt != nil && s.CompletedAt.Before(cutoff) {
			delete(w.snapshots, id)
			removed++
		}
	}
	return removed
}

func (w *Worker) laneWorker(cloudType string, lane chan *task) {
	for t := range lane {
		w.run(t)
	}
}

// publish 把快照写入注册表并广播进度事件
func (w *Worker) publish(s TaskSnapshot) {
	w.mu.Lock()
	w.snapshots[s.TaskID] = s
	w.mu.Unlock()
	if w.bus != nil {
		w.bus.Publish(event.EventOrganizeProgress, s)
	}
}

func (w *Worker) run(t *task) {
	// pending 阶段可能已被取消, 状态检查和起跑转换要在同一把锁里完成
	started := time.Now()
	running := t.snapshot(TaskRunning, 0, 0, &started, nil, "")
	w.mu.Lock()
	current, ok := w.snapshots[t.id]
	if !ok || current.Status != TaskPending {
		w.mu.Unlock()
		return
	}
	w.snapshots[t.id] = running
	w.mu.Unlock()
	if w.bus != nil {
		w.bus.Publish(event.EventOrganizeProgress, running)
	}

	ctx := context.Background()

	limiter := w.limits.Get(t.cloudType)
	client, clientErr := w.clouds.Get(t.cloudType)
	dirCache := make(map[string]string) // 目录路径 → 已解析的目录 ID, 任务内复用

	total := len(t.items)
	for i := range t.items {
		// 进度按已开始的项算, 处理前先发布
		progress := 100 * i / total
		t.items[i].Status = ItemProcessing
		w.publish(t.snapshot(TaskRunning, progress, i+1, &started, nil, ""))

		if err := limiter.Wait(ctx); err != nil {
			t.items[i].Status = ItemFailed
			t.items[i].Error = err.Error()
			continue
		}

		if err := w.organizeSingle(ctx, client, clientErr, &t.items[i], dirCache); err != nil {
			// 错误只打到单项, 不中断任务
			t.items[i].Status = ItemFailed
			t.items[i].Error = err.Error()
			logger.L.Warnf("organize task %s item %s failed: %v", t.id, t.items[i].FileID, err)
		} else {
			t.items[i].Status = ItemCompleted
		}
	}

	completed := 0
	for _, it := range t.items {
		if it.Status == ItemCompleted {
			completed++
		}
	}

	finished := time.Now()
	status := TaskCompleted
	errMsg := ""
	// 全军覆没才算任务失败, 部分失败只记在单项上
	if completed == 0 {
		status = TaskFailed
		errMsg = "all items failed"
	}

	final := t.snapshot(status, 100, total, &started, &finished, errMsg)
	w.publish(final)
	if w.bus != nil {
		w.bus.Publish(event.EventOrganizeComplete, final)
	}
	if w.logs != nil {
		w.logs.Add("整理任务 %s (%s): %d 成功 %d 失败, 状态 %s",
			t.id, t.cloudType, final.CompletedCount, final.FailedCount, status)
	}
}

// organizeSingle 处理一项: 改名, 然后视 TargetDir 确保目录存在并移动
// 失败分类: 客户端未初始化 / 改名失败 / 建目录失败 / 移动失败, 都不致命
func (w *Worker) organizeSingle(ctx context.Context, client cloud.Client, clientErr error, item *ItemSnapshot, dirCache map[string]string) error {
	if clientErr != nil {
		return clientErr
	}

	if err := client.Rename(ctx, item.FileID, item.NewName); err != nil {
		return err
	}

	if item.TargetDir == "" {
		return nil
	}

	dirID, ok := dirCache[item.TargetDir]
	if !ok {
		parts := strings.Split(strings.Trim(item.TargetDir, "/"), "/")
		resolved, err := cloud.EnsureDirectory(ctx, client, "", parts)
		if err != nil {
			return err
		}
		dirID = resolved
		dirCache[item.TargetDir] = dirID
	}

	return client.Move(ctx, item.FileID, dirID)
}
