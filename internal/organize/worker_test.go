package organize

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hysende/filmflow/internal/cloud"
	"github.com/hysende/filmflow/internal/qps"
)

// fakeCloud 可编程的云盘客户端
type fakeCloud struct {
	mu         sync.Mutex
	renameErr  map[string]error // fileID → 错误
	moveErr    map[string]error
	renames    []string
	moves      []string
	dirs       map[string][]cloud.File // dirID → 内容
	createdDir int
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		renameErr: make(map[string]error),
		moveErr:   make(map[string]error),
		dirs:      make(map[string][]cloud.File),
	}
}

func (f *fakeCloud) List(ctx context.Context, dirID string) ([]cloud.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirs[dirID], nil
}

func (f *fakeCloud) Rename(ctx context.Context, fileID, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.renameErr[fileID]; err != nil {
		return err
	}
	f.renames = append(f.renames, fileID+"→"+newName)
	return nil
}

func (f *fakeCloud) Move(ctx context.Context, fileID, targetDirID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.moveErr[fileID]; err != nil {
		return err
	}
	f.moves = append(f.moves, fileID+"→"+targetDirID)
	return nil
}

func (f *fakeCloud) CreateDirectory(ctx context.Context, parentID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdDir++
	id := fmt.Sprintf("dir-%d", f.createdDir)
	f.dirs[parentID] = append(f.dirs[parentID], cloud.File{ID: id, Name: name, IsDir: true})
	return id, nil
}

func (f *fakeCloud) Delete(ctx context.Context, fileID string) error { return nil }

func (f *fakeCloud) AddOfflineDownload(ctx context.Context, url, dirID string) error { return nil }

func newTestWorker(t *testing.T, client cloud.Client) *Worker {
	t.Helper()
	clouds := cloud.NewRegistry()
	if client != nil {
		clouds.Register("fake", client)
	}
	return NewWorker(clouds, qps.NewRegistry(1000), NewLogRing(10), nil, Options{})
}

func waitTerminal(t *testing.T, w *Worker, taskID string) TaskSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := w.Get(taskID); ok && s.Terminal() {
			return s
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s did not reach a terminal state", taskID)
	return TaskSnapshot{}
}

func TestWorker_PartialFailureStillCompleted(t *testing.T) {
	fc := newFakeCloud()
	fc.renameErr["f2"] = errors.New("boom")
	w := newTestWorker(t, fc)

	id, err := w.Submit("fake", []Item{
		{FileID: "f1", NewName: "a.mkv"},
		{FileID: "f2", NewName: "b.mkv"},
		{FileID: "f3", NewName: "c.mkv"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := waitTerminal(t, w, id)
	if s.Status != TaskCompleted {
		t.Errorf("partial failure must still be completed, got %s", s.Status)
	}
	if s.CompletedCount != 2 || s.FailedCount != 1 {
		t.Errorf("expected 2 completed / 1 failed, got %d/%d", s.CompletedCount, s.FailedCount)
	}
	if s.Items[1].Status != ItemFailed || s.Items[1].Error != "boom" {
		t.Errorf("item error must be preserved verbatim, got %q", s.Items[1].Error)
	}
	if s.Progress != 100 {
		t.Errorf("terminal progress must be 100, got %d", s.Progress)
	}
}

func TestWorker_AllItemsFailedMeansTaskFailed(t *testing.T) {
	fc := newFakeCloud()
	fc.renameErr["f1"] = errors.New("no")
	w := newTestWorker(t, fc)

	id, err := w.Submit("fake", []Item{{FileID: "f1", NewName: "a.mkv"}})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := waitTerminal(t, w, id)
	if s.Status != TaskFailed {
		t.Errorf("expected failed, got %s", s.Status)
	}
	if s.FailedCount != 1 || s.CompletedCount != 0 {
		t.Errorf("expected 0/1, got %d/%d", s.CompletedCount, s.FailedCount)
	}
}

func TestWorker_MissingClientFailsPerItem(t *testing.T) {
	w := newTestWorker(t, nil) // 注册表里没有 "fake"

	id, err := w.Submit("fake", []Item{{FileID: "f1", NewName: "a.mkv"}})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := waitTerminal(t, w, id)
	if s.Status != TaskFailed {
		t.Errorf("expected failed, got %s", s.Status)
	}
	if s.Items[0].Error == "" {
		t.Error("item must carry the uninitialized-client error")
	}
}

func TestWorker_MoveWithDirectoryCreation(t *testing.T) {
	fc := newFakeCloud()
	w := newTestWorker(t, fc)

	id, err := w.Submit("fake", []Item{
		{FileID: "f1", NewName: "Inception (2010).mkv", TargetDir: "Movies/Inception (2010)"},
		{FileID: "f2", NewName: "x.mkv", TargetDir: "Movies/Inception (2010)"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s := waitTerminal(t, w, id)
	if s.Status != TaskCompleted || s.CompletedCount != 2 {
		t.Fatalf("expected 2 completed, got %+v", s)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.moves) != 2 {
		t.Errorf("expected 2 moves, got %v", fc.moves)
	}
	// 两项同目录, 目录解析要复用, 只建两级各一次
	if fc.createdDir != 2 {
		t.Errorf("directory resolution must be cached per task, created %d dirs", fc.createdDir)
	}
}

func TestWorker_SubmitValidation(t *testing.T) {
	w := newTestWorker(t, newFakeCloud())

	if _, err := w.Submit("fake", nil); err == nil {
		t.Error("empty items must be rejected")
	}
	if _, err := w.Submit("fake", []Item{{NewName: "a"}}); err == nil {
		t.Error("missing fileId must be rejected")
	}
	if _, err := w.Submit("fake", []Item{{FileID: "f"}}); err == nil {
		t.Error("missing newName must be rejected")
	}
	if _, err := w.Submit("", []Item{{FileID: "f", NewName: "a"}}); err == nil {
		t.Error("missing cloudType must be rejected")
	}
}

func TestWorker_CancelPending(t *testing.T) {
	// 不注册 lane worker 能立即消费: 用一个慢限速器堵住执行,
	// 再提交第二个任务让它排队, 趁 pending 取消
	clouds := cloud.NewRegistry()
	clouds.Register("fake", newFakeCloud())
	limits := qps.NewRegistry(1000)
	w := NewWorker(clouds, limits, NewLogRing(10), nil, Options{WorkersPerProvider: 1})

	limits.Set("fake", 0.2) // 5s 一个放行, 第一个任务会卡在第二项上

	blocker, err := w.Submit("fake", []Item{
		{FileID: "b1", NewName: "x"},
		{FileID: "b2", NewName: "y"},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	victim, err := w.Submit("fake", []Item{{FileID: "v1", NewName: "z"}})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := w.Cancel(victim); err != nil {
		t.Fatalf("cancel of pending task must succeed: %v", err)
	}

	s, _ := w.Get(victim)
	if s.Status != TaskFailed || s.Error != "cancelled" {
		t.Errorf("cancelled task must be failed/cancelled, got %s/%q", s.Status, s.Error)
	}

	// running 任务拒绝取消
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s, _ := w.Get(blocker); s.Status == TaskRunning {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := w.Cancel(blocker); err == nil {
		t.Error("cancel of running task must fail")
	}

	if err := w.Cancel("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWorker_Cleanup(t *testing.T) {
	fc := newFakeCloud()
	w := newTestWorker(t, fc)

	id, _ := w.Submit("fake", []Item{{FileID: "f1", NewName: "a"}})
	waitTerminal(t, w, id)

	if removed := w.Cleanup(time.Hour); removed != 0 {
		t.Errorf("fresh task must survive cleanup, removed %d", removed)
	}
	if removed := w.Cleanup(0); removed != 1 {
		t.Errorf("aged-out task must be removed, removed %d", removed)
	}
	if _, ok := w.Get(id); ok {
		t.Error("task must be gone after cleanup")
	}
}

func TestWorker_ListOrdering(t *testing.T) {
	fc := newFakeCloud()
	w := newTestWorker(t, fc)

	a, _ := w.Submit("fake", []Item{{FileID: "f1", NewName: "a"}})
	waitTerminal(t, w, a)
	time.Sleep(5 * time.Millisecond)
	b, _ := w.Submit("fake", []Item{{FileID: "f2", NewName: "b"}})
	waitTerminal(t, w, b)

	list := w.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	if list[0].TaskID != b {
		t.Error("newest task must come first")
	}
}

func TestLogRing(t *testing.T) {
	r := NewLogRing(3)
	for i := 1; i <= 5; i++ {
		r.Add("entry %d", i)
	}

	got := r.Recent(0)
	if len(got) != 3 {
		t.Fatalf("capacity 3 ring holds %d entries", len(got))
	}
	if got[0].Message != "entry 3" || got[2].Message != "entry 5" {
		t.Errorf("ring must keep the newest entries in order, got %v", got)
	}

	if got := r.Recent(1); len(got) != 1 || got[0].Message != "entry 5" {
		t.Errorf("Recent(1) must return only the newest entry, got %v", got)
	}

	r.Clear()
	if len(r.Recent(0)) != 0 {
		t.Error("ring must be empty after Clear")
	}
}
