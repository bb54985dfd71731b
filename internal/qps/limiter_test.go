package qps

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiter_EnforcesMinimumInterval(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	l := NewLimiter(2) // 0.5s 间隔
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// 9 个间隔 × 0.5s, 留一点调度余量
	if elapsed < 4500*time.Millisecond {
		t.Errorf("10 waits at qps=2 took %v, expected >= 4.5s", elapsed)
	}
}

func TestLimiter_ConcurrentWaitersSerialize(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	l := NewLimiter(10) // 100ms 间隔
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Wait(context.Background()); err != nil {
				t.Errorf("Wait failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// 5 个并发调用要占 4 个间隔, 不能一起放行
	if elapsed := time.Since(start); elapsed < 350*time.Millisecond {
		t.Errorf("5 concurrent waits at qps=10 took %v, expected >= 400ms", elapsed)
	}
}

func TestLimiter_UpdateQPS(t *testing.T) {
	l := NewLimiter(1)
	l.UpdateQPS(5)
	if got := l.QPS(); got != 5 {
		t.Errorf("expected qps 5, got %v", got)
	}
	// 非法值回落到 1
	l.UpdateQPS(0)
	if got := l.QPS(); got != 1 {
		t.Errorf("expected qps 1 after invalid update, got %v", got)
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	l := NewLimiter(0.1) // 10s 间隔
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected context deadline error on second wait")
	}
}

func TestRegistry_SharedPerProvider(t *testing.T) {
	r := NewRegistry(1)
	a := r.Get("115")
	b := r.Get("115")
	if a != b {
		t.Error("same provider must share one limiter")
	}
	if r.Get("123") == a {
		t.Error("different providers must not share limiters")
	}

	r.Set("115", 3)
	if got := a.QPS(); got != 3 {
		t.Errorf("Set must update the shared limiter, got qps %v", got)
	}
}
