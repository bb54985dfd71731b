// Package qps 对外部云盘 API 施加每秒调用次数上限。
//
// 间隔按放行时刻到放行时刻计量 (令牌桶, burst=1), 下游调用慢不会在配置的
// 下限之外继续放大间隔。
package qps

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter 单个云盘的限速器, 并发安全
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter 创建 qps 上限的限速器, qps<=0 按 1 处理
func NewLimiter(q float64) *Limiter {
	if q <= 0 {
		q = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(q), 1)}
}

// Wait 阻塞到距上一次放行至少 1/qps 秒, ctx 取消时提前返回错误
// 并发调用由底层令牌桶串行化, 两个调用不可能同时拿到同一个间隔
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// UpdateQPS 运行期调整速率上限
func (l *Limiter) UpdateQPS(q float64) {
	if q <= 0 {
		q = 1
	}
	l.limiter.SetLimit(rate.Limit(q))
}

// QPS 当前配置的上限
func (l *Limiter) QPS() float64 {
	return float64(l.limiter.Limit())
}

// Registry 按云盘名持有限速器, 同名请求返回同一实例
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	fallback float64
}

func NewRegistry(defaultQPS float64) *Registry {
	return &Registry{
		limiters: make(map[string]*Limiter),
		fallback: defaultQPS,
	}
}

// Get 取某云盘的限速器, 不存在则以默认 qps 创建
func (r *Registry) Get(provider string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[provider]
	if !ok {
		l = NewLimiter(r.fallback)
		r.limiters[provider] = l
	}
	return l
}

// Set 设置某云盘的 qps, 已有限速器原地更新
func (r *Registry) Set(provider string, q float64) {
	r.Get(provider).UpdateQPS(q)
}
