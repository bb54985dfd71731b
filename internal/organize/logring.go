package organize

import (
	"fmt"
	"sync"
	"time"
)

// LogEntry 一条人类可读的整理结果
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// LogRing 有界环形缓冲, 保存最近的整理结果
type LogRing struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

const DefaultLogCapacity = 500

func NewLogRing(capacity int) *LogRing {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogRing{entries: make([]LogEntry, capacity)}
}

func (r *LogRing) Add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = LogEntry{Time: time.Now(), Message: fmt.Sprintf(format, args...)}
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// Recent 返回最近 n 条, 新的在后; n<=0 返回全部
func (r *LogRing) Recent(n int) []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]LogEntry, 0, n)
	start := size - n
	for i := start; i < size; i++ {
		idx := i
		if r.full {
			idx = (r.next + i) % len(r.entries)
		}
		out = append(out, r.entries[idx])
	}
	return out
}

func (r *LogRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = 0
	r.full = false
	for i := range r.entries {
		r.entries[i] = LogEntry{}
	}
}
