package logger

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// L 全局日志实例, main 里 Setup 之后各处直接用
var L = logrus.New()

// Entry 内存日志缓冲里的一条记录, 供 /api/logs 查询
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// tailHook 把日志同时写入一个有界环形缓冲, 实现不落盘的日志追踪
type tailHook struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

const tailSize = 1000

var tail = &tailHook{entries: make([]Entry, tailSize)}

func (h *tailHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *tailHook) Fire(e *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = Entry{Time: e.Time, Level: e.Level.String(), Message: e.Message}
	h.next = (h.next + 1) % tailSize
	if h.next == 0 {
		h.full = true
	}
	return nil
}

func (h *tailHook) recent(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := h.next
	if h.full {
		size = tailSize
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := size - n; i < size; i++ {
		idx := i
		if h.full {
			idx = (h.next + i) % tailSize
		}
		out = append(out, h.entries[idx])
	}
	return out
}

// Setup 设置日志级别并挂上内存缓冲 hook
func Setup(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	L.SetLevel(lvl)
	L.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	L.AddHook(tail)
}

// Tail 返回最近 n 条日志 (n<=0 返回全部缓冲)
func Tail(n int) []Entry {
	return tail.recent(n)
}
