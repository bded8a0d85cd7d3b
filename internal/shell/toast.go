package shell

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ToastPosition is where the layout renders toasts.
const ToastPosition = "top-right"

const maxToastsPerSession = 8

// Defaults for NewToaster. Queues of visitors who never render another page
// expire or get evicted instead of accumulating.
const (
	DefaultToastSessions = 4096
	DefaultToastTTL      = 10 * time.Minute
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Toast struct {
	Level   Level
	Message string
}

// Toaster queues toasts per session until the next page render drains them.
// At most sessions queues are held, each for at most ttl after its last push.
type Toaster struct {
	mu      sync.Mutex
	pending *expirable.LRU[string, []Toast]
}

func NewToaster(sessions int, ttl time.Duration) *Toaster {
	return &Toaster{pending: expirable.NewLRU[string, []Toast](sessions, nil, ttl)}
}

// Push queues t for key. The oldest toast is dropped once the queue is full.
// An empty key is ignored.
func (t *Toaster) Push(key string, toast Toast) {
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	q, _ := t.pending.Get(key)
	q = append(q[:len(q):len(q)], toast)
	if len(q) > maxToastsPerSession {
		q = q[len(q)-maxToastsPerSession:]
	}
	t.pending.Add(key, q)
}

// Drain returns and clears the toasts queued for key.
func (t *Toaster) Drain(key string) []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	q, _ := t.pending.Get(key)
	t.pending.Remove(key)
	return q
}

// Len reports how many sessions have queued toasts.
func (t *Toaster) Len() int { return t.pending.Len() }
