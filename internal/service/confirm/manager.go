// Package confirm parks commands that need an explicit confirmation and
// replays them when the sender confirms.
package confirm

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/executor"
	"github.com/sandevgo/cmdgate/pkg/log"
)

const (
	DefaultCapacity = 1000
	DefaultTTL      = 5 * time.Minute
)

// Context describes what a sender is being asked to confirm.
type Context struct {
	Sender    core.Sender
	Command   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type (
	RequiredNotifier  func(ctx context.Context, c Context)
	NoPendingNotifier func(ctx context.Context, sender core.Sender)
)

// Dispatcher runs a confirmed request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *core.Request) *executor.Future
}

type Config struct {
	Capacity    int
	TTL         time.Duration
	OnRequired  RequiredNotifier
	OnNoPending NoPendingNotifier
}

type entry struct {
	request   *core.Request
	createdAt time.Time
}

// Manager keeps at most one pending request per sender ID. The cache evicts
// the least recently inserted entry once over capacity; re-inserting a key
// counts as a fresh insertion and restarts its TTL.
type Manager struct {
	// mu makes take-then-remove atomic; the cache locks only per call.
	mu          sync.Mutex
	cache       *expirable.LRU[string, entry]
	capacity    int
	ttl         time.Duration
	exec        Dispatcher
	onRequired  RequiredNotifier
	onNoPending NoPendingNotifier
}

func NewManager(cfg Config, exec Dispatcher) *Manager {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{
		cache:       expirable.NewLRU[string, entry](cfg.Capacity, nil, cfg.TTL),
		capacity:    cfg.Capacity,
		ttl:         cfg.TTL,
		exec:        exec,
		onRequired:  cfg.OnRequired,
		onNoPending: cfg.OnNoPending,
	}
}

// RequiresConfirmation reports whether cmd was registered as confirmable.
func (m *Manager) RequiresConfirmation(cmd *core.Command) bool {
	return cmd != nil && cmd.Confirm
}

// Intercept parks req for its sender, replacing any request already pending.
func (m *Manager) Intercept(ctx context.Context, req *core.Request) {
	now := time.Now()
	id := req.Sender.ID()

	m.mu.Lock()
	_, replaced := m.cache.Peek(id)
	evicted := m.cache.Add(id, entry{request: req, createdAt: now})
	m.mu.Unlock()

	logger := log.FromCtx(ctx)
	if replaced {
		logger.Debug().Str("sender", id).Msg("pending confirmation replaced")
	}
	if evicted {
		logger.Debug().Int("capacity", m.capacity).Msg("confirmation cache full, oldest entry evicted")
	}

	if m.onRequired != nil {
		m.onRequired(ctx, Context{
			Sender:    req.Sender,
			Command:   req.Input,
			CreatedAt: now,
			ExpiresAt: now.Add(m.ttl),
		})
	}
}

// Confirm dispatches the sender's pending request. When nothing is pending,
// including after expiry or eviction, it fires the no-pending notifier and
// returns false.
func (m *Manager) Confirm(ctx context.Context, sender core.Sender) (*executor.Future, bool) {
	e, ok := m.take(sender.ID())
	if !ok {
		if m.onNoPending != nil {
			m.onNoPending(ctx, sender)
		}
		return nil, false
	}
	// the stored request keeps its original sender and arguments
	return m.exec.Dispatch(ctx, e.request), true
}

func (m *Manager) take(id string) (entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.cache.Peek(id)
	if ok {
		m.cache.Remove(id)
	}
	return e, ok
}

// Pending reports whether sender has an unexpired request waiting.
func (m *Manager) Pending(sender core.Sender) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.cache.Peek(sender.ID())
	return ok
}

// Len is the number of entries held, expired ones included until swept.
func (m *Manager) Len() int {
	return m.cache.Len()
}
