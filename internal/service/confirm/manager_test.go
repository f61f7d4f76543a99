package confirm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSender struct{ id string }

func (s testSender) ID() string { return s.id }
func (s testSender) Kind() string { return "player" }
func (s testSender) HasPermission(string) bool { return true }
func (s testSender) SendMessage(context.Context, string) error { return nil }

type recorder struct {
	mu        sync.Mutex
	required  []Context
	noPending []string
	ran       map[string]int
}

func newRecorder() *recorder {
	return &recorder{ran: make(map[string]int)}
}

func (r *recorder) onRequired(_ context.Context, c Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.required = append(r.required, c)
}

func (r *recorder) onNoPending(_ context.Context, s core.Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noPending = append(r.noPending, s.ID())
}

func (r *recorder) handler(_ context.Context, req *core.Request) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran[req.Input]++
	return "ok", nil
}

func (r *recorder) runs(input string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ran[input]
}

func setup(t *testing.T, capacity int, ttl time.Duration) (*Manager, *recorder) {
	t.Helper()
	rec := newRecorder()
	exec := executor.NewCoordinator(executor.Config{Workers: 4})
	t.Cleanup(func() { exec.Shutdown(context.Background()) })

	m := NewManager(Config{
		Capacity:    capacity,
		TTL:         ttl,
		OnRequired:  rec.onRequired,
		OnNoPending: rec.onNoPending,
	}, exec)
	return m, rec
}

func (r *recorder) request(sender core.Sender, input string) *core.Request {
	return &core.Request{
		Sender:  sender,
		Input:   input,
		Command: &core.Command{Syntax: input, Confirm: true, Handler: r.handler},
	}
}

func confirmAndWait(t *testing.T, m *Manager, s core.Sender) (core.Outcome, bool) {
	t.Helper()
	f, ok := m.Confirm(context.Background(), s)
	if !ok {
		return core.Outcome{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := f.Wait(ctx)
	require.NoError(t, err)
	return out, true
}

func TestManager_RequiresConfirmation(t *testing.T) {
	m, _ := setup(t, 0, 0)

	assert.True(t, m.RequiresConfirmation(&core.Command{Confirm: true}))
	assert.False(t, m.RequiresConfirmation(&core.Command{}))
	assert.False(t, m.RequiresConfirmation(nil))
}

func TestManager_Flow(t *testing.T) {
	alice := testSender{"alice"}
	bob := testSender{"bob"}

	tests := []struct {
		name          string
		steps         func(m *Manager, rec *recorder)
		confirmAs     core.Sender
		wantConfirmed bool
		wantRuns      map[string]int
		wantNoPending []string
		wantRequired  int
	}{
		{
			name: "issue_then_confirm_runs_once",
			steps: func(m *Manager, rec *recorder) {
				m.Intercept(context.Background(), rec.request(alice, "kick bob"))
			},
			confirmAs:     alice,
			wantConfirmed: true,
			wantRuns:      map[string]int{"kick bob": 1},
			wantRequired:  1,
		},
		{
			name:          "confirm_without_pending",
			steps:         func(m *Manager, rec *recorder) {},
			confirmAs:     alice,
			wantNoPending: []string{"alice"},
		},
		{
			name: "second_command_overwrites_first",
			steps: func(m *Manager, rec *recorder) {
				m.Intercept(context.Background(), rec.request(alice, "kick bob"))
				m.Intercept(context.Background(), rec.request(alice, "ban bob"))
			},
			confirmAs:     alice,
			wantConfirmed: true,
			wantRuns:      map[string]int{"ban bob": 1, "kick bob": 0},
			wantRequired:  2,
		},
		{
			name: "other_sender_cannot_confirm",
			steps: func(m *Manager, rec *recorder) {
				m.Intercept(context.Background(), rec.request(alice, "kick bob"))
			},
			confirmAs:     bob,
			wantRuns:      map[string]int{"kick bob": 0},
			wantNoPending: []string{"bob"},
			wantRequired:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := setup(t, 0, 0)
			tt.steps(m, rec)

			out, ok := confirmAndWait(t, m, tt.confirmAs)
			assert.Equal(t, tt.wantConfirmed, ok)
			if ok {
				assert.NoError(t, out.Err)
				assert.Equal(t, "ok", out.Result)
			}

			for input, n := range tt.wantRuns {
				assert.Equal(t, n, rec.runs(input), input)
			}
			assert.Equal(t, tt.wantNoPending, rec.noPending)
			assert.Len(t, rec.required, tt.wantRequired)
		})
	}
}

func TestManager_ConfirmTwice(t *testing.T) {
	m, rec := setup(t, 0, 0)
	alice := testSender{"alice"}

	m.Intercept(context.Background(), rec.request(alice, "kick bob"))
	_, ok := confirmAndWait(t, m, alice)
	require.True(t, ok)

	_, ok = confirmAndWait(t, m, alice)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.runs("kick bob"))
	assert.Equal(t, []string{"alice"}, rec.noPending)
}

func TestManager_NotifierContext(t *testing.T) {
	m, rec := setup(t, 0, time.Minute)
	alice := testSender{"alice"}

	before := time.Now()
	m.Intercept(context.Background(), rec.request(alice, "kick bob"))

	require.Len(t, rec.required, 1)
	c := rec.required[0]
	assert.Equal(t, "kick bob", c.Command)
	assert.Equal(t, alice, c.Sender)
	assert.False(t, c.CreatedAt.Before(before))
	assert.Equal(t, time.Minute, c.ExpiresAt.Sub(c.CreatedAt))
	assert.True(t, m.Pending(alice))
}

func TestManager_CapacityEvictsOldest(t *testing.T) {
	const capacity = 1000
	m, rec := setup(t, capacity, time.Hour)

	for i := 0; i < capacity; i++ {
		m.Intercept(context.Background(), rec.request(testSender{fmt.Sprintf("s%d", i)}, "cmd"))
	}
	require.Equal(t, capacity, m.Len())

	m.Intercept(context.Background(), rec.request(testSender{"newcomer"}, "cmd"))

	assert.Equal(t, capacity, m.Len())
	assert.False(t, m.Pending(testSender{"s0"}), "oldest entry should be evicted")
	assert.True(t, m.Pending(testSender{"s1"}))
	assert.True(t, m.Pending(testSender{fmt.Sprintf("s%d", capacity-1)}))
	assert.True(t, m.Pending(testSender{"newcomer"}))

	_, ok := confirmAndWait(t, m, testSender{"s0"})
	assert.False(t, ok)
	assert.Equal(t, []string{"s0"}, rec.noPending)
}

func TestManager_ReinsertCountsAsNewest(t *testing.T) {
	m, rec := setup(t, 2, time.Hour)
	a, b, c := testSender{"a"}, testSender{"b"}, testSender{"c"}

	m.Intercept(context.Background(), rec.request(a, "one"))
	m.Intercept(context.Background(), rec.request(b, "two"))
	m.Intercept(context.Background(), rec.request(a, "three"))
	m.Intercept(context.Background(), rec.request(c, "four"))

	assert.True(t, m.Pending(a))
	assert.False(t, m.Pending(b))
	assert.True(t, m.Pending(c))
}

func TestManager_TTLExpiry(t *testing.T) {
	m, rec := setup(t, 0, 50*time.Millisecond)
	alice := testSender{"alice"}

	m.Intercept(context.Background(), rec.request(alice, "kick bob"))
	time.Sleep(120 * time.Millisecond)

	_, ok := confirmAndWait(t, m, alice)
	assert.False(t, ok)
	assert.Zero(t, rec.runs("kick bob"))
	assert.Equal(t, []string{"alice"}, rec.noPending)
}

func TestManager_ConcurrentSameSender(t *testing.T) {
	m, rec := setup(t, 0, time.Minute)
	alice := testSender{"alice"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Intercept(context.Background(), rec.request(alice, fmt.Sprintf("cmd %d", i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, m.Len())

	var confirmed atomic.Int64
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f, ok := m.Confirm(context.Background(), alice); ok {
				confirmed.Add(1)
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_, _ = f.Wait(ctx)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), confirmed.Load())
	total := 0
	for i := 0; i < 50; i++ {
		total += rec.runs(fmt.Sprintf("cmd %d", i))
	}
	assert.Equal(t, 1, total)
}
