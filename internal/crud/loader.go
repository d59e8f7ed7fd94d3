package crud

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/backend"
)

// Inflight tracks the newest list load per key (operator session plus
// resource). Beginning a load cancels the previous one for the same key, so
// a slow earlier response can never overwrite a newer one.
type Inflight struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewInflight returns an empty registry.
func NewInflight() *Inflight {
	return &Inflight{slots: map[string]*slot{}}
}

// Ticket identifies one registered load.
type Ticket struct {
	f   *Inflight
	key string
	gen uint64
}

// Begin registers a new load for key, cancelling the one it supersedes.
func (f *Inflight) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[key]
	if !ok {
		s = &slot{}
		f.slots[key] = s
	} else if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.cancel = cancel
	return ctx, Ticket{f: f, key: key, gen: s.gen}
}

// Current reports whether no newer load has begun for the key.
func (t Ticket) Current() bool {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	s, ok := t.f.slots[t.key]
	return ok && s.gen == t.gen
}

// Done releases the ticket. The slot is dropped only if this is still the newest load.
func (t Ticket) Done() {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	s, ok := t.f.slots[t.key]
	if !ok || s.gen != t.gen {
		return
	}
	s.cancel()
	delete(t.f.slots, t.key)
}

// Result is the outcome of one list load. A failed load has no items and a
// Notice; a stale one must not be rendered.
type Result[T any] struct {
	Items  []T
	Total  int
	Failed bool
	Notice string
	Stale  bool
}

// Loader fetches pages of T from one list endpoint.
type Loader[T any] struct {
	Path     string
	Inflight *Inflight
	Log      *zap.Logger
}

// Load issues one GET for q. Failures resolve to an empty list with the
// backend message (possibly empty) in Notice; there is no retry.
func (l *Loader[T]) Load(ctx context.Context, conn *backend.Conn, key string, q Query) Result[T] {
	var ticket Ticket
	if l.Inflight != nil {
		ctx, ticket = l.Inflight.Begin(ctx, key)
		defer ticket.Done()
	}
	page, err := backend.List[T](ctx, conn, l.Path, q.Backend())
	if l.Inflight != nil && !ticket.Current() {
		return Result[T]{Items: []T{}, Stale: true}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Result[T]{Items: []T{}, Stale: true}
		}
		if l.Log != nil {
			l.Log.Warn("list load failed", zap.String("path", l.Path), zap.Error(err))
		}
		return Result[T]{Items: []T{}, Failed: true, Notice: backend.Message(err, "")}
	}
	return Result[T]{Items: page.Items, Total: page.TotalCount}
}
