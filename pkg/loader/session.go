package loader

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrSessionClosed indicates an operation on a closed session.
	// Closed is terminal; a new session must be created instead.
	ErrSessionClosed = errors.New("session is closed")

	// ErrBudgetExceeded indicates a skill whose body alone is larger
	// than the session's whole budget. Eviction cannot help; the
	// activation is rejected.
	ErrBudgetExceeded = errors.New("activation exceeds session budget")

	// ErrNotLoaded indicates an eviction request for a skill that is
	// not in the session's loaded set.
	ErrNotLoaded = errors.New("skill is not loaded in this session")
)

// DefaultBudget is the materialized-content ceiling applied when a
// session is created without an explicit budget.
const DefaultBudget int64 = 512 * 1024

// Session tracks which skills one consuming task has materialized.
// The loaded set is ordered by activation, which doubles as the LRU
// order for eviction. A session is owned by a single task; concurrent
// activations through a Loader are coalesced, and all state here is
// guarded by mu. Sessions are transient: nothing persists across runs.
type Session struct {
	id     string
	budget int64

	mu        sync.Mutex
	closed    bool
	bytesUsed int64
	order     []string
	entries   map[string]*loadedSkill
}

// loadedSkill caches one activated skill's materialized body.
type loadedSkill struct {
	content string
	size    int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBudget sets the session's materialized-content ceiling in bytes.
func WithBudget(limit int64) SessionOption {
	return func(s *Session) {
		if limit > 0 {
			s.budget = limit
		}
	}
}

// NewSession creates an empty activation session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.NewString(),
		budget:  DefaultBudget,
		entries: make(map[string]*loadedSkill),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// BudgetLimit returns the configured content ceiling in bytes.
func (s *Session) BudgetLimit() int64 {
	return s.budget
}

// BytesUsed returns the running total of materialized content.
func (s *Session) BytesUsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytesUsed
}

// Loaded returns the ids of loaded skills in activation order.
func (s *Session) Loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IsLoaded reports whether the skill is in the session's loaded set.
func (s *Session) IsLoaded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// Evict removes one loaded skill from the session and releases its
// budget share. Fails with ErrNotLoaded for unknown ids and
// ErrSessionClosed on a closed session.
func (s *Session) Evict(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Wrapf(ErrSessionClosed, "evict %q", id)
	}
	return s.evictLocked(id)
}

// Close terminates the session and releases its cached content. Close
// is idempotent; every other operation fails afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.entries = nil
	s.order = nil
	s.bytesUsed = 0
}

// cachedContent returns the materialized body for id, if loaded.
func (s *Session) cachedContent(id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, errors.Wrapf(ErrSessionClosed, "activate %q", id)
	}
	if entry, ok := s.entries[id]; ok {
		return entry.content, true, nil
	}
	return "", false, nil
}

// admit makes room for size bytes by evicting oldest entries first,
// then records the new entry. The incoming skill is never itself an
// eviction candidate since it only joins the order here. Fails without
// mutating anything when size alone exceeds the whole budget.
func (s *Session) admit(id, content string, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Wrapf(ErrSessionClosed, "activate %q", id)
	}
	if _, ok := s.entries[id]; ok {
		// A concurrent activation won the race; keep its accounting.
		return nil
	}
	if size > s.budget {
		return errors.Wrapf(ErrBudgetExceeded, "skill %q is %d bytes, budget is %d", id, size, s.budget)
	}

	for s.bytesUsed+size > s.budget && len(s.order) > 0 {
		oldest := s.order[0]
		if err := s.evictLocked(oldest); err != nil {
			return err
		}
	}

	s.entries[id] = &loadedSkill{content: content, size: size}
	s.order = append(s.order, id)
	s.bytesUsed += size
	return nil
}

func (s *Session) evictLocked(id string) error {
	entry, ok := s.entries[id]
	if !ok {
		return errors.Wrapf(ErrNotLoaded, "skill %q", id)
	}

	delete(s.entries, id)
	for i, loaded := range s.order {
		if loaded == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.bytesUsed -= entry.size
	return nil
}

// checkOpen fails when the session is closed.
func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
