// Package pagestore orchestrates paginated transaction fetching for a single
// account view: one fetch per page, count-derived metadata, and invalidation
// after mutations.
package pagestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bujet/internal/api"
	"bujet/internal/cache"
	"bujet/internal/core"
	"bujet/internal/log"
	"bujet/internal/pagination"
)

// Backend is the slice of the api surface the store consumes.
type Backend interface {
	api.TransactionLister
	api.TransactionCounter
}

// State reflects the outcome of the most recent fetch.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

var (
	// ErrFetchFailed wraps any collaborator failure surfaced by the store.
	// The store never retries; a new navigation call is the retry.
	ErrFetchFailed = errors.New("fetch failed")

	ErrClosed = errors.New("page store is closed")
)

const (
	defaultCountCacheSize = 64
	defaultCountCacheTTL  = 30 * time.Second
)

// Store holds the page state for one account. Each instance owns its state
// exclusively; nothing is shared between stores except an optional count
// cache.
type Store struct {
	backend   Backend
	creds     api.Credentials
	accountID string
	counts    *cache.TTLCache[int]
	logger    *log.Logger

	mu     sync.Mutex
	engine *pagination.Engine
	page   []core.Transaction
	count  int
	state  State
	err    error
	gen    uint64
	closed bool
}

type Option func(*Store)

// WithCountCache shares a transaction-count cache between stores.
func WithCountCache(c *cache.TTLCache[int]) Option {
	return func(s *Store) { s.counts = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentPageStore) }
}

func New(backend Backend, creds api.Credentials, accountID string, limit int, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		creds:     creds,
		accountID: accountID,
		engine:    pagination.New(limit),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.counts == nil {
		s.counts = cache.New[int](defaultCountCacheSize, defaultCountCacheTTL)
	}
	if s.logger == nil {
		s.logger = log.New(log.Config{Component: log.ComponentPageStore})
	}
	return s
}

// Load fetches the count and the page for the store's current cursor
// position.
func (s *Store) Load(ctx context.Context) error {
	return s.refresh(ctx, false)
}

// Next moves forward one page and fetches it. Refused moves (already on the
// last page, empty current page) are silent no-ops. On fetch failure the
// cursor rolls back so an explicit retry re-attempts the same move.
func (s *Store) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	saved := *s.engine
	if !s.engine.Next(s.page, totalPages(s.count, s.engine.Limit())) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.afterMove(ctx, saved)
}

// Previous moves back one page and fetches it. A no-op on page 1.
func (s *Store) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	saved := *s.engine
	if !s.engine.Previous(s.page) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.afterMove(ctx, saved)
}

// GoTo navigates to page n. Only page 1 and pages adjacent to the current
// one are reachable under the boundary-cursor model; others are refused
// silently.
func (s *Store) GoTo(ctx context.Context, n int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	saved := *s.engine
	if !s.engine.GoTo(n, s.page, totalPages(s.count, s.engine.Limit())) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.afterMove(ctx, saved)
}

// SetLimit changes the page size, which always returns to page 1 with a
// fresh fetch.
func (s *Store) SetLimit(ctx context.Context, limit int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.engine.SetLimit(limit)
	s.mu.Unlock()

	return s.refresh(ctx, false)
}

// Invalidate drops the cached count and refetches both count and page. Call
// it after any mutation of the displayed account's transactions. If the
// current page comes back empty while not on page 1 (e.g. the last item of
// the last page was deleted), the store falls back to page 1.
func (s *Store) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.gen++ // discard whatever is still in flight
	s.counts.Delete(s.accountID)
	s.mu.Unlock()

	if err := s.refresh(ctx, true); err != nil {
		return err
	}

	s.mu.Lock()
	fellOffPage := len(s.page) == 0 && s.engine.CurrentPage() > 1
	if fellOffPage {
		s.engine.Reset()
	}
	s.mu.Unlock()

	if fellOffPage {
		return s.refresh(ctx, true)
	}
	return nil
}

// Close marks the store as torn down. In-flight fetch results are discarded
// instead of being applied to stale state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.gen++
}

// Page returns the transactions currently displayed, newest first.
func (s *Store) Page() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.page))
	copy(out, s.page)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CurrentPage()
}

func (s *Store) Limit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Limit()
}

func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPages(s.count, s.engine.Limit())
}

// Range reports the 1-based positions of the first and last items shown,
// (0, 0) when the page is empty.
func (s *Store) Range() (first, last int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.page) == 0 {
		return 0, 0
	}
	first = (s.engine.CurrentPage()-1)*s.engine.Limit() + 1
	return first, first + len(s.page) - 1
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure of the most recent fetch, nil when it succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) afterMove(ctx context.Context, saved pagination.Engine) error {
	err := s.refresh(ctx, false)
	if err != nil {
		s.mu.Lock()
		*s.engine = saved
		s.mu.Unlock()
	}
	return err
}

func (s *Store) refresh(ctx context.Context, skipCountCache bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	gen := s.gen
	s.state = StateLoading
	query := s.engine.Query()
	s.mu.Unlock()

	count, err := s.fetchCount(ctx, skipCountCache)
	var page []core.Transaction
	if err == nil {
		page, err = s.backend.ListTransactions(ctx, s.creds, s.accountID, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.gen != gen {
		// The view moved on while this fetch was in flight; discard.
		s.logger.DebugContext(ctx, "Discarding stale page fetch", log.FieldAccountID, s.accountID)
		return nil
	}

	if err != nil {
		s.state = StateFailed
		s.err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		s.logger.WarnContext(ctx, "Page fetch failed",
			log.FieldAccountID, s.accountID,
			log.FieldPage, s.engine.CurrentPage(),
			log.FieldError, err)
		return s.err
	}

	s.count = count
	s.page = page
	s.state = StateReady
	s.err = nil
	s.logger.DebugContext(ctx, "Page loaded",
		log.FieldAccountID, s.accountID,
		log.FieldPage, s.engine.CurrentPage(),
		log.FieldCount, count)
	return nil
}

// fetchCount returns the account's transaction count, serving it from the
// shared cache when allowed. Count and page contents are only eventually
// consistent by contract, so staleness here is acceptable.
func (s *Store) fetchCount(ctx context.Context, skipCache bool) (int, error) {
	if !skipCache {
		if count, ok := s.counts.Get(s.accountID); ok {
			return count, nil
		}
	}
	count, err := s.backend.CountTransactions(ctx, s.creds, s.accountID)
	if err != nil {
		return 0, err
	}
	s.counts.Set(s.accountID, count)
	return count, nil
}

func totalPages(count, limit int) int {
	if limit < 1 {
		return 0
	}
	return (count + limit - 1) / limit
}
