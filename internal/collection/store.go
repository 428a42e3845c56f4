// Package collection keeps the client-side copy of the posts list in sync
// with the server and notifies subscribers of every change.
package collection

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/devaloi/postboard/internal/domain"
)

var (
	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("collection: store closed")
	// ErrSuperseded is returned by a Load whose result was discarded
	// because a newer Load started after it.
	ErrSuperseded = errors.New("collection: load superseded")
)

// PostsClient is the remote posts collection.
type PostsClient interface {
	ListAll(ctx context.Context) ([]domain.Post, error)
	Create(ctx context.Context, text string) (domain.Post, error)
}

// Listener receives a State snapshot after each transition. Listeners
// run one at a time in transition order. They may call State but must not
// call Load, Refetch or Create synchronously.
type Listener func(State)

// Store owns the posts collection state.
type Store struct {
	client PostsClient
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	loadGen uint64
	closed  bool
	nextSub int
	subs    map[int]Listener

	// Notifications are delivered in version order: a commit waits until
	// the previous version has been emitted.
	emitMu   sync.Mutex
	emitCond *sync.Cond
	emitted  uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and create outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store in the loading state and starts the initial load
// in the background.
func New(c PostsClient, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client: c,
		logger: slog.Default(),
		state:  State{Items: []domain.Post{}, Loading: true},
		subs:   make(map[int]Listener),
		ctx:    ctx,
		cancel: cancel,
	}
	s.emitCond = sync.NewCond(&s.emitMu)
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Load(ctx); err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrSuperseded) {
			s.logger.Warn("initial load failed", "err", err)
		}
	}()
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for future transitions and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Load fetches the whole collection. On success the items are replaced
// and any error cleared; on failure the error is recorded and the items
// are kept. Only the most recently started Load commits its result. A
// Load abandoned by its caller (ctx done) ends the loading state but
// leaves items and error as they were.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loadGen++
	gen := s.loadGen
	s.state.Loading = true
	s.commitLocked()

	callCtx, cancel := s.bind(ctx)
	defer cancel()
	posts, err := s.client.ListAll(callCtx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if gen != s.loadGen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.state.Loading = false
	if err != nil && ctx.Err() != nil {
		s.commitLocked()
		s.logger.Debug("load abandoned", "err", ctx.Err())
		return ctx.Err()
	}
	if err != nil {
		s.state.Err = err.Error()
		s.commitLocked()
		s.logger.Debug("load failed", "err", err)
		return err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	s.state.Items = posts
	s.state.Err = ""
	s.commitLocked()
	s.logger.Debug("loaded posts", "count", len(posts))
	return nil
}

// Refetch re-runs Load on demand.
func (s *Store) Refetch(ctx context.Context) error {
	return s.Load(ctx)
}

// Create asks the server for a new post and prepends it on success.
// Loading and Err are left alone either way; a failure is reported only
// through the result. Concurrent creates are not serialized: each
// prepends when its response arrives.
func (s *Store) Create(ctx context.Context, text string) CreateResult {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return CreateResult{Error: ErrClosed.Error()}
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()
	p, err := s.client.Create(ctx, text)
	if err != nil {
		s.logger.Debug("create failed", "err", err)
		return CreateResult{Error: err.Error()}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return CreateResult{Error: ErrClosed.Error()}
	}
	items := make([]domain.Post, 0, len(s.state.Items)+1)
	items = append(items, p)
	s.state.Items = append(items, s.state.Items...)
	s.commitLocked()
	s.logger.Debug("created post", "id", p.ID)
	return CreateResult{Success: true, Post: p}
}

// Close cancels in-flight operations, drops subscribers and waits for the
// initial load to return. Later operations fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = make(map[int]Listener)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// bind derives a context that is also cancelled when the store closes.
func (s *Store) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// commitLocked bumps the version and notifies subscribers. It must be
// called with s.mu held and returns with it released.
func (s *Store) commitLocked() {
	s.state.Version++
	snap := s.state.clone()

	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.subs[id])
	}

	s.mu.Unlock()

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	for s.emitted+1 != snap.Version {
		s.emitCond.Wait()
	}
	for _, fn := range listeners {
		fn(snap)
	}
	s.emitted = snap.Version
	s.emitCond.Broadcast()
}
