package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/devaloi/postboard/internal/domain"
)

// MockViewer implements live.Viewer for testing.
type MockViewer struct {
	Name     string
	messages [][]byte
	closed   bool
	mu       sync.Mutex
}

// NewMockViewer creates a new MockViewer with the given name.
func NewMockViewer(name string) *MockViewer {
	return &MockViewer{Name: name}
}

// ID returns the mock viewer's name.
func (m *MockViewer) ID() string { return m.Name }

// Send records a frame sent to the mock viewer.
func (m *MockViewer) Send(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.messages = append(m.messages, cp)
}

// Close marks the mock viewer closed.
func (m *MockViewer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Closed reports whether the hub closed the mock viewer.
func (m *MockViewer) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetMessages returns a copy of all frames received by the mock viewer.
func (m *MockViewer) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]byte, len(m.messages))
	copy(cp, m.messages)
	return cp
}

// MemoryStore implements store.Store in memory.
type MemoryStore struct {
	mu     sync.Mutex
	posts  []domain.Post
	nextID int64
	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryStore creates a MemoryStore holding the given posts, which
// must already be newest-first.
func NewMemoryStore(posts ...domain.Post) *MemoryStore {
	s := &MemoryStore{posts: append([]domain.Post(nil), posts...)}
	for _, p := range posts {
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

// List returns a copy of the stored posts, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]domain.Post{}, s.posts...), nil
}

// Create stores a post with the next id.
func (s *MemoryStore) Create(ctx context.Context, text string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.Post{}, s.Err
	}
	s.nextID++
	p := domain.Post{ID: s.nextID, Text: text, CreatedAt: time.Now().UTC()}
	s.posts = append([]domain.Post{p}, s.posts...)
	return p, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }

// FakePostsClient implements collection.PostsClient. ListFunc and
// CreateFunc default to an empty list and an echoing create.
type FakePostsClient struct {
	ListFunc   func(ctx context.Context) ([]domain.Post, error)
	CreateFunc func(ctx context.Context, text string) (domain.Post, error)

	mu          sync.Mutex
	listCalls   int
	createCalls []string
}

// ListAll records the call and delegates to ListFunc.
func (f *FakePostsClient) ListAll(ctx context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.ListFunc
	f.mu.Unlock()
	if fn == nil {
		return []domain.Post{}, nil
	}
	return fn(ctx)
}

// Create records the text and delegates to CreateFunc.
func (f *FakePostsClient) Create(ctx context.Context, text string) (domain.Post, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, text)
	n := int64(len(f.createCalls))
	fn := f.CreateFunc
	f.mu.Unlock()
	if fn == nil {
		return domain.Post{ID: n, Text: text}, nil
	}
	return fn(ctx, text)
}

// ListCalls returns how many times ListAll was called.
func (f *FakePostsClient) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// CreateCalls returns the texts passed to Create, in call order.
func (f *FakePostsClient) CreateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.createCalls...)
}
