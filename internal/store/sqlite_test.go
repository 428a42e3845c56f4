package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteCreateAndList(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Create(ctx, text); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	posts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	// Should be newest-first.
	if posts[0].Text != "third" {
		t.Errorf("expected third first, got %s", posts[0].Text)
	}
	if posts[2].Text != "first" {
		t.Errorf("expected first last, got %s", posts[2].Text)
	}
	if posts[0].ID <= posts[1].ID {
		t.Errorf("expected descending ids, got %d then %d", posts[0].ID, posts[1].ID)
	}
}

func TestSQLiteCreateReturnsRow(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	p, err := s.Create(context.Background(), "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if p.Text != "hello" {
		t.Errorf("expected text hello, got %s", p.Text)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestSQLiteUniqueIDs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		p, err := s.Create(ctx, "msg")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestSQLiteEmptyList(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	posts, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if posts == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(posts) != 0 {
		t.Errorf("expected 0 posts, got %d", len(posts))
	}
}

func TestSQLiteCanceledContext(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Create(ctx, "late"); err == nil {
		t.Error("expected error for canceled context")
	}
}
