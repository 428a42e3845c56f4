package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devaloi/postboard/internal/api"
	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/domain"
	"github.com/devaloi/postboard/internal/live"
	"github.com/devaloi/postboard/internal/testutil"
	"github.com/devaloi/postboard/internal/view"
)

type fakePosts struct {
	mu         sync.Mutex
	state      collection.State
	result     collection.CreateResult
	refetchErr error
	creates    []string
	refetches  int
	ctxErrs    []error
}

func (f *fakePosts) State() collection.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakePosts) Create(ctx context.Context, text string) collection.CreateResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, text)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.result
}

func (f *fakePosts) Refetch(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refetches++
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.refetchErr
}

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	rd, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return rd
}

func postForm(text string) *http.Request {
	form := url.Values{"text": {text}}
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexViews(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		state collection.State
		want  string
	}{
		{"loading", collection.State{Loading: true}, "Loading..."},
		{"error", collection.State{Err: api.MsgFetchFailed}, "Error: Failed to fetch posts"},
		{"empty", collection.State{Items: []domain.Post{}}, "no posts"},
		{"list", collection.State{Items: []domain.Post{{ID: 1, Text: "hello"}}}, "hello (ID: 1)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &fakePosts{state: tt.state}
			w := httptest.NewRecorder()
			Index(p, newRenderer(t))(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %q in page:\n%s", tt.want, w.Body.String())
			}
		})
	}
}

func TestSubmitSuccessRedirects(t *testing.T) {
	t.Parallel()
	p := &fakePosts{result: collection.CreateResult{Success: true}}
	w := httptest.NewRecorder()
	Submit(p, newRenderer(t))(w, postForm("hello"))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if len(p.creates) != 1 || p.creates[0] != "hello" {
		t.Errorf("expected one create of hello, got %v", p.creates)
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", view.ErrEmptyText.Error()},
		{"too long", strings.Repeat("a", domain.MaxTextLength+1), view.ErrTextTooLong.Error()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &fakePosts{state: collection.State{Items: []domain.Post{}}}
			w := httptest.NewRecorder()
			Submit(p, newRenderer(t))(w, postForm(tt.text))

			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %q in page", tt.want)
			}
			if len(p.creates) != 0 {
				t.Errorf("expected no create call, got %v", p.creates)
			}
		})
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	t.Parallel()
	p := &fakePosts{
		state:  collection.State{Items: []domain.Post{}},
		result: collection.CreateResult{Error: "Text must be between 1 and 255 characters"},
	}
	w := httptest.NewRecorder()
	Submit(p, newRenderer(t))(w, postForm("draft"))

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `value="draft"`) {
		t.Error("expected draft kept in the input")
	}
	if !strings.Contains(body, "Text must be between 1 and 255 characters") {
		t.Error("expected create error in page")
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	p := &fakePosts{refetchErr: errors.New(api.MsgFetchFailed)}
	w := httptest.NewRecorder()
	Refresh(p)(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", w.Code)
	}
	if p.refetches != 1 {
		t.Errorf("expected one refetch, got %d", p.refetches)
	}
}

func TestSharedStoreOutlivesRequest(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePosts{result: collection.CreateResult{Success: true}}
	rd := newRenderer(t)

	w := httptest.NewRecorder()
	Submit(p, rd)(w, postForm("hello").WithContext(ctx))
	w = httptest.NewRecorder()
	Refresh(p)(w, httptest.NewRequest(http.MethodPost, "/refresh", nil).WithContext(ctx))

	if len(p.ctxErrs) != 2 {
		t.Fatalf("expected create and refetch calls, got %d", len(p.ctxErrs))
	}
	for i, err := range p.ctxErrs {
		if err != nil {
			t.Errorf("call %d ran on a canceled context: %v", i, err)
		}
	}
}

func TestWebRouterCompressesPage(t *testing.T) {
	t.Parallel()
	p := &fakePosts{state: collection.State{Items: []domain.Post{{ID: 1, Text: strings.Repeat("hello ", 200)}}}}
	srv := httptest.NewServer(NewWebRouter(p, newRenderer(t), nil))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Errorf("expected gzip page, got %q", resp.Header.Get("Content-Encoding"))
	}
}

func TestServeLiveSendsCurrentState(t *testing.T) {
	t.Parallel()
	client := &testutil.FakePostsClient{
		ListFunc: func(ctx context.Context) ([]domain.Post, error) {
			return []domain.Post{{ID: 1, Text: "hello"}}, nil
		},
	}
	store := collection.New(client)
	defer store.Close()
	waitLoaded(t, store)

	rd := newRenderer(t)
	h := live.New(store, rd.Frame, 10)
	go h.Run()
	defer h.Stop()

	srv := httptest.NewServer(NewWebRouter(store, rd, h))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	f := readFrame(t, conn)
	if f.View != domain.ViewList || !strings.Contains(f.HTML, "hello (ID: 1)") {
		t.Fatalf("unexpected first frame: %+v", f)
	}

	if res := store.Create(context.Background(), "world"); !res.Success {
		t.Fatalf("create: %s", res.Error)
	}
	f = readFrame(t, conn)
	if !strings.Contains(f.HTML, "world") {
		t.Errorf("expected pushed frame with world, got %+v", f)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) domain.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f domain.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func waitLoaded(t *testing.T, s *collection.Store) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.State().Loading {
		if time.Now().After(deadline) {
			t.Fatal("store never finished loading")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
