package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devaloi/postboard/internal/live"
	"github.com/devaloi/postboard/internal/middleware"
	"github.com/devaloi/postboard/internal/store"
	"github.com/devaloi/postboard/internal/view"
)

// NewAPIRouter serves the posts API under prefix, plus /health.
func NewAPIRouter(s store.Store, prefix string, origins []string) http.Handler {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(Health())

	api := r.PathPrefix(prefix).Subrouter()
	api.Methods(http.MethodGet).Path("/posts").HandlerFunc(ListPosts(s))
	api.Methods(http.MethodPost).Path("/posts").HandlerFunc(CreatePost(s))

	// CORS wraps the router so preflights are answered before routing.
	return middleware.Logging(middleware.CORS(origins)(r))
}

// NewWebRouter serves the posts page, its form actions and the live
// socket.
func NewWebRouter(p Posts, rd *view.Renderer, h *live.Hub) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	r.Methods(http.MethodGet).Path("/").Handler(middleware.Compress(Index(p, rd)))
	r.Methods(http.MethodPost).Path("/posts").Handler(middleware.Compress(Submit(p, rd)))
	r.Methods(http.MethodPost).Path("/refresh").HandlerFunc(Refresh(p))
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(Health())
	if h != nil {
		r.Methods(http.MethodGet).Path("/live").HandlerFunc(ServeLive(h))
	}
	return r
}
