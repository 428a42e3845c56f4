package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/view"
)

// Posts is the collection store as the web pages use it.
type Posts interface {
	State() collection.State
	Create(ctx context.Context, text string) collection.CreateResult
	Refetch(ctx context.Context) error
}

// Index renders the posts page from the current store state.
func Index(p Posts, rd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, rd, http.StatusOK, p.State(), view.Form{})
	}
}

// Submit handles the new-post form. A successful create redirects back to
// the page; any failure re-renders it with the draft and its error.
func Submit(p Posts, rd *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		// Store calls outlive the request; the collection is shared.
		f := view.Form{Text: r.PostFormValue("text")}
		err := f.Submit(context.WithoutCancel(r.Context()), p)
		if err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		status := http.StatusBadGateway
		var ve *view.ValidationError
		if errors.As(err, &ve) {
			status = http.StatusUnprocessableEntity
		}
		slog.Debug("submit rejected", "err", err, "status", status)
		renderPage(w, rd, status, p.State(), f)
	}
}

// Refresh reloads the collection and redirects back to the page. A failed
// reload shows up as the page's error view.
func Refresh(p Posts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Refetch(context.WithoutCancel(r.Context())); err != nil {
			slog.Debug("refresh failed", "err", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func renderPage(w http.ResponseWriter, rd *view.Renderer, status int, st collection.State, f view.Form) {
	var buf bytes.Buffer
	if err := rd.Page(&buf, st, f); err != nil {
		slog.Error("render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
