package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devaloi/postboard/internal/domain"
	"github.com/devaloi/postboard/internal/store"
)

// Largest create body the API reads.
const maxBodyBytes = 1 << 20

// Detail messages of the posts API.
const (
	DetailInvalidText = "Text must be between 1 and 255 characters"
	DetailInvalidJSON = "invalid JSON body"
	DetailInternal    = "internal error"
)

// Health returns a simple health check handler.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ListPosts returns every post, most recent first.
func ListPosts(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := s.List(r.Context())
		if err != nil {
			slog.Error("list posts", "err", err)
			writeError(w, http.StatusInternalServerError, DetailInternal)
			return
		}
		slog.Info("retrieved posts", "count", len(posts))
		writeJSON(w, http.StatusOK, posts)
	}
}

// CreatePost validates and stores a new post.
func CreatePost(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreatePostRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, DetailInvalidText)
				return
			}
			writeError(w, http.StatusBadRequest, DetailInvalidJSON)
			return
		}

		if req.Text == "" || domain.TextLength(req.Text) > domain.MaxTextLength {
			writeError(w, http.StatusBadRequest, DetailInvalidText)
			return
		}

		post, err := s.Create(r.Context(), req.Text)
		if err != nil {
			slog.Error("create post", "err", err)
			writeError(w, http.StatusInternalServerError, DetailInternal)
			return
		}
		slog.Info("created post", "id", post.ID)
		writeJSON(w, http.StatusOK, post)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, domain.ErrorResponse{Detail: detail})
}
