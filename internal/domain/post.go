package domain

import (
	"encoding/json"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the longest post text, in characters, the API accepts.
const MaxTextLength = 255

// Post is a server-owned record. Clients never mutate one; they only
// prepend newly created posts to their local view.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is the body of a non-2xx API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// TextLength counts characters, not bytes.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// Encode serializes a value to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePost deserializes JSON bytes into a Post.
func DecodePost(data []byte) (Post, error) {
	var p Post
	err := json.Unmarshal(data, &p)
	return p, err
}
