package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPostEncodeDecode(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC().Truncate(time.Second)
	original := Post{ID: 7, Text: "hello world", CreatedAt: now}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodePost(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != original.ID {
		t.Errorf("id: got %d, want %d", decoded.ID, original.ID)
	}
	if decoded.Text != original.Text {
		t.Errorf("text: got %q, want %q", decoded.Text, original.Text)
	}
	if !decoded.CreatedAt.Equal(now) {
		t.Errorf("created_at: got %v, want %v", decoded.CreatedAt, now)
	}
}

func TestDecodePostWithoutTimestamp(t *testing.T) {
	t.Parallel()
	p, err := DecodePost([]byte(`{"id":1,"text":"hello"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID != 1 || p.Text != "hello" {
		t.Errorf("unexpected post: %+v", p)
	}
	if !p.CreatedAt.IsZero() {
		t.Errorf("expected zero created_at, got %v", p.CreatedAt)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := DecodePost([]byte("not json"))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestCreatePostRequestShape(t *testing.T) {
	t.Parallel()
	data, err := Encode(CreatePostRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"text":"hi"}` {
		t.Errorf("got %s", data)
	}
}

func TestTextLengthCountsRunes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"こんにちは", 5},
		{strings.Repeat("é", MaxTextLength), MaxTextLength},
	}
	for _, c := range cases {
		if got := TextLength(c.text); got != c.want {
			t.Errorf("TextLength(%q): got %d, want %d", c.text, got, c.want)
		}
	}
}

func TestFrameOmitsEmptyFields(t *testing.T) {
	t.Parallel()
	data, err := Encode(Frame{Type: FrameError, Message: "boom"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["html"]; ok {
		t.Error("expected html to be omitted")
	}
	if _, ok := raw["message"]; !ok {
		t.Error("expected message field")
	}
}
