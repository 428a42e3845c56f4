package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/domain"
)

// ValidationError is a draft rejected before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Local validation failures, checked in this order.
var (
	ErrEmptyText   = &ValidationError{Message: "enter some text"}
	ErrTextTooLong = &ValidationError{Message: fmt.Sprintf("text must be %d characters or fewer", domain.MaxTextLength)}
)

// SubmitError is a create that the server rejected or that failed in
// transit. Message is shown under the form.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string { return e.Message }

// Validate applies the local draft rules.
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if domain.TextLength(text) > domain.MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// Status of a draft.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
)

func (s Status) String() string {
	if s == StatusSubmitting {
		return "submitting"
	}
	return "idle"
}

// Creator is the part of the collection store a form submits to.
type Creator interface {
	Create(ctx context.Context, text string) collection.CreateResult
}

// Form is the user's unsaved draft: its text, whether it is being
// submitted and the last submission error.
type Form struct {
	Text   string
	Status Status
	Err    string
}

// Submit validates the draft and, when it passes, makes exactly one
// create call with the text as typed. On success the text is cleared;
// on failure it is kept and the error recorded.
func (f *Form) Submit(ctx context.Context, c Creator) error {
	if err := Validate(f.Text); err != nil {
		f.Err = err.Error()
		return err
	}

	f.Status = StatusSubmitting
	f.Err = ""
	res := c.Create(ctx, f.Text)
	f.Status = StatusIdle

	if !res.Success {
		f.Err = res.Error
		return &SubmitError{Message: res.Error}
	}
	f.Text = ""
	return nil
}
