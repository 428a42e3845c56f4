package collection

import "github.com/devaloi/postboard/internal/domain"

// State is a snapshot of the posts collection. Items are most recent
// first. Err is empty when no list failure is outstanding. Version grows
// by one with every transition.
type State struct {
	Items   []domain.Post
	Loading bool
	Err     string
	Version uint64
}

// View names the one thing a renderer should show for this state:
// loading wins over error, error wins over the list.
func (s State) View() string {
	switch {
	case s.Loading:
		return domain.ViewLoading
	case s.Err != "":
		return domain.ViewError
	default:
		return domain.ViewList
	}
}

func (s State) clone() State {
	s.Items = append(make([]domain.Post, 0, len(s.Items)), s.Items...)
	return s
}

// CreateResult reports the outcome of Store.Create to the caller.
// Failures are not recorded in the store's state.
type CreateResult struct {
	Success bool
	Error   string
	Post    domain.Post
}
