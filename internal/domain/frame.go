package domain

// Frame types.
const (
	FrameState = "state"
	FrameError = "error"
)

// View names carried by a state frame. They mirror the rendering policy:
// exactly one of them is on screen at a time.
const (
	ViewLoading = "loading"
	ViewError   = "error"
	ViewList    = "list"
)

// Frame is pushed to live viewers whenever the posts collection changes.
type Frame struct {
	Type    string `json:"type"`
	View    string `json:"view,omitempty"`
	Version uint64 `json:"version,omitempty"`
	HTML    string `json:"html,omitempty"`
	Message string `json:"message,omitempty"`
}
