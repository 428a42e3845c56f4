package api

// Fixed messages used when the server gives no usable detail.
const (
	MsgFetchFailed  = "Failed to fetch posts"
	MsgCreateFailed = "Failed to create post"
)

// NetworkError reports a failed posts request. Its Error text is the
// message meant for display: a fixed string, or the server's detail for a
// rejected create.
type NetworkError struct {
	Op         string // "list" or "create"
	StatusCode int    // 0 when no response was received
	Message    string
	Err        error // transport or decode cause, if any
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
