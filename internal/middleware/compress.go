package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compress gzips responses for clients that accept it. Small bodies are
// sent as is. Do not wrap websocket endpoints.
func Compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
