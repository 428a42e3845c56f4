package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// CORS allows cross-origin requests, with credentials, from the listed
// origins only. Preflight requests are answered here; one from any other
// origin gets no CORS headers and never reaches next.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return handlers.CORS(
		handlers.AllowedOriginValidator(func(origin string) bool { return allowed[origin] }),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
		handlers.AllowCredentials(),
		handlers.MaxAge(600),
	)
}
