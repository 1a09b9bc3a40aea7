package http

import (
	"net/http"
	"strings"
)

// withCORS adds CORS headers and answers preflight requests.
func withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// splitLinkPath extracts the code and the optional trailing segment from an
// /api/links/{code}[/qr] path.
func splitLinkPath(path string) (code, rest string) {
	trimmed := strings.TrimPrefix(path, "/api/links/")
	parts := strings.SplitN(strings.Trim(trimmed, "/"), "/", 2)
	code = parts[0]
	if len(parts) == 2 {
		rest = parts[1]
	}
	return code, rest
}

// isSystemPath reports whether path belongs to the API surface rather than
// the redirect namespace.
func isSystemPath(alias string) bool {
	systemPrefixes := []string{
		"api/",
		"health",
		"ready",
		"metrics",
		"swagger/",
	}

	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(alias, prefix) {
			return true
		}
	}

	return false
}
