package http

import (
	"net/http"
	"strings"
)

// shortURLBuilder builds fully qualified short URLs. A configured base URL
// wins; otherwise the scheme and host of the incoming request are used,
// honouring X-Forwarded-Proto behind a proxy.
type shortURLBuilder struct {
	baseURL string
}

func newShortURLBuilder(baseURL string) *shortURLBuilder {
	return &shortURLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *shortURLBuilder) Build(r *http.Request, code string) string {
	if b.baseURL != "" {
		return b.baseURL + "/" + code
	}

	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/" + code
}
