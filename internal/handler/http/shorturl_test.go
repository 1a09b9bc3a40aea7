package http

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortURLBuilder(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Host = "short.test"

	t.Run("configured base url wins", func(t *testing.T) {
		b := newShortURLBuilder("https://sho.rt/")
		assert.Equal(t, "https://sho.rt/abcdef1", b.Build(req, "abcdef1"))
	})

	t.Run("derived from request", func(t *testing.T) {
		b := newShortURLBuilder("")
		assert.Equal(t, "http://short.test/abcdef1", b.Build(req, "abcdef1"))
	})

	t.Run("forwarded proto", func(t *testing.T) {
		fwd := httptest.NewRequest("GET", "/api/links", nil)
		fwd.Host = "short.test"
		fwd.Header.Set("X-Forwarded-Proto", "https")

		b := newShortURLBuilder("")
		assert.Equal(t, "https://short.test/abcdef1", b.Build(fwd, "abcdef1"))
	})

	t.Run("tls", func(t *testing.T) {
		sec := httptest.NewRequest("GET", "/api/links", nil)
		sec.Host = "short.test"
		sec.TLS = &tls.ConnectionState{}

		b := newShortURLBuilder("")
		assert.Equal(t, "https://short.test/abcdef1", b.Build(sec, "abcdef1"))
	})
}

func TestSplitLinkPath(t *testing.T) {
	code, rest := splitLinkPath("/api/links/abcdef1")
	assert.Equal(t, "abcdef1", code)
	assert.Empty(t, rest)

	code, rest = splitLinkPath("/api/links/abcdef1/qr")
	assert.Equal(t, "abcdef1", code)
	assert.Equal(t, "qr", rest)

	code, rest = splitLinkPath("/api/links/")
	assert.Empty(t, code)
	assert.Empty(t, rest)
}

func TestIsSystemPath(t *testing.T) {
	assert.True(t, isSystemPath("api/links"))
	assert.True(t, isSystemPath("health"))
	assert.True(t, isSystemPath("swagger/index.html"))
	assert.False(t, isSystemPath("abcdef1"))
}
