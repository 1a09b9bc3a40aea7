package http

import (
	"TinyLink-Backend/internal/analytics"
	"TinyLink-Backend/internal/repository"
	"TinyLink-Backend/internal/service"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RedirectHandler resolves short codes to their targets.
type RedirectHandler struct {
	registry *service.LinkRegistry
	clicks   *analytics.Processor
	log      *zap.Logger
}

func NewRedirectHandler(registry *service.LinkRegistry, clicks *analytics.Processor, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		registry: registry,
		clicks:   clicks,
		log:      log,
	}
}

// HandleRedirect resolves /{code} and issues a 302 to the target URL. The
// click increment is queued best-effort: a failure there must never turn a
// working redirect into an error page.
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/")

	if code == "" || isSystemPath(code) {
		http.NotFound(w, r)
		return
	}

	link, err := h.registry.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.log.Debug("code not found", zap.String("code", code))
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to resolve redirect", zap.String("code", code), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.clicks.Submit(code); err != nil {
		h.log.Warn("failed to queue click", zap.String("code", code), zap.Error(err))
	}

	h.log.Info("redirect",
		zap.String("code", code),
		zap.String("url", link.URL))

	http.Redirect(w, r, link.URL, http.StatusFound)
}
