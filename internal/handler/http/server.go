package http

import (
	"TinyLink-Backend/internal/analytics"
	"TinyLink-Backend/internal/config"
	"TinyLink-Backend/internal/repository"
	"TinyLink-Backend/internal/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server wires the HTTP handlers together.
type Server struct {
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	log             *zap.Logger
}

// NewServer creates the HTTP server facade.
func NewServer(
	storage repository.Storage,
	registry *service.LinkRegistry,
	qr *service.QRService,
	clicks *analytics.Processor,
	log *zap.Logger,
	cfg *config.ShortLink,
) *Server {
	shortURLs := newShortURLBuilder(cfg.BaseURL)
	linksHandler := NewLinksHandler(registry, qr, shortURLs, log)
	redirectHandler := NewRedirectHandler(registry, clicks, log)
	healthHandler := NewHealthHandler(storage, clicks, log)

	return &Server{
		linksHandler:    linksHandler,
		redirectHandler: redirectHandler,
		healthHandler:   healthHandler,
		log:             log,
	}
}

// SetupRoutes configures the route table.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)
	mux.HandleFunc("/metrics", s.healthHandler.Metrics)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Link API
	mux.HandleFunc("/api/links", withCORS(s.handleLinksCollection))
	mux.HandleFunc("/api/links/", withCORS(s.handleLinkItem))

	// Redirect endpoint, must be last
	mux.HandleFunc("/", s.redirectHandler.HandleRedirect)

	return mux
}

// handleLinksCollection routes /api/links by HTTP method.
func (s *Server) handleLinksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.linksHandler.CreateLink(w, r)
	case http.MethodGet:
		s.linksHandler.ListLinks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLinkItem routes /api/links/{code} and /api/links/{code}/qr.
func (s *Server) handleLinkItem(w http.ResponseWriter, r *http.Request) {
	code, rest := splitLinkPath(r.URL.Path)
	if code == "" {
		http.Error(w, "Code is required", http.StatusBadRequest)
		return
	}

	if rest == "qr" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.linksHandler.GetQR(w, r, code)
		return
	}
	if rest != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.linksHandler.GetLink(w, r, code)
	case http.MethodDelete:
		s.linksHandler.DeleteLink(w, r, code)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
