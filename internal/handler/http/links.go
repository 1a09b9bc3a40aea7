package http

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"TinyLink-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// LinksHandler serves the link management API.
type LinksHandler struct {
	registry  *service.LinkRegistry
	qr        *service.QRService
	shortURLs *shortURLBuilder
	log       *zap.Logger
}

func NewLinksHandler(registry *service.LinkRegistry, qr *service.QRService, shortURLs *shortURLBuilder, log *zap.Logger) *LinksHandler {
	return &LinksHandler{
		registry:  registry,
		qr:        qr,
		shortURLs: shortURLs,
		log:       log,
	}
}

// CreateLinkRequest is the body of a link creation request.
type CreateLinkRequest struct {
	URL  string `json:"url"`
	Code string `json:"code,omitempty"`
}

// LinkInfo describes a link in API responses.
type LinkInfo struct {
	Code        string `json:"code"`
	URL         string `json:"url"`
	ShortURL    string `json:"short_url"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   string `json:"created_at"`
	LastClicked string `json:"last_clicked,omitempty"`
}

// ListLinksResponse is the body of a link listing response.
type ListLinksResponse struct {
	Links []LinkInfo `json:"links"`
}

// CreateLink creates a new short link
//
//	@Summary		Create a short link
//	@Description	Shorten a URL, optionally under a caller-chosen code
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateLinkRequest	true	"Link creation request"
//	@Success		201		{object}	LinkInfo			"Link created"
//	@Failure		400		{object}	map[string]string	"Missing or invalid url, or invalid code format"
//	@Failure		409		{object}	map[string]string	"Code already exists"
//	@Failure		503		{object}	map[string]string	"Code generation exhausted"
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	link, err := h.registry.CreateLink(r.Context(), req.URL, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingURL):
			h.writeError(w, "Missing 'url'", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidURL):
			h.writeError(w, "Invalid URL", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidCode):
			h.writeError(w, "Invalid code format", http.StatusBadRequest)
		case errors.Is(err, repository.ErrCodeExists):
			h.writeError(w, "Code already exists", http.StatusConflict)
		case errors.Is(err, service.ErrGenerateExhausted):
			h.log.Error("code generation exhausted", zap.Error(err))
			h.writeError(w, "Could not allocate a code, try again", http.StatusServiceUnavailable)
		default:
			h.log.Error("failed to create link", zap.Error(err))
			h.writeError(w, "Failed to create link", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("created link", zap.String("code", link.Code))
	h.writeJSON(w, h.linkInfo(r, link), http.StatusCreated)
}

// ListLinks returns all active links
//
//	@Summary		List links
//	@Description	All active links, most recently created first
//	@Tags			Links
//	@Produce		json
//	@Success		200	{object}	ListLinksResponse
//	@Router			/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.registry.ListLinks(r.Context())
	if err != nil {
		h.log.Error("failed to list links", zap.Error(err))
		h.writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	infos := make([]LinkInfo, len(links))
	for i, link := range links {
		infos[i] = h.linkInfo(r, link)
	}

	h.writeJSON(w, ListLinksResponse{Links: infos}, http.StatusOK)
}

// GetLink returns a single link
//
//	@Summary		Get link details
//	@Tags			Links
//	@Produce		json
//	@Param			code	path		string	true	"Short code"
//	@Success		200		{object}	LinkInfo
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/api/links/{code} [get]
func (h *LinksHandler) GetLink(w http.ResponseWriter, r *http.Request, code string) {
	link, err := h.registry.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, h.linkInfo(r, link), http.StatusOK)
}

// DeleteLink soft-deletes a link
//
//	@Summary		Delete a link
//	@Description	Soft-delete a link; the code is retired permanently
//	@Tags			Links
//	@Param			code	path	string	true	"Short code"
//	@Success		204		"Link deleted"
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/api/links/{code} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request, code string) {
	if err := h.registry.DeleteLink(r.Context(), code); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete link", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Failed to delete link", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted link", zap.String("code", code))
	w.WriteHeader(http.StatusNoContent)
}

// GetQR renders a QR code for the short URL
//
//	@Summary		QR code for a link
//	@Tags			Links
//	@Produce		png
//	@Param			code	path		string	true	"Short code"
//	@Param			size	query		int		false	"Image size in pixels"
//	@Success		200		{file}		binary
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/api/links/{code}/qr [get]
func (h *LinksHandler) GetQR(w http.ResponseWriter, r *http.Request, code string) {
	link, err := h.registry.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get link for qr", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, _ = strconv.Atoi(raw)
	}

	png, err := h.qr.EncodePNG(h.shortURLs.Build(r, link.Code), size)
	if err != nil {
		h.log.Error("failed to encode qr code", zap.String("code", code), zap.Error(err))
		h.writeError(w, "Failed to render QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error("failed to write qr response", zap.Error(err))
	}
}

// Helper methods

func (h *LinksHandler) linkInfo(r *http.Request, link *domain.Link) LinkInfo {
	info := LinkInfo{
		Code:      link.Code,
		URL:       link.URL,
		ShortURL:  h.shortURLs.Build(r, link.Code),
		Clicks:    link.Clicks,
		CreatedAt: link.CreatedAt.Format(time.RFC3339),
	}
	if link.LastClicked != nil {
		info.LastClicked = link.LastClicked.Format(time.RFC3339)
	}
	return info
}

func (h *LinksHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *LinksHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.log.Error("failed to encode error response", zap.Error(err))
	}
}
