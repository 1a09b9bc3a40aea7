package service

import (
	"TinyLink-Backend/internal/config"
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"TinyLink-Backend/pkg/random"
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

var (
	ErrMissingURL = errors.New("missing url")
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidCode is returned for user-supplied codes that fail validation.
	ErrInvalidCode = errors.New("invalid code format")
	// ErrGenerateExhausted is returned when the generation retry ceiling is
	// reached without finding a free code.
	ErrGenerateExhausted = errors.New("could not generate a unique code")
)

// LinkRegistry orchestrates link creation, lookup, deletion and redirect
// resolution on top of a Storage. It never holds a lock across store calls:
// the store's primary-key constraint is the only concurrency control used
// for racing inserts.
type LinkRegistry struct {
	storage repository.Storage
	cfg     *config.ShortLink
	log     *zap.Logger
}

func NewLinkRegistry(storage repository.Storage, cfg *config.ShortLink, log *zap.Logger) *LinkRegistry {
	return &LinkRegistry{
		storage: storage,
		cfg:     cfg,
		log:     log,
	}
}

// CreateLink validates the target URL and either claims the supplied custom
// code or allocates a fresh one. A conflict on a custom code is reported
// immediately as repository.ErrCodeExists; a conflict on a generated code
// (two callers drew the same candidate) triggers regeneration within the
// retry budget.
func (r *LinkRegistry) CreateLink(ctx context.Context, rawURL, customCode string) (*domain.Link, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	if customCode != "" {
		return r.createWithCustomCode(ctx, rawURL, customCode)
	}
	return r.createWithGeneratedCode(ctx, rawURL)
}

func (r *LinkRegistry) createWithCustomCode(ctx context.Context, rawURL, code string) (*domain.Link, error) {
	if !IsValidCode(code) {
		return nil, ErrInvalidCode
	}

	exists, err := r.storage.CodeExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check code existence: %w", err)
	}
	if exists {
		return nil, repository.ErrCodeExists
	}

	link := &domain.Link{Code: code, URL: rawURL}
	if err := r.storage.CreateLink(ctx, link); err != nil {
		// A losing race on a user-supplied code is a genuine conflict.
		return nil, err
	}
	return link, nil
}

func (r *LinkRegistry) createWithGeneratedCode(ctx context.Context, rawURL string) (*domain.Link, error) {
	length := generatedLength(r.cfg.CodeLength)

	for attempt := 1; attempt <= r.cfg.MaxGenerateAttempts; attempt++ {
		code, err := random.NewRandomString(length)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		exists, err := r.storage.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check code existence: %w", err)
		}
		if exists {
			continue
		}

		link := &domain.Link{Code: code, URL: rawURL}
		err = r.storage.CreateLink(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, repository.ErrCodeExists) {
			// Another writer claimed the code between the existence check and
			// the insert. Draw again.
			r.log.Debug("generated code lost insert race, retrying",
				zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}
		return nil, err
	}

	return nil, ErrGenerateExhausted
}

// GetLink returns the active link for code.
func (r *LinkRegistry) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	return r.storage.GetLink(ctx, code)
}

// ListLinks returns all active links, most recently created first.
func (r *LinkRegistry) ListLinks(ctx context.Context) ([]*domain.Link, error) {
	return r.storage.ListLinks(ctx)
}

// DeleteLink soft-deletes the link for code. Deletion is terminal: there is
// no undelete, and the code is never handed out again.
func (r *LinkRegistry) DeleteLink(ctx context.Context, code string) error {
	if _, err := r.storage.GetLink(ctx, code); err != nil {
		return err
	}
	return r.storage.SoftDeleteLink(ctx, code)
}

// Resolve returns the target link for a redirect. Recording the click is the
// caller's concern so a failed increment can never block the redirect.
func (r *LinkRegistry) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	return r.storage.GetLink(ctx, code)
}
