package sqlstore

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLStorage implements repository.Storage on top of GORM. It works with any
// dialector the database package can open (PostgreSQL in production, SQLite
// for local setups and tests).
type SQLStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *SQLStorage {
	return &SQLStorage{
		db:  db,
		log: log,
	}
}

// CreateLink inserts a new link. The primary key constraint on code is the
// source of truth for uniqueness: a duplicate insert, racing or not, comes
// back as ErrCodeExists.
func (s *SQLStorage) CreateLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrCodeExists
		}
		s.log.Error("failed to create link", zap.String("code", link.Code), zap.Error(err))
		return fmt.Errorf("failed to create link: %w", err)
	}

	s.log.Info("created link", zap.String("code", link.Code))
	return nil
}

// GetLink returns the link for code, skipping soft-deleted rows.
func (s *SQLStorage) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("code = ? AND deleted = ?", code, false).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCodeNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// ListLinks returns all non-deleted links, most recent first.
func (s *SQLStorage) ListLinks(ctx context.Context) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Where("deleted = ?", false).
		Order("created_at DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list links", zap.Error(err))
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// SoftDeleteLink marks the row as deleted. Unknown and already-deleted codes
// are accepted; the orchestrator decides whether absence is an error.
func (s *SQLStorage) SoftDeleteLink(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("code = ?", code).Update("deleted", true)
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.String("code", code), zap.Error(result.Error))
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.log.Info("soft-deleted link", zap.String("code", code))
	}
	return nil
}

// RecordClick bumps the click counter in a single UPDATE so concurrent
// redirects for the same code cannot lose increments.
func (s *SQLStorage) RecordClick(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("code = ? AND deleted = ?", code, false).
		Updates(map[string]interface{}{
			"clicks":       gorm.Expr("clicks + 1"),
			"last_clicked": time.Now(),
		})
	if result.Error != nil {
		s.log.Error("failed to record click", zap.String("code", code), zap.Error(result.Error))
		return fmt.Errorf("failed to record click: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}
	return nil
}

// CodeExists checks the primary key regardless of the deleted flag, so a
// retired code can never be handed out again.
func (s *SQLStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Link{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check code existence", zap.String("code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check code: %w", err)
	}

	return count > 0, nil
}
