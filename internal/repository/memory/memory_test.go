package memory

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	link := &domain.Link{Code: "abcdef1", URL: "https://example.com/x"}
	require.NoError(t, s.CreateLink(ctx, link))

	got, err := s.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", got.URL)
	assert.EqualValues(t, 0, got.Clicks)
	assert.False(t, got.Deleted)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com/a"}))
	err := s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com/b"})
	assert.ErrorIs(t, err, repository.ErrCodeExists)
}

func TestSoftDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))
	require.NoError(t, s.SoftDeleteLink(ctx, "abcdef1"))

	_, err := s.GetLink(ctx, "abcdef1")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	// The row survives: the code stays claimed and re-creation conflicts.
	exists, err := s.CodeExists(ctx, "abcdef1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.ErrorIs(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}), repository.ErrCodeExists)

	// Idempotent, including for unknown codes.
	require.NoError(t, s.SoftDeleteLink(ctx, "abcdef1"))
	require.NoError(t, s.SoftDeleteLink(ctx, "missing1"))
}

func TestListOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "oldest1", URL: "https://example.com/1", CreatedAt: base.Add(-2 * time.Hour)}))
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "middle1", URL: "https://example.com/2", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "newest1", URL: "https://example.com/3", CreatedAt: base}))
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "deleted1", URL: "https://example.com/4", CreatedAt: base}))
	require.NoError(t, s.SoftDeleteLink(ctx, "deleted1"))

	links, err := s.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "newest1", links[0].Code)
	assert.Equal(t, "middle1", links[1].Code)
	assert.Equal(t, "oldest1", links[2].Code)
}

func TestListOrdering_TiesByInsertion(t *testing.T) {
	s := New()
	ctx := context.Background()

	ts := time.Now()
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "first01", URL: "https://example.com/1", CreatedAt: ts}))
	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "second1", URL: "https://example.com/2", CreatedAt: ts}))

	links, err := s.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "first01", links[0].Code)
	assert.Equal(t, "second1", links[1].Code)
}

func TestRecordClick(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))

	before := time.Now()
	require.NoError(t, s.RecordClick(ctx, "abcdef1"))

	got, err := s.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Clicks)
	require.NotNil(t, got.LastClicked)
	assert.False(t, got.LastClicked.Before(before))

	assert.ErrorIs(t, s.RecordClick(ctx, "missing1"), repository.ErrCodeNotFound)
}

func TestRecordClick_Concurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RecordClick(ctx, "abcdef1"))
		}()
	}
	wg.Wait()

	got, err := s.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	assert.EqualValues(t, n, got.Clicks)
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))

	got, err := s.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	got.Clicks = 999

	again, err := s.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, again.Clicks)
}
