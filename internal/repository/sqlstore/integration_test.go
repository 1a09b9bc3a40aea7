package sqlstore

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresStorage spins up a disposable PostgreSQL container. Skipped in
// short mode and when Docker is unavailable.
func newPostgresStorage(t *testing.T) *SQLStorage {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("tinylink"),
		tcpostgres.WithUsername("tinylink"),
		tcpostgres.WithPassword("tinylink"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Skipf("cannot start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Link{}))

	return New(db, zap.NewNop())
}

func TestPostgres_DuplicateKey(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com/a"}))
	assert.ErrorIs(t,
		s.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com/b"}),
		repository.ErrCodeExists)
}

func TestPostgres_ConcurrentCreateSameCode(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	// All writers race for the same code; the primary key must let exactly
	// one through.
	const writers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners, conflicts int

	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			err := s.CreateLink(ctx, &domain.Link{Code: "racedcd", URL: "https://example.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, repository.ErrCodeExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, writers-1, conflicts)
}

func TestPostgres_ConcurrentClicks(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "clicked1", URL: "https://example.com"}))

	const n = 50
	before := time.Now().Add(-time.Second)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RecordClick(ctx, "clicked1"))
		}()
	}
	wg.Wait()

	got, err := s.GetLink(ctx, "clicked1")
	require.NoError(t, err)
	assert.EqualValues(t, n, got.Clicks, "no increment may be lost")
	require.NotNil(t, got.LastClicked)
	assert.True(t, got.LastClicked.After(before))
}

func TestPostgres_SoftDeleteLifecycle(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLink(ctx, &domain.Link{Code: "lifecyc1", URL: "https://example.com"}))
	require.NoError(t, s.SoftDeleteLink(ctx, "lifecyc1"))

	_, err := s.GetLink(ctx, "lifecyc1")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	links, err := s.ListLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	exists, err := s.CodeExists(ctx, "lifecyc1")
	require.NoError(t, err)
	assert.True(t, exists)
}
