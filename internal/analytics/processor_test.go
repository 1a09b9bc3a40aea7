package analytics

import (
	"TinyLink-Backend/internal/domain"
	"TinyLink-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProcessor(t *testing.T, storage *memory.MemStorage) *Processor {
	t.Helper()

	cfg := DefaultConfig()
	cfg.WorkerCount = 2
	cfg.RetryDelay = 10 * time.Millisecond
	cfg.ShutdownTimeout = 5 * time.Second

	return NewProcessor(storage, zap.NewNop(), cfg)
}

func TestProcessor_RecordsSubmittedClicks(t *testing.T) {
	storage := memory.New()
	ctx := context.Background()
	require.NoError(t, storage.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))

	p := newTestProcessor(t, storage)
	require.NoError(t, p.Start())

	const n = 25
	for i := 0; i < n; i++ {
		require.NoError(t, p.Submit("abcdef1"))
	}

	require.Eventually(t, func() bool {
		link, err := storage.GetLink(ctx, "abcdef1")
		return err == nil && link.Clicks == n
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Stop())
}

func TestProcessor_StopDrainsQueue(t *testing.T) {
	storage := memory.New()
	ctx := context.Background()
	require.NoError(t, storage.CreateLink(ctx, &domain.Link{Code: "abcdef1", URL: "https://example.com"}))

	p := newTestProcessor(t, storage)
	require.NoError(t, p.Start())

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit("abcdef1"))
	}
	require.NoError(t, p.Stop())

	link, err := storage.GetLink(ctx, "abcdef1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, link.Clicks)
}

func TestProcessor_SubmitBeforeStart(t *testing.T) {
	p := newTestProcessor(t, memory.New())
	assert.Error(t, p.Submit("abcdef1"))
}

func TestProcessor_DropsClickForMissingCode(t *testing.T) {
	storage := memory.New()
	p := newTestProcessor(t, storage)
	require.NoError(t, p.Start())

	// A click for an unknown code is dropped without retries; Stop must not
	// hang on it.
	require.NoError(t, p.Submit("missing1"))
	require.NoError(t, p.Stop())
}

func TestProcessor_DoubleStart(t *testing.T) {
	p := newTestProcessor(t, memory.New())
	require.NoError(t, p.Start())
	assert.Error(t, p.Start())
	require.NoError(t, p.Stop())
}

func TestProcessor_GetStats(t *testing.T) {
	p := newTestProcessor(t, memory.New())
	stats := p.GetStats()
	assert.Equal(t, false, stats["started"])
	assert.Equal(t, 2, stats["worker_count"])
}
