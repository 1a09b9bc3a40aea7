// Package analytics records clicks asynchronously so a slow or failing
// increment can never delay a redirect response.
package analytics

import (
	"TinyLink-Backend/internal/config"
	"TinyLink-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Click is a queued click-increment job.
type Click struct {
	Code        string
	SubmittedAt time.Time
}

// ProcessorConfig holds configuration for the click processor.
type ProcessorConfig struct {
	WorkerCount     int           // number of worker goroutines
	BufferSize      int           // size of the job queue buffer
	RetryAttempts   int           // attempts per click before it is dropped
	RetryDelay      time.Duration // base delay between retries
	ShutdownTimeout time.Duration // time to wait for graceful shutdown
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// FromAppConfig builds a ProcessorConfig from the application config,
// falling back to defaults for unset values.
func FromAppConfig(cfg *config.Analytics) ProcessorConfig {
	pc := DefaultConfig()
	if cfg.WorkerCount > 0 {
		pc.WorkerCount = cfg.WorkerCount
	}
	if cfg.BufferSize > 0 {
		pc.BufferSize = cfg.BufferSize
	}
	if cfg.RetryAttempts > 0 {
		pc.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		pc.RetryDelay = cfg.RetryDelay
	}
	return pc
}

// Processor is a worker pool draining click jobs into Storage.RecordClick.
// Recording is best-effort: a click that still fails after all retries is
// logged and dropped, never surfaced to the visitor.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	log      *zap.Logger
	jobQueue chan *Click
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// NewProcessor creates a new click processor.
func NewProcessor(storage repository.Storage, log *zap.Logger, config ProcessorConfig) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		log:      log,
		jobQueue: make(chan *Click, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker goroutines.
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}

	p.log.Info("starting click processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop drains the queue and shuts the workers down, waiting up to
// ShutdownTimeout.
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	p.log.Info("stopping click processor", zap.Int("queued", len(p.jobQueue)))

	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("click processor stopped")
	case <-time.After(p.config.ShutdownTimeout):
		p.cancel()
		p.log.Warn("click processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	p.cancel()
	p.started = false
	return nil
}

// Submit queues a click for recording. A full queue drops the click rather
// than blocking the redirect path.
func (p *Processor) Submit(code string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	click := &Click{Code: code, SubmittedAt: time.Now()}
	select {
	case p.jobQueue <- click:
		return nil
	default:
		p.log.Error("click queue is full, dropping click",
			zap.String("code", code),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return fmt.Errorf("click queue is full")
	}
}

func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Debug("click worker started")

	for click := range p.jobQueue {
		p.recordWithRetry(log, click)
	}

	log.Debug("click worker stopped")
}

func (p *Processor) recordWithRetry(log *zap.Logger, click *Click) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := p.storage.RecordClick(ctx, click.Code)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("click recorded after retry",
					zap.String("code", click.Code),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		// The link may have been deleted while the click sat in the queue.
		// Nothing to record in that case.
		if errors.Is(err, repository.ErrCodeNotFound) {
			log.Debug("dropping click for missing code", zap.String("code", click.Code))
			return
		}

		lastErr = err
		if attempt == p.config.RetryAttempts {
			break
		}

		// Exponential backoff between attempts.
		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			log.Info("worker shutdown during retry delay")
			return
		}
	}

	log.Error("click dropped after all retries",
		zap.String("code", click.Code),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Duration("queued_for", time.Since(click.SubmittedAt)),
		zap.Error(lastErr),
	)
}

// GetStats returns processor statistics.
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
	}
}
