package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

const (
	eventBatchSize     = 10
	eventBufferSize    = 100
	eventFlushInterval = time.Second
)

// EventRecorder stores order status history.
type EventRecorder interface {
	Record(ctx context.Context, event model.OrderEvent)
}

// OrderEventRecorder writes order events in the background, in batches.
// When its buffer is full it writes synchronously instead.
type OrderEventRecorder struct {
	repo     repository.OrderEventRepository
	events   chan model.OrderEvent
	interval time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	started sync.Once
}

// NewOrderEventRecorder creates a recorder. Call Start before Record.
func NewOrderEventRecorder(repo repository.OrderEventRepository) *OrderEventRecorder {
	return &OrderEventRecorder{
		repo:     repo,
		events:   make(chan model.OrderEvent, eventBufferSize),
		interval: eventFlushInterval,
		logger:   slog.Default().With("component", "order_events"),
		done:     make(chan struct{}),
	}
}

// Start launches the writer goroutine. It stops when ctx is cancelled or
// Close is called, flushing what it holds.
func (r *OrderEventRecorder) Start(ctx context.Context) {
	r.started.Do(func() {
		go r.run(ctx)
	})
}

func (r *OrderEventRecorder) run(ctx context.Context) {
	defer close(r.done)

	batch := make([]model.OrderEvent, 0, eventBatchSize)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Request contexts are gone by now.
		if err := r.repo.CreateBatch(context.Background(), batch); err != nil {
			r.logger.Error("write order events", "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case event, ok := <-r.events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, event)
			if len(batch) >= eventBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			r.drain(&batch)
			flush()
			return
		}
	}
}

func (r *OrderEventRecorder) drain(batch *[]model.OrderEvent) {
	for {
		select {
		case event, ok := <-r.events:
			if !ok {
				return
			}
			*batch = append(*batch, event)
		default:
			return
		}
	}
}

// Record queues an event without blocking.
func (r *OrderEventRecorder) Record(ctx context.Context, event model.OrderEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.closed {
		select {
		case r.events <- event:
			return
		default:
		}
	}

	if err := r.repo.Create(ctx, &event); err != nil {
		r.logger.ErrorContext(ctx, "write order event", "order_id", event.OrderID, "error", err)
	}
}

// Close stops accepting queued events and waits for the writer to flush.
func (r *OrderEventRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	started := true
	r.started.Do(func() { started = false })
	if started {
		<-r.done
	}

	// Anything still buffered was queued after the writer stopped, or the
	// writer never ran.
	var rest []model.OrderEvent
	for event := range r.events {
		rest = append(rest, event)
	}
	if len(rest) > 0 {
		if err := r.repo.CreateBatch(context.Background(), rest); err != nil {
			r.logger.Error("write order events", "count", len(rest), "error", err)
		}
	}
}
