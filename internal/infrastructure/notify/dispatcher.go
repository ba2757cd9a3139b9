package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/article/model"
)

// Sink delivers one publish summary (asynq producer in production)
type Sink interface {
	EnqueuePublishNotice(ctx context.Context, summary model.Summary) error
}

// Dispatcher is the fire-and-forget publish channel. NotifyPublish never
// blocks the save path: a full buffer drops the message.
type Dispatcher struct {
	sink    Sink
	ch      chan model.Summary
	timeout time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	closed   bool
}

func NewDispatcher(sink Sink, bufferSize int) *Dispatcher {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Dispatcher{
		sink:    sink,
		ch:      make(chan model.Summary, bufferSize),
		timeout: 5 * time.Second,
	}
}

// Start runs the forwarding loop until Stop
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for summary := range d.ch {
			d.forward(summary)
		}
	}()
}

func (d *Dispatcher) forward(summary model.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.EnqueuePublishNotice(ctx, summary); err != nil {
		log.Debug().Err(err).Str("article_id", summary.ID.String()).Msg("publish notice not delivered")
	}
}

// NotifyPublish implements the article service PublishNotifier
func (d *Dispatcher) NotifyPublish(ctx context.Context, summary model.Summary) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.ch <- summary:
	default:
		log.Debug().Str("article_id", summary.ID.String()).Msg("publish notice dropped: buffer full")
	}
}

// Stop closes the channel and waits for buffered messages to be forwarded
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.ch)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

// Noop discards every notice (NOTIFY_ENABLED=false)
type Noop struct{}

func (Noop) NotifyPublish(context.Context, model.Summary) {}
