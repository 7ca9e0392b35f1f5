// Package audit ships a copy of every recorded event, plus a context
// snapshot, to an external log store for debugging. Delivery is
// fire-and-forget: failures are logged and counted, never surfaced to the
// recording call.
package audit

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/pkg/logger"
	"github.com/okian/skudd/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 1
)

// Totals is the score line snapshot attached to each audit record.
type Totals struct {
	HomeGoals  int `json:"homeGoals"`
	AwayGoals  int `json:"awayGoals"`
	EventCount int `json:"eventCount"`
}

// Record is one audit entry: the recorded event plus context.
type Record struct {
	ID     string      `json:"id"`
	Event  model.Event `json:"event"`
	Totals Totals      `json:"totals"`
	Device string      `json:"device"`
	At     string      `json:"at"`
}

// NewRecord builds a record with a fresh id, the local hostname as device
// info and the current UTC time.
func NewRecord(e model.Event, totals Totals) Record {
	host, _ := os.Hostname()
	return Record{
		ID:     uuid.New().String(),
		Event:  e,
		Totals: totals,
		Device: host,
		At:     time.Now().UTC().Format(time.RFC3339),
	}
}

// Sink receives audit records.
type Sink interface {
	// Deliver ships one record. Errors are the pipeline's to absorb.
	Deliver(ctx context.Context, r Record) error
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithQueueSize bounds the in-memory record queue.
func WithQueueSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of delivery workers.
func WithWorkerCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workerCount = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline is a bounded queue drained by delivery workers.
type Pipeline struct {
	sink        Sink
	queueSize   int
	workerCount int
	logger      logger.Logger

	mu      sync.Mutex
	queue   chan Record
	started bool
	wg      sync.WaitGroup
}

// NewPipeline creates a pipeline delivering to sink.
func NewPipeline(sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		sink:        sink,
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the delivery workers.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("audit")
	}
	p.queue = make(chan Record, p.queueSize)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	p.started = true
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

// Enqueue offers a record to the pipeline without blocking. Records are
// dropped (and counted) on backpressure or when the pipeline is stopped.
func (p *Pipeline) Enqueue(ctx context.Context, r Record) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		metrics.RecordAuditDropped()
		return false
	}
	select {
	case p.queue <- r:
		metrics.UpdateAuditQueueSize(len(p.queue))
		return true
	default:
		metrics.RecordAuditDropped()
		p.logger.Warn(ctx, "audit queue full, dropping record",
			logger.String("record", r.ID),
			logger.Int64("event", r.Event.ID),
		)
		return false
	}
}

func (p *Pipeline) run(ctx context.Context) {
	defer p.wg.Done()
	for r := range p.queue {
		metrics.UpdateAuditQueueSize(len(p.queue))
		if err := p.sink.Deliver(ctx, r); err != nil {
			metrics.RecordAuditFailed()
			p.logger.Warn(ctx, "audit delivery failed",
				logger.String("record", r.ID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordAuditDelivered()
	}
}
