// Package export runs the fire-and-forget ledger export.
package export

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mavidal/fintrack-be/internal/models"
)

// Publisher produces and stores one user's export artifact.
type Publisher interface {
	Publish(ctx context.Context, owner models.User) error
}

// Projector consumes export requests from a bounded queue and publishes
// them in the background. Requests are best-effort: a full queue drops the
// request, a failed publish is logged and never retried. Overlapping runs
// for one user may race; the store's last writer wins.
type Projector struct {
	publisher Publisher
	queue     chan models.User
	done      chan bool
}

// NewProjector creates a new Projector with the given queue capacity.
func NewProjector(publisher Publisher, queueSize int) *Projector {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Projector{
		publisher: publisher,
		queue:     make(chan models.User, queueSize),
		done:      make(chan bool),
	}
}

// Enqueue schedules an export for the owner. Never blocks; when the queue
// is full the request is dropped with a warning.
func (p *Projector) Enqueue(owner models.User) {
	select {
	case p.queue <- owner:
	default:
		log.Warn().Str("email", owner.Email).Msg("Export queue full, dropping request")
	}
}

// Run consumes the queue until Stop is called.
func (p *Projector) Run() {
	log.Info().Msg("Starting background export projector...")
	for {
		select {
		case <-p.done:
			log.Info().Msg("Stopping background export projector.")
			return
		case owner := <-p.queue:
			p.publish(owner)
		}
	}
}

// Stop halts the projector.
func (p *Projector) Stop() {
	p.done <- true
}

func (p *Projector) publish(owner models.User) {
	if err := p.publisher.Publish(context.Background(), owner); err != nil {
		log.Error().Err(err).Str("email", owner.Email).Msg("Export failed")
		return
	}
	log.Info().Str("email", owner.Email).Msg("Export published")
}
