// Package dispatch decouples card production from dashboard fan-out so
// transcript handling never blocks on slow subscribers.
package dispatch

import (
	"sync"

	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/models"
)

// Broadcaster delivers one card to every current dashboard subscriber.
type Broadcaster interface {
	Broadcast(card models.Card) int
}

// Dispatcher queues cards and broadcasts them from a single worker
// goroutine, preserving the order in which they were dispatched.
type Dispatcher struct {
	broadcaster Broadcaster
	queue       chan models.Card
	stopOnce    sync.Once
	done        chan struct{}
}

const defaultQueueSize = 64

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher(b Broadcaster) *Dispatcher {
	d := &Dispatcher{
		broadcaster: b,
		queue:       make(chan models.Card, defaultQueueSize),
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for card := range d.queue {
		d.broadcaster.Broadcast(card)
	}
}

// Dispatch enqueues a card for broadcast. When the queue is full the
// card is dropped rather than blocking the caller.
func (d *Dispatcher) Dispatch(card models.Card) {
	select {
	case d.queue <- card:
	default:
		log.Warn().
			Str("cardId", card.ID).
			Str("kind", card.Kind).
			Msg("Dispatch queue full, dropping card")
	}
}

// Stop drains the queue and stops the worker. It is idempotent and
// returns once all queued cards have been broadcast.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
