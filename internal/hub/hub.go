// Package hub tracks live dashboard subscriber connections and fans
// cards out to all of them.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/models"
	"ai-advisor-stream-service/internal/observability/metrics"
)

// SubscriberID identifies one registered dashboard connection.
type SubscriberID string

// Conn is the transport surface the registry needs from a subscriber
// connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type subscriber struct {
	conn Conn

	// gorilla allows at most one concurrent writer per connection.
	writeMu sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Registry is the process-wide set of dashboard subscribers.
// Mutations and the broadcast snapshot are mutually exclusive; the
// sends themselves happen outside the lock so a slow write never
// blocks a new registration.
type Registry struct {
	mu          sync.Mutex
	subscribers map[SubscriberID]*subscriber
	metrics     *metrics.Metrics
}

// NewRegistry creates an empty subscriber registry.
func NewRegistry(m *metrics.Metrics) *Registry {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Registry{
		subscribers: make(map[SubscriberID]*subscriber),
		metrics:     m,
	}
}

// Register adds a connection and returns its handle. It never fails.
func (r *Registry) Register(conn Conn) SubscriberID {
	id := SubscriberID(uuid.NewString())

	r.mu.Lock()
	r.subscribers[id] = &subscriber{conn: conn}
	total := len(r.subscribers)
	r.mu.Unlock()

	r.metrics.RecordSubscriberCount(total)
	log.Info().Str("subscriberId", string(id)).Int("total", total).Msg("Dashboard subscriber registered")
	return id
}

// Unregister removes a connection. Idempotent; unknown ids are a no-op.
func (r *Registry) Unregister(id SubscriberID) {
	r.mu.Lock()
	_, present := r.subscribers[id]
	delete(r.subscribers, id)
	total := len(r.subscribers)
	r.mu.Unlock()

	if present {
		r.metrics.RecordSubscriberCount(total)
		log.Info().Str("subscriberId", string(id)).Int("total", total).Msg("Dashboard subscriber unregistered")
	}
}

// Count returns the number of registered subscribers.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// Broadcast serializes the card once and attempts delivery to every
// subscriber registered at snapshot time. A failed send is logged and
// skipped; it never aborts delivery to the others and never removes
// the subscriber (removal happens only on the connection's own close
// path). Returns the subscriber count at snapshot time; zero
// subscribers is a successful no-op.
func (r *Registry) Broadcast(card models.Card) int {
	payload, err := json.Marshal(card)
	if err != nil {
		log.Error().Err(err).Str("cardId", card.ID).Str("kind", card.Kind).Msg("Failed to marshal card")
		return 0
	}

	r.mu.Lock()
	snapshot := make(map[SubscriberID]*subscriber, len(r.subscribers))
	for id, sub := range r.subscribers {
		snapshot[id] = sub
	}
	r.mu.Unlock()

	if len(snapshot) == 0 {
		log.Warn().Str("cardId", card.ID).Str("kind", card.Kind).Msg("No active subscribers for card")
		return 0
	}

	log.Info().
		Str("cardId", card.ID).
		Str("kind", card.Kind).
		Int("subscribers", len(snapshot)).
		Msg("Broadcasting card")

	delivered := 0
	for id, sub := range snapshot {
		if err := sub.send(payload); err != nil {
			r.metrics.RecordDeliveryFailure()
			log.Error().
				Err(err).
				Str("subscriberId", string(id)).
				Str("cardId", card.ID).
				Msg("Card delivery failed")
			continue
		}
		delivered++
	}

	r.metrics.RecordBroadcast(card.Kind, delivered)
	return len(snapshot)
}

// CloseAll closes every subscriber connection and empties the registry.
// Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	subs := r.subscribers
	r.subscribers = make(map[SubscriberID]*subscriber)
	r.mu.Unlock()

	for id, sub := range subs {
		if err := sub.conn.Close(); err != nil {
			log.Debug().Err(err).Str("subscriberId", string(id)).Msg("Error closing subscriber connection")
		}
	}
	r.metrics.RecordSubscriberCount(0)
}
