package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"ai-advisor-stream-service/internal/models"
)

// testConn implements Conn and records every frame written to it.
type testConn struct {
	mu     sync.Mutex
	frames [][]byte
	failed bool
	closed bool
}

func (c *testConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return errors.New("write on closed connection")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *testConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *testConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestRegistry_BroadcastZeroSubscribers(t *testing.T) {
	r := NewRegistry(nil)

	count := r.Broadcast(models.NewCard(models.CardKindTranscript, "hello there", nil))
	if count != 0 {
		t.Errorf("expected count 0 with no subscribers, got %d", count)
	}
}

func TestRegistry_BroadcastDeliversToAll(t *testing.T) {
	r := NewRegistry(nil)

	conns := []*testConn{{}, {}, {}}
	for _, c := range conns {
		r.Register(c)
	}

	count := r.Broadcast(models.NewCard(models.CardKindEsg, "show me the esg buckets", nil))
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	for i, c := range conns {
		if c.frameCount() != 1 {
			t.Errorf("subscriber %d: expected 1 frame, got %d", i, c.frameCount())
		}
	}
}

func TestRegistry_BroadcastSurvivesFailingSubscriber(t *testing.T) {
	r := NewRegistry(nil)

	healthy := &testConn{}
	broken := &testConn{failed: true}
	r.Register(healthy)
	brokenID := r.Register(broken)

	count := r.Broadcast(models.NewCard(models.CardKindStock, "analyze apple for me", nil))
	if count != 2 {
		t.Errorf("expected count 2 (attempted to all), got %d", count)
	}
	if healthy.frameCount() != 1 {
		t.Errorf("healthy subscriber should still receive the card, got %d frames", healthy.frameCount())
	}

	// A failed send must not unregister the subscriber.
	if r.Count() != 2 {
		t.Errorf("failed delivery must not remove the subscriber, count = %d", r.Count())
	}
	r.Unregister(brokenID)
	if r.Count() != 1 {
		t.Errorf("expected 1 subscriber after unregister, got %d", r.Count())
	}
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	id := r.Register(&testConn{})

	r.Unregister(id)
	r.Unregister(id) // second removal is a no-op
	r.Unregister(SubscriberID("never-registered"))

	if r.Count() != 0 {
		t.Errorf("expected empty registry, got %d", r.Count())
	}
}

func TestRegistry_CardRoundTrip(t *testing.T) {
	r := NewRegistry(nil)
	conn := &testConn{}
	r.Register(conn)

	card := models.NewCard(models.CardKindStock, "what about tesla", map[string]any{"ticker": "TSLA"})
	r.Broadcast(card)

	if conn.frameCount() != 1 {
		t.Fatalf("expected 1 frame, got %d", conn.frameCount())
	}

	var got models.Card
	if err := json.Unmarshal(conn.frames[0], &got); err != nil {
		t.Fatalf("subscriber could not parse card: %v", err)
	}
	if got.ID != card.ID {
		t.Errorf("id mismatch: %s != %s", got.ID, card.ID)
	}
	if got.Kind != card.Kind {
		t.Errorf("kind mismatch: %s != %s", got.Kind, card.Kind)
	}
	payload, ok := got.Payload.(map[string]any)
	if !ok || payload["ticker"] != "TSLA" {
		t.Errorf("payload mismatch: %+v", got.Payload)
	}
}

func TestRegistry_ConcurrentRegisterAndBroadcast(t *testing.T) {
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := r.Register(&testConn{})
			r.Unregister(id)
		}()
		go func() {
			defer wg.Done()
			r.Broadcast(models.NewCard(models.CardKindTranscript, "concurrent broadcast text", nil))
		}()
	}
	wg.Wait()
}
