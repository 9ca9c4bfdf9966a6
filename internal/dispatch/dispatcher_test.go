package dispatch

import (
	"sync"
	"testing"

	"ai-advisor-stream-service/internal/models"
)

type testBroadcaster struct {
	mu    sync.Mutex
	cards []models.Card
}

func (t *testBroadcaster) Broadcast(card models.Card) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cards = append(t.cards, card)
	return 1
}

func (t *testBroadcaster) snapshot() []models.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Card, len(t.cards))
	copy(out, t.cards)
	return out
}

func TestDispatchPreservesOrder(t *testing.T) {
	b := &testBroadcaster{}
	d := NewDispatcher(b)

	first := models.NewCard(models.CardKindTranscript, "one", nil)
	second := models.NewCard(models.CardKindStock, "two", nil)
	third := models.NewCard(models.CardKindEsg, "three", nil)

	d.Dispatch(first)
	d.Dispatch(second)
	d.Dispatch(third)
	d.Stop()

	got := b.snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID || got[2].ID != third.ID {
		t.Fatalf("cards broadcast out of order")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(&testBroadcaster{})
	d.Stop()
	d.Stop()
}

func TestStopDrainsQueue(t *testing.T) {
	b := &testBroadcaster{}
	d := NewDispatcher(b)
	for i := 0; i < 10; i++ {
		d.Dispatch(models.NewCard(models.CardKindTranscript, "x", nil))
	}
	d.Stop()
	if len(b.snapshot()) != 10 {
		t.Fatalf("expected all queued cards broadcast, got %d", len(b.snapshot()))
	}
}
