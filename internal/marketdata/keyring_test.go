package marketdata

import (
	"errors"
	"testing"
	"time"
)

func TestKeyRing_RotatesRoundRobin(t *testing.T) {
	r := NewKeyRing([]string{"key-a", "key-b"}, 10)

	got := make([]string, 4)
	for i := range got {
		k, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got[i] = k
	}

	want := []string{"key-a", "key-b", "key-a", "key-b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestKeyRing_ExhaustsAllKeys(t *testing.T) {
	r := NewKeyRing([]string{"key-a", "key-b"}, 2)

	// 2 keys x 2 requests/minute = 4 requests, then exhausted.
	for i := 0; i < 4; i++ {
		if _, err := r.Next(); err != nil {
			t.Fatalf("request %d should succeed: %v", i, err)
		}
	}
	if _, err := r.Next(); !errors.Is(err, ErrKeysExhausted) {
		t.Errorf("expected ErrKeysExhausted, got %v", err)
	}
}

func TestKeyRing_WindowSlides(t *testing.T) {
	r := NewKeyRing([]string{"key-a"}, 1)

	base := time.Now()
	r.now = func() time.Time { return base }

	if _, err := r.Next(); err != nil {
		t.Fatalf("first request should succeed: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, ErrKeysExhausted) {
		t.Fatalf("second request within the window should fail, got %v", err)
	}

	// Advance past the sliding window; budget resets.
	r.now = func() time.Time { return base.Add(61 * time.Second) }
	if _, err := r.Next(); err != nil {
		t.Errorf("request after window should succeed: %v", err)
	}
}

func TestKeyRing_NoKeys(t *testing.T) {
	r := NewKeyRing(nil, 5)
	if _, err := r.Next(); !errors.Is(err, ErrKeysExhausted) {
		t.Errorf("expected ErrKeysExhausted with no keys, got %v", err)
	}
}
