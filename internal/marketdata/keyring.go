package marketdata

import (
	"errors"
	"sync"
	"time"
)

// ErrKeysExhausted is returned when every API key has hit its per-minute
// budget.
var ErrKeysExhausted = errors.New("rate limit exceeded for all API keys")

// KeyRing cycles through a set of rate-limited API keys. Each key has a
// per-minute request budget; Next hands out the first key with budget
// remaining, rotating round-robin so load spreads across keys.
type KeyRing struct {
	keys      []string
	perMinute int

	mu      sync.Mutex
	current int
	usage   [][]time.Time
	now     func() time.Time
}

// NewKeyRing creates a ring over the given keys.
func NewKeyRing(keys []string, perMinute int) *KeyRing {
	return &KeyRing{
		keys:      keys,
		perMinute: perMinute,
		usage:     make([][]time.Time, len(keys)),
		now:       time.Now,
	}
}

// Next returns an API key with budget remaining, recording the request
// against it, or ErrKeysExhausted when all keys are rate limited.
func (r *KeyRing) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.keys) == 0 {
		return "", ErrKeysExhausted
	}

	now := r.now()
	cutoff := now.Add(-time.Minute)

	for range r.keys {
		idx := r.current
		r.current = (idx + 1) % len(r.keys)

		// Drop request records older than the sliding window.
		recent := r.usage[idx][:0]
		for _, ts := range r.usage[idx] {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}
		r.usage[idx] = recent

		if len(recent) < r.perMinute {
			r.usage[idx] = append(recent, now)
			return r.keys[idx], nil
		}
	}

	return "", ErrKeysExhausted
}
