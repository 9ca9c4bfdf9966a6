// Package mock provides a mock STT adapter for running the pipeline
// without cloud credentials. It simulates realistic speech-to-text
// behavior with progressive interim transcripts and exactly one final
// transcript per utterance.
package mock

import (
	"context"
	"sync"
	"time"

	"ai-advisor-stream-service/internal/stt"
)

// SimulatedUtterance represents a mock utterance with progressive transcripts.
type SimulatedUtterance struct {
	Interims   []string // Progressive interim transcripts
	Final      string   // Final transcript text
	Confidence float64  // Confidence score for final
}

// DefaultUtterances provides sample advisor/client utterances.
var DefaultUtterances = []SimulatedUtterance{
	{
		Interims:   []string{"Can you", "Can you show me", "Can you show me how apple"},
		Final:      "Can you show me how Apple stock is doing",
		Confidence: 0.94,
	},
	{
		Interims:   []string{"What about", "What about the esg"},
		Final:      "What about the ESG investment buckets",
		Confidence: 0.96,
	},
	{
		Interims:   []string{"I want to", "I want to be more"},
		Final:      "I want to be more conservative with my portfolio",
		Confidence: 0.91,
	},
	{
		Interims:   []string{"Thank you"},
		Final:      "Thank you very much",
		Confidence: 0.98,
	},
}

// Adapter implements stt.Adapter with scripted responses:
// one interim per audio frame, then a single final once the script is
// exhausted.
type Adapter struct {
	delay time.Duration

	mu           sync.Mutex
	cb           stt.Callback
	utterance    SimulatedUtterance
	interimIndex int
	finalSent    bool
	closed       bool
}

// utteranceCounter cycles through the default utterances so consecutive
// sessions get different transcripts.
var (
	utteranceCounter int
	counterMu        sync.Mutex
)

// New creates a new mock STT adapter.
func New() *Adapter {
	counterMu.Lock()
	idx := utteranceCounter % len(DefaultUtterances)
	utteranceCounter++
	counterMu.Unlock()

	return &Adapter{
		delay:     50 * time.Millisecond,
		utterance: DefaultUtterances[idx],
	}
}

// NewScripted creates a mock adapter that plays back the given utterance
// with no simulated processing delay. Used by tests.
func NewScripted(utt SimulatedUtterance) *Adapter {
	return &Adapter{utterance: utt}
}

// Start begins a mock transcription session.
func (a *Adapter) Start(ctx context.Context, cb stt.Callback) error {
	a.mu.Lock()
	a.cb = cb
	a.mu.Unlock()
	cb.OnOpened()
	return nil
}

// SendAudio simulates receiving audio: it emits the next interim
// transcript, or the final once all interims have been played back
// (mimicking silence detection ending the utterance).
func (a *Adapter) SendAudio(ctx context.Context, audio []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.cb == nil {
		return nil
	}

	if a.interimIndex < len(a.utterance.Interims) {
		text := a.utterance.Interims[a.interimIndex]
		a.interimIndex++
		a.emit(func(cb stt.Callback) { cb.OnInterim(text) })
		return nil
	}

	if !a.finalSent {
		a.finalSent = true
		utt := a.utterance
		a.emit(func(cb stt.Callback) { cb.OnFinal(utt.Final, utt.Confidence) })
	}
	return nil
}

// emit delivers a callback, asynchronously when a processing delay is
// configured. Caller holds a.mu.
func (a *Adapter) emit(fn func(stt.Callback)) {
	cb := a.cb
	if a.delay == 0 {
		fn(cb)
		return
	}
	go func() {
		time.Sleep(a.delay)
		a.mu.Lock()
		closed := a.closed
		a.mu.Unlock()
		if !closed {
			fn(cb)
		}
	}()
}

// Close ends the mock session. If the stream ended before the natural
// utterance end, the final is emitted first so no utterance is lost.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	cb := a.cb
	sendFinal := !a.finalSent && a.interimIndex > 0 && cb != nil
	a.finalSent = true
	utt := a.utterance
	a.mu.Unlock()

	if sendFinal {
		cb.OnFinal(utt.Final, utt.Confidence)
	}
	if cb != nil {
		cb.OnClosed()
	}
	return nil
}
