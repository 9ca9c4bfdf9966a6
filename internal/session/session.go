package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"ai-advisor-stream-service/internal/observability/logging"
	"ai-advisor-stream-service/internal/observability/metrics"
	"ai-advisor-stream-service/internal/stt"
)

// Sink receives transcript results from the session. HandleFinal runs
// on the session's own dispatch goroutine, in utterance order, never on
// the provider's transport goroutine.
type Sink interface {
	HandleInterim(text string)
	HandleFinal(text string, confidence float64)
	HandleError(err error)
}

// finalEvent is one completed utterance waiting for dispatch.
type finalEvent struct {
	text       string
	confidence float64
}

// Session adapts one underlying STT provider session to the pipeline.
// Lifecycle: Idle -> Active -> Closed. It implements stt.Callback; the
// provider invokes those callbacks on its transport goroutine, and
// finals are handed to a single dispatch goroutine so routing work
// cannot stall audio ingestion or reorder utterances.
type Session struct {
	adapter  stt.Adapter
	sink     Sink
	provider string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu      sync.Mutex
	state   State
	stopped bool

	releaseOnce sync.Once

	finals chan finalEvent
	done   chan struct{}
}

// New constructs a session in Idle state around the given provider adapter.
func New(adapter stt.Adapter, sink Sink, streamId, provider string, m *metrics.Metrics) *Session {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Session{
		adapter:  adapter,
		sink:     sink,
		provider: provider,
		metrics:  m,
		logger:   logging.WithStream(streamId, provider),
		state:    StateIdle,
		finals:   make(chan finalEvent, 16),
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start opens the underlying streaming session. Calling it twice on the
// same instance is an error, as is starting a closed session.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateActive:
		s.mu.Unlock()
		return ErrAlreadyStarted
	case StateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	if err := s.adapter.Start(ctx, s); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateActive
	s.mu.Unlock()

	s.metrics.RecordSessionStarted()
	go s.dispatch()
	return nil
}

// PushAudio forwards one decoded audio chunk to the active session.
func (s *Session) PushAudio(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return ErrSessionNotStarted
	case StateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	return s.adapter.SendAudio(ctx, frame)
}

// Stop signals end-of-stream to the underlying session. Safe to call at
// most once; subsequent calls are no-ops.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.stopped || s.state != StateActive {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping transcription session")
	return s.release()
}

// Close releases all underlying resources. It must run on every
// terminal path and is idempotent: the provider session is released
// exactly once no matter how often Close is called.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	prev := s.state
	s.state = StateClosed
	s.mu.Unlock()

	close(s.done)
	err := s.release()

	s.metrics.RecordSessionClosed()
	s.logger.Info().Str("previousState", prev.String()).Msg("Transcription session closed")
	return err
}

// release closes the provider session exactly once across Stop/Close.
func (s *Session) release() error {
	var err error
	s.releaseOnce.Do(func() {
		err = s.adapter.Close()
	})
	return err
}

// dispatch drains final transcripts in order on a dedicated goroutine.
func (s *Session) dispatch() {
	for {
		select {
		case ev := <-s.finals:
			s.sink.HandleFinal(ev.text, ev.confidence)
		case <-s.done:
			// Drain anything already queued, then exit.
			for {
				select {
				case ev := <-s.finals:
					s.sink.HandleFinal(ev.text, ev.confidence)
				default:
					return
				}
			}
		}
	}
}

// --- stt.Callback implementation ---

// OnInterim logs a still-revising transcript. Interims are not routed.
func (s *Session) OnInterim(text string) {
	s.metrics.RecordInterimTranscript()
	s.logger.Debug().Str("text", text).Msg("Interim transcript")
	s.sink.HandleInterim(text)
}

// OnFinal queues a completed utterance for ordered dispatch. A final
// arriving after Close is dropped, not resurrected.
func (s *Session) OnFinal(text string, confidence float64) {
	s.metrics.RecordFinalTranscript()

	s.mu.Lock()
	closed := s.state == StateClosed
	s.mu.Unlock()
	if closed {
		s.logger.Warn().Str("text", text).Msg("Final transcript after close dropped")
		return
	}

	select {
	case s.finals <- finalEvent{text: text, confidence: confidence}:
	default:
		s.logger.Error().Str("text", text).Msg("Final dispatch queue full, transcript dropped")
	}
}

// OnError reports a provider transport error upward.
func (s *Session) OnError(err error) {
	s.metrics.RecordSessionError(s.provider)
	s.logger.Error().Err(err).Msg("Transcription session error")
	s.sink.HandleError(err)
}

// OnOpened is called when the provider session is established.
func (s *Session) OnOpened() {
	s.logger.Info().Msg("Transcription session opened")
}

// OnClosed is called when the provider session has shut down.
func (s *Session) OnClosed() {
	s.logger.Info().Msg("Transcription provider session closed")
}
