// Package intake terminates the inbound media websocket, decodes its
// JSON framing and drives one transcription session per connection.
package intake

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-advisor-stream-service/internal/conversation"
	"ai-advisor-stream-service/internal/dispatch"
	"ai-advisor-stream-service/internal/events"
	"ai-advisor-stream-service/internal/intent"
	"ai-advisor-stream-service/internal/models"
	"ai-advisor-stream-service/internal/observability/logging"
	"ai-advisor-stream-service/internal/observability/metrics"
	"ai-advisor-stream-service/internal/session"
	"ai-advisor-stream-service/internal/stt"
)

// AdapterFactory builds a fresh provider adapter for each media stream.
type AdapterFactory func(ctx context.Context) (stt.Adapter, error)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler accepts media websocket connections and runs one stream loop
// per connection.
type Handler struct {
	newAdapter  AdapterFactory
	provider    string
	router      *intent.Router
	accumulator *conversation.Accumulator
	dispatcher  *dispatch.Dispatcher
	tap         *events.Publisher
	metrics     *metrics.Metrics
}

// NewHandler wires the intake surface to the rest of the pipeline.
func NewHandler(factory AdapterFactory, provider string, router *intent.Router, acc *conversation.Accumulator, d *dispatch.Dispatcher, tap *events.Publisher, m *metrics.Metrics) *Handler {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Handler{
		newAdapter:  factory,
		provider:    provider,
		router:      router,
		accumulator: acc,
		dispatcher:  d,
		tap:         tap,
		metrics:     m,
	}
}

// ServeHTTP upgrades the request and runs the stream loop until the
// client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		intakeLogger := logging.WithComponent("intake")
		intakeLogger.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	streamID := uuid.NewString()
	logger := logging.WithStream(streamID, h.provider)
	h.metrics.RecordIntakeConnect()
	logger.Info().Str("remoteAddr", r.RemoteAddr).Msg("Media stream connected")

	s := &stream{
		handler:  h,
		conn:     conn,
		streamID: streamID,
		logger:   logger,
	}
	s.run(r.Context())

	h.metrics.RecordIntakeDisconnect()
	logger.Info().Msg("Media stream disconnected")
}

// stream is the per-connection state: the websocket, the current
// transcription session and the stream identity.
type stream struct {
	handler  *Handler
	conn     *websocket.Conn
	streamID string
	logger   zerolog.Logger
	sess     *session.Session
}

// run reads frames until the connection closes. The session, if one was
// started, is released exactly once on every exit path.
func (s *stream) run(ctx context.Context) {
	defer func() {
		if s.sess != nil {
			if err := s.sess.Close(); err != nil {
				s.logger.Error().Err(err).Msg("Error closing transcription session")
			}
		}
		_ = s.conn.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("Media connection closed unexpectedly")
			}
			return
		}

		var frame models.MediaFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.protocolError("malformed frame", "invalid JSON frame")
			continue
		}
		s.handleFrame(ctx, frame)
	}
}

func (s *stream) handleFrame(ctx context.Context, frame models.MediaFrame) {
	switch frame.Event {
	case models.MediaEventConnected:
		s.startSession(ctx)
	case models.MediaEventStart:
		s.logger.Info().Msg("Media stream start event")
	case models.MediaEventMedia:
		s.handleMedia(ctx, frame)
	case models.MediaEventStop:
		s.handleStop()
	default:
		s.logger.Warn().Str("event", frame.Event).Msg("Unrecognized media event")
	}
}

// startSession constructs and starts a fresh transcription session. A
// connected event on a stream that already has a session replaces it;
// closed sessions are never resurrected.
func (s *stream) startSession(ctx context.Context) {
	if s.sess != nil {
		s.logger.Warn().Msg("Connected event with active session, replacing session")
		if err := s.sess.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing previous session")
		}
		s.sess = nil
	}

	adapter, err := s.handler.newAdapter(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create transcription adapter")
		s.sendError("transcription unavailable")
		return
	}

	sess := session.New(adapter, s, s.streamID, s.handler.provider, s.handler.metrics)
	if err := sess.Start(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to start transcription session")
		s.sendError("transcription unavailable")
		return
	}
	s.sess = sess
}

func (s *stream) handleMedia(ctx context.Context, frame models.MediaFrame) {
	if frame.Media == nil || frame.Media.Payload == "" {
		s.protocolError("missing payload", "media frame missing payload")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(frame.Media.Payload)
	if err != nil {
		s.protocolError("invalid base64", "media payload is not valid base64")
		return
	}

	if s.sess == nil {
		s.protocolError("no session", "no active transcription session")
		return
	}

	if err := s.sess.PushAudio(ctx, audio); err != nil {
		s.logger.Error().Err(err).Msg("Failed to push audio")
		s.sendError("audio ingestion failed")
		return
	}
	s.handler.metrics.RecordMediaFrame(len(audio))
}

func (s *stream) handleStop() {
	if s.sess == nil {
		s.logger.Warn().Msg("Stop event without active session")
		return
	}
	if err := s.sess.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping transcription session")
	}
}

// protocolError records the error and reports it inline to the sender.
// The connection stays open.
func (s *stream) protocolError(reason, message string) {
	s.handler.metrics.RecordProtocolError(reason)
	s.logger.Warn().Str("reason", reason).Msg("Protocol error on media stream")
	s.sendError(message)
}

func (s *stream) sendError(message string) {
	payload, err := json.Marshal(models.ErrorFrame{Error: message})
	if err != nil {
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send error frame")
	}
}

// --- session.Sink implementation ---

// HandleInterim taps still-revising transcripts into Kafka; they are
// not routed or broadcast.
func (s *stream) HandleInterim(text string) {
	if s.handler.tap != nil {
		_ = s.handler.tap.PublishInterim(context.Background(), s.streamID, text)
	}
}

// HandleFinal runs on the session's dispatch goroutine, so utterances
// from one stream are processed in order. Routing happens here; the
// broadcast itself is handed off so slow subscribers cannot stall it.
func (s *stream) HandleFinal(text string, confidence float64) {
	s.logger.Info().Str("text", text).Float64("confidence", confidence).Msg("Final transcript")

	s.handler.accumulator.Append(text)
	if s.handler.tap != nil {
		_ = s.handler.tap.PublishFinal(context.Background(), s.streamID, text, confidence)
	}

	s.handler.dispatcher.Dispatch(models.NewCard(models.CardKindTranscript, text, nil))

	result := s.handler.router.Route(context.Background(), text)
	if result.Skipped {
		s.logger.Debug().Str("reason", result.SkipReason).Msg("Transcript not routed")
		return
	}
	s.handler.dispatcher.Dispatch(result.Card)
}

// HandleError logs transport errors from the provider. The stream loop
// keeps running; the client decides whether to reconnect.
func (s *stream) HandleError(err error) {
	s.logger.Error().Err(err).Msg("Transcription session reported error")
}
