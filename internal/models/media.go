package models

// Media intake frame events, one JSON object per websocket message.
const (
	MediaEventConnected = "connected"
	MediaEventStart     = "start"
	MediaEventMedia     = "media"
	MediaEventStop      = "stop"
)

// MediaFrame is one framed message on the intake channel. Payload is
// only present for media events and carries one base64-encoded audio
// chunk (8 kHz mono mu-law PCM).
type MediaFrame struct {
	Event string        `json:"event"`
	Media *MediaPayload `json:"media,omitempty"`
}

// MediaPayload carries the audio chunk of a media frame.
type MediaPayload struct {
	Payload string `json:"payload"`
}

// ErrorFrame is reported back to the intake sender for malformed frames.
type ErrorFrame struct {
	Error string `json:"error"`
}
