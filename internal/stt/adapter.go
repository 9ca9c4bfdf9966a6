// Package stt defines the interface for streaming speech-to-text providers.
package stt

import "context"

// Callback receives transcript results from the STT provider. Callbacks
// run on the provider's transport goroutine and must not block; hand
// expensive work off instead of running it inline.
type Callback interface {
	// OnInterim is called when a still-revising transcript is received.
	OnInterim(text string)

	// OnFinal is called when a final transcript closes the current utterance.
	OnFinal(text string, confidence float64)

	// OnError is called when an error occurs during transcription.
	OnError(err error)

	// OnOpened is called once the provider session is established.
	OnOpened()

	// OnClosed is called once the provider session has shut down.
	OnClosed()
}

// Adapter defines the interface for STT providers (Google, mock, ...).
type Adapter interface {
	// Start begins a streaming transcription session.
	Start(ctx context.Context, cb Callback) error

	// SendAudio sends one audio chunk to the STT provider.
	SendAudio(ctx context.Context, audio []byte) error

	// Close ends the session and releases resources.
	Close() error
}

// Options configure a provider session.
type Options struct {
	LanguageCode   string
	SampleRateHz   int32
	InterimResults bool
	AudioEncoding  string // LINEAR16 or MULAW
}

// DefaultOptions match the media intake format: 8 kHz mono mu-law.
func DefaultOptions() Options {
	return Options{
		LanguageCode:   "en-US",
		SampleRateHz:   8000,
		InterimResults: true,
		AudioEncoding:  "MULAW",
	}
}
