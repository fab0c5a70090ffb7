// Package asr defines the Provider interface for batch speech-recognition
// backends.
//
// An ASR provider wraps a transcription service (e.g., the OpenAI Whisper
// API or a local whisper server) behind a single blocking call: one utterance
// segment of PCM audio in, one transcript string out. Streaming recognition
// is deliberately out of scope — the segmentation pipeline already cuts audio
// into utterance-sized pieces, so batch semantics keep every backend equally
// usable.
//
// Implementations must be safe for concurrent use: multiple sessions submit
// segments simultaneously.
package asr

import (
	"context"
	"errors"
)

// ErrTranscription is the sentinel wrapped by providers when the recognition
// service fails (network error, service error, malformed response). Callers
// use errors.Is to distinguish it from context cancellation.
var ErrTranscription = errors.New("asr: transcription failed")

// Request carries one audio segment to transcribe.
type Request struct {
	// Audio is raw 16-bit signed little-endian mono PCM.
	Audio []byte

	// SampleRate is the audio sample rate in Hz, typically 16000.
	SampleRate int

	// Prompt is an optional recognition bias hint. Providers that support
	// prompting pass it through verbatim; it nudges the model toward the
	// supplied vocabulary but enforces nothing.
	Prompt string
}

// Provider is the abstraction over any batch ASR backend.
type Provider interface {
	// Transcribe submits one audio segment and returns the recognised text.
	// Blocks until the service responds or ctx is cancelled. A failure of the
	// recognition service is reported as an error wrapping [ErrTranscription].
	Transcribe(ctx context.Context, req Request) (string, error)
}
