// Package vad defines the Classifier interface for voice-activity detection
// backends.
//
// A VAD classifier makes a per-frame speech/silence decision over raw PCM
// audio. It is the stateless primitive underneath the segmenter's hysteresis
// state machine: all smoothing, onset confirmation, and boundary emission
// happen in the segment package, so classifiers can stay simple and fast.
//
// VAD is synchronous by design: IsSpeech returns immediately, making it
// suitable for the low-latency per-frame loop that gates ASR input.
//
// Implementations must be safe for concurrent use — the same Classifier is
// shared by every active session.
package vad

// Classifier decides whether a single audio frame contains speech.
type Classifier interface {
	// IsSpeech classifies one frame of raw 16-bit signed little-endian mono
	// PCM at the given sample rate. The frame must be a whole number of
	// samples; implementations return an error on malformed frames or
	// unsupported sample rates.
	//
	// This method is called once per frame in the segmentation loop; it must
	// not block.
	IsSpeech(frame []byte, sampleRate int) (bool, error)
}
