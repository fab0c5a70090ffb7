// Package energy provides an RMS-energy voice-activity classifier.
//
// It computes the root-mean-square amplitude of each 16-bit PCM frame and
// classifies the frame as speech when the RMS exceeds a threshold. This is
// the same detector a batch transcription bridge uses to find utterance
// gaps; it has no model weights and no external dependencies, which makes it
// the default backend for environments without a dedicated VAD model.
package energy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/polyscribe/polyscribe/pkg/provider/vad"
)

// defaultRMSThreshold is the root-mean-square energy level (in 16-bit PCM
// units) above which a frame is classified as speech. The maximum possible
// value for 16-bit audio is 32 767; 300 corresponds to near-silence.
const defaultRMSThreshold = 300.0

// Compile-time assertion that Classifier implements vad.Classifier.
var _ vad.Classifier = (*Classifier)(nil)

// Option is a functional option for configuring a Classifier.
type Option func(*Classifier)

// WithThreshold overrides the RMS speech threshold. Lower values are more
// sensitive (more frames classified as speech). Default: 300.
func WithThreshold(rms float64) Option {
	return func(c *Classifier) {
		c.threshold = rms
	}
}

// Classifier implements vad.Classifier using frame RMS energy. It is
// stateless and safe for concurrent use.
type Classifier struct {
	threshold float64
}

// New returns an energy Classifier with the supplied options.
func New(opts ...Option) *Classifier {
	c := &Classifier{threshold: defaultRMSThreshold}
	for _, o := range opts {
		o(c)
	}
	return c
}

// IsSpeech reports whether the frame's RMS amplitude exceeds the threshold.
// The frame must contain an even number of bytes (whole int16 samples).
func (c *Classifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if sampleRate <= 0 {
		return false, fmt.Errorf("energy: invalid sample rate %d", sampleRate)
	}
	if len(frame) == 0 || len(frame)%2 != 0 {
		return false, fmt.Errorf("energy: frame of %d bytes is not whole int16 samples", len(frame))
	}

	var sumSquares float64
	for i := 0; i < len(frame); i += 2 {
		s := int16(binary.LittleEndian.Uint16(frame[i:]))
		sumSquares += float64(s) * float64(s)
	}
	rms := math.Sqrt(sumSquares / float64(len(frame)/2))
	return rms > c.threshold, nil
}
