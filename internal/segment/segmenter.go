// Package segment cuts a continuous PCM audio stream into utterance-sized
// segments using per-frame voice-activity classification with hysteresis.
//
// The [Segmenter] is a per-session state machine. It consumes fixed-duration
// frames, counts consecutive speech and silence classifications, and emits a
// segment boundary only after speech has been confirmed for a configured
// onset run and then silence has held for a configured offset run. The
// hysteresis suppresses boundary chatter on noisy audio.
//
// A Segmenter is exclusively owned by one session and is not safe for
// concurrent use. The [Accumulator] in this package batches inbound network
// chunks ahead of it.
package segment

import (
	"errors"
	"fmt"

	"github.com/polyscribe/polyscribe/pkg/audio"
	"github.com/polyscribe/polyscribe/pkg/provider/vad"
)

// ErrSegmentation is returned when the segmenter's buffer state is
// malformed. It is fatal to the session.
var ErrSegmentation = errors.New("segment: malformed buffer state")

// Segment is one contiguous utterance span cut from the session stream.
// Start and End are absolute byte offsets into the stream; spans from one
// session never overlap and are emitted in increasing order.
type Segment struct {
	Start int64
	End   int64
	Data  []byte
}

// Config holds the segmenter's tuning knobs. The thresholds are deliberate
// configuration rather than constants so they can be tuned per acoustic
// environment.
type Config struct {
	// SampleRate is the session's PCM sample rate in Hz. Default: 16000.
	SampleRate int

	// FrameDurationMs is the VAD frame duration in milliseconds.
	// Default: 20.
	FrameDurationMs int

	// OnsetFrames is the number of consecutive speech frames required to
	// confirm the start of an utterance. Default: 25 (500 ms at 20 ms
	// frames).
	OnsetFrames int

	// OffsetFrames is the number of consecutive silence frames required to
	// cut a confirmed utterance. Default: 25.
	OffsetFrames int
}

func (c *Config) applyDefaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.FrameDurationMs <= 0 {
		c.FrameDurationMs = 20
	}
	if c.OnsetFrames <= 0 {
		c.OnsetFrames = 25
	}
	if c.OffsetFrames <= 0 {
		c.OffsetFrames = 25
	}
}

// Segmenter is the per-session hysteresis state machine. Create one per
// session with [New]; it must not be shared across goroutines.
type Segmenter struct {
	classifier vad.Classifier
	cfg        Config
	frameSize  int

	// buffer holds audio from the last cut onward; the consumed prefix is
	// discarded after every Push, bounding memory to one inter-cut interval.
	buffer []byte

	// base is the absolute stream offset of buffer[0].
	base int64

	// scanned is the number of buffer bytes already classified.
	scanned int

	armed    bool
	speech   int
	silence  int
}

// New creates a Segmenter classifying frames with the given classifier.
// Zero-value config fields are replaced with defaults.
func New(classifier vad.Classifier, cfg Config) (*Segmenter, error) {
	if classifier == nil {
		return nil, errors.New("segment: classifier is required")
	}
	cfg.applyDefaults()
	frameSize := audio.FrameSize(cfg.SampleRate, cfg.FrameDurationMs)
	if frameSize <= 0 {
		return nil, fmt.Errorf("segment: invalid frame size for %d Hz / %d ms",
			cfg.SampleRate, cfg.FrameDurationMs)
	}
	return &Segmenter{
		classifier: classifier,
		cfg:        cfg,
		frameSize:  frameSize,
	}, nil
}

// Push appends chunk to the session buffer, classifies every complete frame
// not yet seen, and returns the segments cut by this call in stream order.
// A trailing partial frame stays buffered until more audio arrives.
func (s *Segmenter) Push(chunk []byte) ([]Segment, error) {
	s.buffer = append(s.buffer, chunk...)
	if s.scanned > len(s.buffer) {
		return nil, fmt.Errorf("%w: scanned %d beyond buffer %d",
			ErrSegmentation, s.scanned, len(s.buffer))
	}

	var cuts []Segment
	for s.scanned+s.frameSize <= len(s.buffer) {
		frame := s.buffer[s.scanned : s.scanned+s.frameSize]
		speech, err := s.classifier.IsSpeech(frame, s.cfg.SampleRate)
		if err != nil {
			return cuts, fmt.Errorf("segment: classify frame at offset %d: %w",
				s.base+int64(s.scanned), err)
		}
		s.scanned += s.frameSize

		if speech {
			s.silence = 0
			if !s.armed {
				s.speech++
				if s.speech >= s.cfg.OnsetFrames {
					s.armed = true
				}
			}
			continue
		}

		s.speech = 0
		s.silence++
		if s.armed && s.silence >= s.cfg.OffsetFrames {
			cuts = append(cuts, s.cut())
		}
	}
	return cuts, nil
}

// cut emits the buffered span up to and including the frame just classified,
// discards it from the buffer, and resets the hysteresis state.
func (s *Segmenter) cut() Segment {
	data := make([]byte, s.scanned)
	copy(data, s.buffer[:s.scanned])
	seg := Segment{Start: s.base, End: s.base + int64(s.scanned), Data: data}

	s.buffer = s.buffer[s.scanned:]
	s.base = seg.End
	s.scanned = 0
	s.armed = false
	s.speech = 0
	s.silence = 0
	return seg
}

// Flush implements the end-of-stream rule: if the session ends while speech
// is still confirmed, the retained tail becomes one final segment. When no
// utterance is in progress it returns nil and the tail is dropped with the
// session.
func (s *Segmenter) Flush() *Segment {
	if !s.armed || len(s.buffer) == 0 {
		return nil
	}
	data := make([]byte, len(s.buffer))
	copy(data, s.buffer)
	seg := &Segment{Start: s.base, End: s.base + int64(len(s.buffer)), Data: data}

	s.buffer = nil
	s.base = seg.End
	s.scanned = 0
	s.armed = false
	s.speech = 0
	s.silence = 0
	return seg
}

// TailLen reports how many bytes are currently retained since the last cut.
func (s *Segmenter) TailLen() int { return len(s.buffer) }

// FrameSize reports the fixed frame size in bytes derived from the config.
func (s *Segmenter) FrameSize() int { return s.frameSize }
