package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/polyscribe/polyscribe/internal/segment"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// ErrSessionClosed is returned when audio is pushed into a session that has
// already been finalized or closed.
var ErrSessionClosed = errors.New("pipeline: session is closed")

// SessionState tracks where a session is in its lifecycle.
type SessionState int

const (
	// StateOpen means the session exists but has received no audio yet.
	StateOpen SessionState = iota

	// StateReceiving means audio chunks are being accumulated and processed.
	StateReceiving

	// StateFinalizing means the end-of-stream flush is running.
	StateFinalizing

	// StateClosed means all session state has been released.
	StateClosed
)

// String returns the lifecycle state label used in logs.
func (s SessionState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateReceiving:
		return "receiving"
	case StateFinalizing:
		return "finalizing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// SessionConfig holds the per-session tuning knobs.
type SessionConfig struct {
	// Segmenter configures the hysteresis state machine.
	Segmenter segment.Config

	// FlushThreshold is the accumulated chunk size triggering a processing
	// pass. Zero uses [segment.DefaultFlushThreshold].
	FlushThreshold int

	// Targets lists the translation fan-out languages.
	Targets []types.Language

	// StageAudio writes each cut segment to the session's staging directory
	// as a WAV file for diagnostics.
	StageAudio bool
}

// Summary is the terminal result of a session: every per-language
// transcript produced, in segment order, plus total processing time.
type Summary struct {
	// Transcripts maps each target language to its transcript lines.
	Transcripts map[types.Language][]string

	// Segments is the number of segments processed.
	Segments int

	// Elapsed is the wall-clock time from session creation to Finalize.
	Elapsed time.Duration
}

// Session owns one audio stream's mutable state. It is driven from a single
// goroutine: frames and chunks are handled strictly in arrival order.
// Sessions are independent of each other; the only shared collaborators are
// the read-only ones held by the [Controller].
type Session struct {
	controller  *Controller
	segmenter   *segment.Segmenter
	accumulator *segment.Accumulator
	staging     *Staging
	cfg         SessionConfig

	state       SessionState
	transcripts map[types.Language][]string
	lastResult  *types.SegmentResult
	segments    int
	started     time.Time
}

// OpenSession creates a session with its own segmenter state and staging
// directory. Call [Session.Close] when the connection ends.
func OpenSession(ctx context.Context, ctl *Controller, seg *segment.Segmenter, cfg SessionConfig) (*Session, error) {
	staging, err := NewStaging()
	if err != nil {
		return nil, err
	}
	s := &Session{
		controller:  ctl,
		segmenter:   seg,
		accumulator: segment.NewAccumulator(cfg.FlushThreshold),
		staging:     staging,
		cfg:         cfg,
		state:       StateOpen,
		transcripts: make(map[types.Language][]string, len(cfg.Targets)),
		started:     time.Now(),
	}
	ctl.metrics.ActiveSessions.Add(ctx, 1)
	slog.Info("session opened", "session", staging.ID())
	return s, nil
}

// ID returns the session's unique identity.
func (s *Session) ID() string { return s.staging.ID() }

// State returns the session's lifecycle state.
func (s *Session) State() SessionState { return s.state }

// PushChunk accumulates one inbound audio chunk and, once the flush
// threshold is reached, runs segmentation and processes every segment that
// was cut. Results are returned in segment order.
//
// A transcription failure skips that segment and is returned as an error;
// the session stays usable and later chunks continue processing.
func (s *Session) PushChunk(ctx context.Context, chunk []byte) ([]*types.SegmentResult, error) {
	if s.state == StateFinalizing || s.state == StateClosed {
		return nil, ErrSessionClosed
	}
	s.state = StateReceiving

	s.controller.metrics.AudioBytes.Add(ctx, int64(len(chunk)))
	s.accumulator.Push(chunk)
	if !s.accumulator.ShouldFlush() {
		return nil, nil
	}

	segs, err := s.segmenter.Push(s.accumulator.TakeAndReset())
	if err != nil {
		return nil, err
	}
	return s.process(ctx, segs)
}

// Finalize drains the accumulator, flushes the segmenter tail, and runs one
// last processing pass. The session stops accepting audio afterward; call
// Close to release the staging directory.
func (s *Session) Finalize(ctx context.Context) (*Summary, error) {
	if s.state == StateClosed {
		return nil, ErrSessionClosed
	}
	s.state = StateFinalizing

	var all []segment.Segment
	segs, err := s.segmenter.Push(s.accumulator.TakeAndReset())
	if err != nil {
		return nil, err
	}
	all = append(all, segs...)
	if tail := s.segmenter.Flush(); tail != nil {
		all = append(all, *tail)
	}

	_, procErr := s.process(ctx, all)

	summary := &Summary{
		Transcripts: s.transcripts,
		Segments:    s.segments,
		Elapsed:     time.Since(s.started),
	}
	slog.Info("session finalized",
		"session", s.ID(),
		"segments", summary.Segments,
		"elapsed", summary.Elapsed)
	return summary, procErr
}

// LastTranscript returns the most recent raw transcript for diagnostics.
func (s *Session) LastTranscript() string {
	if s.lastResult == nil {
		return ""
	}
	return s.lastResult.Transcript
}

// Close releases all session state. Safe to call more than once.
func (s *Session) Close(ctx context.Context) {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.controller.metrics.ActiveSessions.Add(ctx, -1)
	if err := s.staging.Remove(); err != nil {
		slog.Warn("failed to remove staging dir", "session", s.ID(), "err", err)
	}
	slog.Info("session closed", "session", s.ID())
}

// process runs the controller over each cut segment and folds the results
// into the session transcript history. Transcription errors skip the
// affected segment; the remaining segments still run.
func (s *Session) process(ctx context.Context, segs []segment.Segment) ([]*types.SegmentResult, error) {
	var results []*types.SegmentResult
	var errs []error
	for _, seg := range segs {
		s.controller.metrics.SegmentsCut.Add(ctx, 1)
		if s.cfg.StageAudio {
			if _, err := s.staging.WriteSegment(s.segments, seg.Data, s.cfg.Segmenter.SampleRate); err != nil {
				slog.Warn("failed to stage segment audio", "session", s.ID(), "err", err)
			}
		}

		res, err := s.controller.ProcessSegment(ctx, seg.Data, s.cfg.Targets)
		if err != nil {
			errs = append(errs, fmt.Errorf("segment %d: %w", s.segments, err))
			s.segments++
			continue
		}
		s.segments++
		if res == nil {
			continue
		}
		s.lastResult = res
		for lang, text := range res.Translations {
			s.transcripts[lang] = append(s.transcripts[lang], text)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
