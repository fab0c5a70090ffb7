// Package server exposes the translation pipeline over websockets.
//
// Two endpoints accept audio: /ws/stream takes raw PCM chunks as binary
// frames and emits a segment message per cut utterance, while /ws/upload
// takes one complete WAV file and replays it through the same pipeline.
// Both finish with a summary frame. Health probes and Prometheus metrics
// share the mux.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polyscribe/polyscribe/internal/health"
	"github.com/polyscribe/polyscribe/internal/observe"
	"github.com/polyscribe/polyscribe/internal/pipeline"
	"github.com/polyscribe/polyscribe/internal/segment"
	"github.com/polyscribe/polyscribe/pkg/audio"
	"github.com/polyscribe/polyscribe/pkg/provider/vad"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// maxFrameBytes caps a single inbound websocket frame. Streaming clients
// send chunks far below this; it mostly bounds /ws/upload payloads.
const maxFrameBytes = 64 << 20

// Config holds the per-server pipeline settings applied to every session.
type Config struct {
	// Segmenter configures frame size and hysteresis thresholds.
	Segmenter segment.Config

	// FlushThreshold is the accumulated byte count that triggers a
	// segmentation pass. Zero uses [segment.DefaultFlushThreshold].
	FlushThreshold int

	// Targets lists the translation fan-out languages.
	Targets []types.Language

	// StageAudio writes cut segments to per-session staging directories.
	StageAudio bool
}

// Server routes websocket audio streams into pipeline sessions.
type Server struct {
	controller *pipeline.Controller
	classifier vad.Classifier
	cfg        Config
	metrics    *observe.Metrics
	health     *health.Handler
}

// Option configures a [Server].
type Option func(*Server)

// WithMetrics overrides the metrics sink. Tests inject an isolated meter
// provider this way.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCheckers sets the readiness checkers exposed on /readyz.
func WithCheckers(checkers ...health.Checker) Option {
	return func(s *Server) { s.health = health.New(checkers...) }
}

// New creates a Server. The classifier is shared across sessions; each
// session gets its own segmenter state.
func New(ctl *pipeline.Controller, classifier vad.Classifier, cfg Config, opts ...Option) (*Server, error) {
	if ctl == nil {
		return nil, fmt.Errorf("server: controller must not be nil")
	}
	if classifier == nil {
		return nil, fmt.Errorf("server: classifier must not be nil")
	}
	if cfg.Segmenter.SampleRate == 0 {
		cfg.Segmenter.SampleRate = 16000
	}
	s := &Server{
		controller: ctl,
		classifier: classifier,
		cfg:        cfg,
		health:     health.New(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s, nil
}

// Handler returns the full HTTP handler: websocket endpoints, health
// probes, and the Prometheus scrape endpoint, wrapped in the request
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws/stream", s.handleStream)
	mux.HandleFunc("GET /ws/upload", s.handleUpload)
	return observe.Middleware(s.metrics)(mux)
}

// handleStream drives a live session. Binary frames are PCM chunks; a
// finalize control frame flushes the tail and produces the summary.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxFrameBytes)

	ctx := r.Context()
	sess, err := s.openSession(ctx)
	if err != nil {
		slog.Error("failed to open session", "err", err)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}
	defer sess.Close(context.WithoutCancel(ctx))

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			// Client went away without finalizing; drop the session.
			slog.Debug("stream read ended", "session", sess.ID(), "err", err)
			return
		}

		switch typ {
		case websocket.MessageBinary:
			if len(data) == 0 {
				continue
			}
			results, err := sess.PushChunk(ctx, data)
			if err != nil {
				if errors.Is(err, pipeline.ErrSessionClosed) {
					conn.Close(websocket.StatusPolicyViolation, "session already finalized")
					return
				}
				s.writeError(ctx, conn, sess.ID(), err)
			}
			if werr := s.writeResults(ctx, conn, sess, results); werr != nil {
				return
			}

		case websocket.MessageText:
			// An empty text frame is an end-of-stream sentinel, same as
			// an explicit finalize command.
			if len(data) == 0 {
				s.finishSession(ctx, conn, sess)
				return
			}
			var cmd ClientCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				s.writeError(ctx, conn, sess.ID(), fmt.Errorf("server: bad control frame: %w", err))
				continue
			}
			if cmd.Type != MessageFinalize {
				s.writeError(ctx, conn, sess.ID(), fmt.Errorf("server: unknown command %q", cmd.Type))
				continue
			}
			s.finishSession(ctx, conn, sess)
			return
		}
	}
}

// handleUpload processes one complete WAV file sent as a single binary
// frame, then replies with every segment message and the summary.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxFrameBytes)

	ctx := r.Context()
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	if typ != websocket.MessageBinary {
		conn.Close(websocket.StatusUnsupportedData, "expected a binary WAV frame")
		return
	}

	pcm, format, err := audio.DecodeWAV(data)
	if err != nil {
		s.writeError(ctx, conn, "", fmt.Errorf("server: decode wav: %w", err))
		conn.Close(websocket.StatusUnsupportedData, "invalid WAV payload")
		return
	}
	if err := format.Validate(s.cfg.Segmenter.SampleRate); err != nil {
		s.writeError(ctx, conn, "", err)
		conn.Close(websocket.StatusUnsupportedData, "unsupported WAV format")
		return
	}

	sess, err := s.openSession(ctx)
	if err != nil {
		slog.Error("failed to open session", "err", err)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}
	defer sess.Close(context.WithoutCancel(ctx))

	results, err := sess.PushChunk(ctx, pcm)
	if err != nil {
		s.writeError(ctx, conn, sess.ID(), err)
	}
	if werr := s.writeResults(ctx, conn, sess, results); werr != nil {
		return
	}
	s.finishSession(ctx, conn, sess)
}

func (s *Server) openSession(ctx context.Context) (*pipeline.Session, error) {
	seg, err := segment.New(s.classifier, s.cfg.Segmenter)
	if err != nil {
		return nil, err
	}
	return pipeline.OpenSession(ctx, s.controller, seg, pipeline.SessionConfig{
		Segmenter:      s.cfg.Segmenter,
		FlushThreshold: s.cfg.FlushThreshold,
		Targets:        s.cfg.Targets,
		StageAudio:     s.cfg.StageAudio,
	})
}

// finishSession flushes the session tail, writes any remaining segment
// messages plus the summary frame, and closes the connection normally.
func (s *Server) finishSession(ctx context.Context, conn *websocket.Conn, sess *pipeline.Session) {
	summary, err := sess.Finalize(ctx)
	if err != nil {
		s.writeError(ctx, conn, sess.ID(), err)
	}
	if summary == nil {
		conn.Close(websocket.StatusInternalError, "finalize failed")
		return
	}

	transcripts := make(map[string][]string, len(summary.Transcripts))
	for lang, lines := range summary.Transcripts {
		transcripts[string(lang)] = lines
	}
	msg := SummaryMessage{
		Type:        MessageSummary,
		Transcripts: transcripts,
		Segments:    summary.Segments,
		ElapsedMs:   summary.Elapsed.Milliseconds(),
	}
	if err := writeJSON(ctx, conn, msg); err != nil {
		slog.Debug("failed to write summary", "session", sess.ID(), "err", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "session complete")
}

// writeResults emits one segment message per pipeline result. A write
// error means the client is gone; the caller should stop.
func (s *Server) writeResults(ctx context.Context, conn *websocket.Conn, sess *pipeline.Session, results []*types.SegmentResult) error {
	for _, res := range results {
		annotated := s.controller.Annotate(res.Transcript, res.SourceLanguage, res.KeywordIDs)
		if err := writeJSON(ctx, conn, newSegmentMessage(res, annotated)); err != nil {
			slog.Debug("failed to write segment message", "session", sess.ID(), "err", err)
			return err
		}
	}
	return nil
}

func (s *Server) writeError(ctx context.Context, conn *websocket.Conn, sessionID string, procErr error) {
	slog.Warn("processing error", "session", sessionID, "err", procErr)
	if err := writeJSON(ctx, conn, ErrorMessage{Type: MessageError, Error: procErr.Error()}); err != nil {
		slog.Debug("failed to write error message", "session", sessionID, "err", err)
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("server: marshal message: %w", err)
	}
	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data)
}
