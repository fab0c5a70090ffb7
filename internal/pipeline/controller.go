// Package pipeline composes segmentation, speech recognition, language
// detection, keyword matching, and translation into the end-to-end
// "audio in, per-language transcripts out" operation.
//
// The [Controller] holds the immutable, share-everything collaborators
// (keyword table and index, glossaries, providers) and is safe for
// concurrent use across sessions. Each connection owns one [Session], which
// holds all mutable per-stream state (accumulator, segmenter, transcript
// history) and must be driven from a single goroutine.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/polyscribe/polyscribe/internal/keyword"
	"github.com/polyscribe/polyscribe/internal/langdetect"
	"github.com/polyscribe/polyscribe/internal/observe"
	"github.com/polyscribe/polyscribe/internal/transcript"
	"github.com/polyscribe/polyscribe/internal/translate"
	"github.com/polyscribe/polyscribe/pkg/provider/asr"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// Controller runs the per-segment processing steps. Construct once at
// startup with [NewController]; safe for concurrent use.
type Controller struct {
	recognizer asr.Provider
	detector   *langdetect.Detector
	table      *keyword.Table
	index      *keyword.Index
	translator *translate.Orchestrator
	corrector  *transcript.Corrector
	metrics    *observe.Metrics

	sampleRate int
	prompt     string
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithCorrector attaches a transcript corrector applied between speech
// recognition and language detection. When nil (the default), transcripts
// pass through unchanged.
func WithCorrector(c *transcript.Corrector) ControllerOption {
	return func(ctl *Controller) { ctl.corrector = c }
}

// WithMetrics sets the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) ControllerOption {
	return func(ctl *Controller) { ctl.metrics = m }
}

// NewController wires the per-segment processing steps together. The
// recognizer prompt is built once from the full keyword vocabulary.
func NewController(
	recognizer asr.Provider,
	detector *langdetect.Detector,
	table *keyword.Table,
	index *keyword.Index,
	translator *translate.Orchestrator,
	sampleRate int,
	opts ...ControllerOption,
) *Controller {
	ctl := &Controller{
		recognizer: recognizer,
		detector:   detector,
		table:      table,
		index:      index,
		translator: translator,
		sampleRate: sampleRate,
		prompt:     asr.BiasingPrompt(table.Vocabulary()),
	}
	for _, o := range opts {
		o(ctl)
	}
	if ctl.metrics == nil {
		ctl.metrics = observe.DefaultMetrics()
	}
	return ctl
}

// ProcessSegment transcribes one audio segment and translates it into every
// requested target language. The translation fan-out runs concurrently; one
// target's failure does not affect another's. An empty transcript (silence
// the recognizer could not read) yields a nil result and no error.
func (c *Controller) ProcessSegment(ctx context.Context, pcm []byte, targets []types.Language) (*types.SegmentResult, error) {
	segStart := time.Now()

	asrStart := time.Now()
	text, err := c.recognizer.Transcribe(ctx, asr.Request{
		Audio:      pcm,
		SampleRate: c.sampleRate,
		Prompt:     c.prompt,
	})
	c.metrics.ASRDuration.Record(ctx, time.Since(asrStart).Seconds())
	if err != nil {
		c.metrics.RecordProviderError(ctx, "whisper", "asr")
		return nil, fmt.Errorf("pipeline: transcribe segment: %w", err)
	}
	c.metrics.RecordProviderRequest(ctx, "whisper", "asr", "ok")
	if text == "" {
		return nil, nil
	}

	if c.corrector != nil {
		corrected, corrections := c.corrector.Correct(text)
		for _, corr := range corrections {
			slog.Debug("transcript corrected",
				"original", corr.Original,
				"corrected", corr.Corrected,
				"confidence", corr.Confidence)
		}
		text = corrected
	}

	source := c.detector.Detect(text)
	ids := c.index.FindAll(text, source)
	c.metrics.RecordKeywordMatches(ctx, source.String(), len(ids))

	result := &types.SegmentResult{
		Transcript:     text,
		SourceLanguage: source,
		KeywordIDs:     ids,
		Translations:   make(map[types.Language]string, len(targets)),
	}

	// Independent fan-out: each target translates concurrently against the
	// read-only glossaries, then results are gathered into the map.
	translations := make([]string, len(targets))
	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			trStart := time.Now()
			res, err := c.translator.Translate(ctx, text, source, target)
			c.metrics.TranslationDuration.Record(ctx, time.Since(trStart).Seconds(),
				metric.WithAttributes(observe.Attr("target", target.String())))
			if err != nil {
				return fmt.Errorf("pipeline: translate to %s: %w", target, err)
			}
			if res.Provenance == translate.ProviderFallback {
				c.metrics.RecordFallback(ctx, source.String(), target.String())
			}
			translations[i] = res.Text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, target := range targets {
		result.Translations[target] = translations[i]
	}

	c.metrics.SegmentDuration.Record(ctx, time.Since(segStart).Seconds())
	return result, nil
}

// Annotate appends keyword explanations to text for the given language,
// using the ids returned in a [types.SegmentResult].
func (c *Controller) Annotate(text string, lang types.Language, ids []int) string {
	return c.table.Annotate(text, lang, ids)
}
