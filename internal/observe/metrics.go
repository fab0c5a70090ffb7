// Package observe provides application-wide observability primitives for
// Polyscribe: OpenTelemetry metrics, distributed tracing, structured
// logging, and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Polyscribe
// metrics.
const meterName = "github.com/polyscribe/polyscribe"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// ASRDuration tracks speech-recognition latency per segment.
	ASRDuration metric.Float64Histogram

	// TranslationDuration tracks translation latency per target language.
	TranslationDuration metric.Float64Histogram

	// SegmentDuration tracks end-to-end processing latency for one segment,
	// from audio hand-off to assembled per-language results.
	SegmentDuration metric.Float64Histogram

	// --- Counters ---

	// SegmentsCut counts utterance segments emitted by the segmenter.
	SegmentsCut metric.Int64Counter

	// AudioBytes counts the raw audio bytes ingested across all sessions.
	AudioBytes metric.Int64Counter

	// KeywordMatches counts keyword occurrences found in transcripts. Use
	// with attribute: attribute.String("language", ...)
	KeywordMatches metric.Int64Counter

	// ProviderRequests counts provider API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts provider errors. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// TranslationFallbacks counts translations that ended on the fallback
	// provider. Use with attributes:
	//   attribute.String("source", ...), attribute.String("target", ...)
	TranslationFallbacks metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live audio sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// network-bound ASR and translation calls.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ASRDuration, err = m.Float64Histogram("polyscribe.asr.duration",
		metric.WithDescription("Latency of speech-recognition calls per segment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranslationDuration, err = m.Float64Histogram("polyscribe.translation.duration",
		metric.WithDescription("Latency of translation calls per target language."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SegmentDuration, err = m.Float64Histogram("polyscribe.segment.duration",
		metric.WithDescription("End-to-end processing latency per segment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.SegmentsCut, err = m.Int64Counter("polyscribe.segments.cut",
		metric.WithDescription("Total utterance segments emitted by the segmenter."),
	); err != nil {
		return nil, err
	}
	if met.AudioBytes, err = m.Int64Counter("polyscribe.audio.bytes",
		metric.WithDescription("Total raw audio bytes ingested."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.KeywordMatches, err = m.Int64Counter("polyscribe.keyword.matches",
		metric.WithDescription("Total keyword occurrences found in transcripts by language."),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("polyscribe.provider.requests",
		metric.WithDescription("Total provider API requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("polyscribe.provider.errors",
		metric.WithDescription("Total provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}
	if met.TranslationFallbacks, err = m.Int64Counter("polyscribe.translation.fallbacks",
		metric.WithDescription("Total translations served by the fallback provider."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("polyscribe.active_sessions",
		metric.WithDescription("Number of live audio sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("polyscribe.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordProviderRequest records a provider request counter increment with
// the standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError records a provider error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}

// RecordFallback records a translation that ended on the fallback provider.
func (m *Metrics) RecordFallback(ctx context.Context, source, target string) {
	m.TranslationFallbacks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("target", target),
		),
	)
}

// RecordKeywordMatches records keyword occurrences for one transcript.
func (m *Metrics) RecordKeywordMatches(ctx context.Context, language string, count int) {
	if count <= 0 {
		return
	}
	m.KeywordMatches.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("language", language)),
	)
}
