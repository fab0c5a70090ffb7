// Package translate orchestrates glossary-constrained translation with an
// explicit primary/fallback protocol.
//
// The decision ladder for one translation is:
//
//  1. Identity: source equals target — return the input, no provider call.
//  2. Primary: translate through the glossary-bound primary provider. For
//     Taiwanese targets the primary's Simplified-script output gets a second
//     pass through the fallback provider with fixed zh-CN→zh-TW codes.
//  3. Fallback: any primary-path failure (missing glossary, provider error,
//     failed script pass, open circuit breaker) discards the primary result
//     and retries the whole translation on the fallback provider with
//     auto-detected source.
//  4. Coercion: an empty final string becomes the original input — an empty
//     translation is never returned.
//
// Each outcome records its provenance in [Result], so the fallback decision
// is an observable branch rather than a swallowed exception. Only a fallback
// failure propagates as an error.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polyscribe/polyscribe/internal/resilience"
	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/provider/translation/google"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// Provenance identifies which path produced a translation.
type Provenance int

const (
	// ProviderIdentity means source and target were equal; no provider ran.
	ProviderIdentity Provenance = iota

	// ProviderPrimary means the glossary-bound primary provider produced the
	// result (including any script-normalisation pass).
	ProviderPrimary

	// ProviderFallback means the fallback provider produced the result.
	ProviderFallback
)

// String returns the provenance label used in logs and telemetry.
func (p Provenance) String() string {
	switch p {
	case ProviderIdentity:
		return "identity"
	case ProviderPrimary:
		return "primary"
	case ProviderFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is one finished translation with its provenance.
type Result struct {
	// Text is the translated text. Never empty when the input is non-empty.
	Text string

	// Provenance records which path produced Text.
	Provenance Provenance
}

// fallbackCodes maps pipeline languages to the fallback provider's codes.
var fallbackCodes = map[types.Language]string{
	types.English:   "en",
	types.Taiwanese: "zh-TW",
	types.Japanese:  "ja",
	types.German:    "de",
}

// Script-variant pass codes: the primary provider emits Simplified Chinese
// for ZH targets, so Taiwanese targets are normalised with these fixed
// codes regardless of the requested pair.
const (
	scriptPassSource = "zh-CN"
	scriptPassTarget = "zh-TW"
)

// Config holds orchestrator tuning knobs.
type Config struct {
	// BreakerMaxFailures and BreakerCoolDown configure the circuit breaker
	// guarding the primary provider. Zero values use the resilience package
	// defaults.
	BreakerMaxFailures int
	BreakerCoolDown    time.Duration
}

// Orchestrator implements the translation protocol over an injected primary
// and fallback provider pair. Safe for concurrent use.
type Orchestrator struct {
	primary    translation.GlossaryProvider
	fallback   translation.Provider
	glossaries *Glossaries
	breaker    *resilience.Breaker
}

// New creates an Orchestrator. All three collaborators are required.
func New(primary translation.GlossaryProvider, fallback translation.Provider, glossaries *Glossaries, cfg Config) *Orchestrator {
	return &Orchestrator{
		primary:    primary,
		fallback:   fallback,
		glossaries: glossaries,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name:        "translation-primary",
			MaxFailures: cfg.BreakerMaxFailures,
			CoolDown:    cfg.BreakerCoolDown,
		}),
	}
}

// Translate runs the full decision ladder for one text. Returns an error
// only when the fallback provider itself fails.
func (o *Orchestrator) Translate(ctx context.Context, text string, source, target types.Language) (Result, error) {
	if source == target {
		return Result{Text: text, Provenance: ProviderIdentity}, nil
	}

	if out, ok := o.tryPrimary(ctx, text, source, target); ok {
		if out == "" {
			out = text
		}
		return Result{Text: out, Provenance: ProviderPrimary}, nil
	}

	out, err := o.fallback.Translate(ctx, text, google.AutoDetect, fallbackCodes[target])
	if err != nil {
		return Result{}, fmt.Errorf("translate: fallback %s→%s: %w", source, target, err)
	}
	if out == "" {
		out = text
	}
	return Result{Text: out, Provenance: ProviderFallback}, nil
}

// tryPrimary attempts the glossary-bound primary path, including the script
// variant pass for Taiwanese targets. ok is false when the result must be
// discarded and the fallback consulted.
func (o *Orchestrator) tryPrimary(ctx context.Context, text string, source, target types.Language) (string, bool) {
	glossaryID, ok := o.glossaries.Resolve(source, target)
	if !ok {
		// A missing glossary is a configuration gap, not a provider fault:
		// route to the fallback without charging the breaker.
		slog.Debug("no glossary for pair, using fallback",
			"source", source, "target", target)
		return "", false
	}

	if err := o.breaker.Allow(); err != nil {
		return "", false
	}

	out, err := o.primary.Translate(ctx, text, source, target, glossaryID)
	o.breaker.Record(err)
	if err != nil {
		slog.Warn("primary translation failed, using fallback",
			"source", source, "target", target, "err", err)
		return "", false
	}

	if target == types.Taiwanese {
		normalised, err := o.fallback.Translate(ctx, out, scriptPassSource, scriptPassTarget)
		if err != nil {
			slog.Warn("script normalisation failed, using fallback for whole translation",
				"target", target, "err", err)
			return "", false
		}
		out = normalised
	}
	return out, true
}
