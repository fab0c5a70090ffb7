// Package translation defines the provider interfaces for machine
// translation backends.
//
// Two contracts exist because the two roles differ:
//
//   - [GlossaryProvider] is the primary path: translation constrained by a
//     pre-provisioned terminology glossary for the ordered language pair, so
//     domain terms are rendered consistently instead of being left to the
//     general model.
//   - [Provider] is the deterministic fallback: plain code-to-code
//     translation with no glossary support, used when the primary fails and
//     for script-variant normalisation passes.
//
// Implementations must be safe for concurrent use — the same provider handle
// serves every session's translation fan-out.
package translation

import (
	"context"
	"errors"

	"github.com/polyscribe/polyscribe/pkg/types"
)

// ErrTranslation is the sentinel wrapped by providers on any service failure
// (network error, API error, malformed response). The orchestrator treats it
// as the trigger for the fallback path.
var ErrTranslation = errors.New("translation: provider failed")

// ErrGlossaryNotFound is returned when no glossary is provisioned for the
// requested ordered language pair. Wraps [ErrTranslation] semantics: the
// orchestrator recovers via fallback.
var ErrGlossaryNotFound = errors.New("translation: glossary not found")

// Glossary describes one provisioned terminology mapping for an ordered
// (source, target) language pair.
type Glossary struct {
	// ID is the provider-assigned glossary identifier.
	ID string

	// Name is the glossary name. Glossaries are provisioned under the naming
	// scheme "<source>_<target>" (e.g., "en_de").
	Name string

	// Source and Target are the languages of the ordered pair.
	Source types.Language
	Target types.Language
}

// GlossaryProvider is the primary, glossary-constrained translation backend.
type GlossaryProvider interface {
	// Translate translates text from source to target with the given glossary
	// bound. Failures are reported as errors wrapping [ErrTranslation].
	Translate(ctx context.Context, text string, source, target types.Language, glossaryID string) (string, error)

	// ListGlossaries returns every glossary provisioned for the account. The
	// orchestrator resolves the per-pair glossary table from this once at
	// startup.
	ListGlossaries(ctx context.Context) ([]Glossary, error)
}

// Provider is the fallback translation backend. Source and target are
// provider-native language codes (e.g., "en", "zh-TW"); sourceCode may be
// "auto" to let the service detect the source language.
//
// Per the upstream contract, an unreachable-but-responding service yields an
// empty string with a nil error; the orchestrator's empty-result coercion
// absorbs that. Transport-level failures are returned as errors wrapping
// [ErrTranslation].
type Provider interface {
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}
