// Package langdetect turns ranked language-identification output into a
// single supported language for the pipeline.
//
// The policy layer is deliberately tiny: the statistical backend ranks, this
// package filters to the supported set and applies the default-language rule.
// Detection never fails — a transcript always ends up with some source
// language, because every downstream step (keyword matching, translation)
// needs one.
package langdetect

import (
	"log/slog"

	"github.com/polyscribe/polyscribe/pkg/provider/langid"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// Detector picks the most probable supported language for a text.
// Safe for concurrent use when the backend is.
type Detector struct {
	backend langid.Backend
	deflt   types.Language
}

// New creates a Detector. deflt is returned when the backend offers no
// supported candidate; it must itself be supported.
func New(backend langid.Backend, deflt types.Language) *Detector {
	if !deflt.IsSupported() {
		deflt = types.English
	}
	return &Detector{backend: backend, deflt: deflt}
}

// Detect returns the highest-probability supported language for text, or the
// configured default when the backend produces no supported candidate.
func (d *Detector) Detect(text string) types.Language {
	best := d.deflt
	bestProb := -1.0
	for _, c := range d.backend.DetectRanked(text) {
		if !c.Language.IsSupported() {
			continue
		}
		if c.Probability > bestProb {
			best, bestProb = c.Language, c.Probability
		}
	}
	if bestProb < 0 {
		slog.Debug("no supported language detected, using default",
			"default", d.deflt)
	}
	return best
}
