// Package lingua provides a langid backend built on the lingua-go statistical
// language detector.
//
// The detector is restricted at construction to the models for the pipeline's
// supported languages, which keeps memory bounded and rules out confusions
// with languages the pipeline could never act on. Chinese is reported as
// Taiwanese Mandarin ("tw") — lingua does not distinguish script variants,
// and Traditional-script handling happens downstream in the translate
// package.
package lingua

import (
	lingua "github.com/pemistahl/lingua-go"

	"github.com/polyscribe/polyscribe/pkg/provider/langid"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// Compile-time assertion that Backend implements langid.Backend.
var _ langid.Backend = (*Backend)(nil)

// languageMap translates lingua's language identifiers to pipeline codes.
var languageMap = map[lingua.Language]types.Language{
	lingua.English:  types.English,
	lingua.Chinese:  types.Taiwanese,
	lingua.Japanese: types.Japanese,
	lingua.German:   types.German,
}

// Backend implements langid.Backend using lingua-go. It is read-only after
// construction and safe for concurrent use.
type Backend struct {
	detector lingua.LanguageDetector
}

// New builds a Backend with models for the supported language set loaded
// eagerly, so the first detection on the hot path pays no lazy-load cost.
func New() *Backend {
	langs := make([]lingua.Language, 0, len(languageMap))
	for l := range languageMap {
		langs = append(langs, l)
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		WithPreloadedLanguageModels().
		Build()
	return &Backend{detector: detector}
}

// DetectRanked implements langid.Backend.
func (b *Backend) DetectRanked(text string) []langid.Candidate {
	values := b.detector.ComputeLanguageConfidenceValues(text)
	out := make([]langid.Candidate, 0, len(values))
	for _, v := range values {
		code, ok := languageMap[v.Language()]
		if !ok {
			continue
		}
		out = append(out, langid.Candidate{
			Language:    code,
			Probability: v.Value(),
		})
	}
	return out
}
