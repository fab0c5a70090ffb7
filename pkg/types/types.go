// Package types defines the shared types used across all Polyscribe packages.
//
// These types form the lingua franca between providers, the segmentation
// pipeline, and the translation orchestrator. They are intentionally minimal —
// each package defines its own domain types, but cross-cutting data structures
// live here to avoid circular imports.
package types

import "fmt"

// Language is a short code identifying one of the languages the meeting
// pipeline supports. The set is fixed: every glossary, keyword automaton, and
// translation path is provisioned for exactly these languages at startup.
type Language string

const (
	// English ("en").
	English Language = "en"

	// Taiwanese Mandarin ("tw"). Rendered in Traditional Chinese script;
	// translation providers that only emit Simplified Chinese require a
	// script-normalisation pass (see the translate package).
	Taiwanese Language = "tw"

	// Japanese ("ja").
	Japanese Language = "ja"

	// German ("de").
	German Language = "de"
)

// Supported returns the fixed set of supported languages in canonical order.
// The returned slice is freshly allocated; callers may modify it.
func Supported() []Language {
	return []Language{English, Taiwanese, Japanese, German}
}

// IsSupported reports whether l is one of the supported languages.
func (l Language) IsSupported() bool {
	switch l {
	case English, Taiwanese, Japanese, German:
		return true
	}
	return false
}

// String returns the language code.
func (l Language) String() string {
	return string(l)
}

// ParseLanguage validates a language code from config or a client request.
func ParseLanguage(code string) (Language, error) {
	l := Language(code)
	if !l.IsSupported() {
		return "", fmt.Errorf("types: unsupported language %q", code)
	}
	return l, nil
}

// SegmentResult is the aggregate output of processing one audio segment
// through the full pipeline: transcription, language detection, keyword
// matching, and per-language translation fan-out.
type SegmentResult struct {
	// Transcript is the raw ASR output for the segment.
	Transcript string

	// SourceLanguage is the detected language of the transcript.
	SourceLanguage Language

	// KeywordIDs lists every keyword occurrence found in the transcript, in
	// left-to-right order. Repeated occurrences are repeated here; consumers
	// needing a unique set must deduplicate themselves.
	KeywordIDs []int

	// Translations maps each requested target language to its translated
	// transcript.
	Translations map[Language]string
}
