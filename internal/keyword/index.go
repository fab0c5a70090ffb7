package keyword

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/polyscribe/polyscribe/pkg/types"
)

// Index finds keyword occurrences in transcripts using one Aho-Corasick
// automaton per language. Automatons are built once from the [Table] and are
// read-only afterwards, so a single Index serves all sessions concurrently.
type Index struct {
	automatons map[types.Language]languageAutomaton
}

// languageAutomaton pairs a finalized automaton with the pattern-position →
// concept-ID mapping it was built from.
type languageAutomaton struct {
	ac  ahocorasick.AhoCorasick
	ids []int
}

// NewIndex builds the per-language automatons over lower-cased surface forms.
func NewIndex(table *Table) *Index {
	idx := &Index{automatons: make(map[types.Language]languageAutomaton)}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchOnlyWholeWords: false,
		MatchKind:           ahocorasick.StandardMatch,
		DFA:                 true,
	})
	for _, lang := range table.Languages() {
		kws := table.Keywords(lang)
		patterns := make([]string, len(kws))
		ids := make([]int, len(kws))
		for i, kw := range kws {
			patterns[i] = strings.ToLower(kw.Text)
			ids[i] = kw.ID
		}
		idx.automatons[lang] = languageAutomaton{
			ac:  builder.Build(patterns),
			ids: ids,
		}
	}
	return idx
}

// FindAll returns the concept ID of every keyword occurrence in text for
// lang, ordered left to right by occurrence position. Matching is
// case-insensitive and overlapping, and duplicates are preserved on purpose:
// each repetition of a keyword in the meeting is a separate occurrence that
// downstream consumers (explanation rendering, telemetry) count
// individually. Callers needing a unique set must deduplicate themselves.
//
// An unknown language yields nil.
func (idx *Index) FindAll(text string, lang types.Language) []int {
	la, ok := idx.automatons[lang]
	if !ok {
		return nil
	}

	var matches []int
	iter := la.ac.IterOverlapping(strings.ToLower(text))
	for m := iter.Next(); m != nil; m = iter.Next() {
		matches = append(matches, la.ids[m.Pattern()])
	}
	return matches
}
