// Package keyword holds the domain keyword table and the multi-language
// pattern index built from it.
//
// A keyword is a domain term with a numeric ID that is stable across all
// supported languages: ID 7 in English and ID 7 in Japanese are the same
// concept, which is what makes cross-language explanation lookup and
// glossary provisioning possible. The canonical [Table] is built once from a
// [Source] at startup, validated against that invariant, and immutable
// afterwards — every session reads it concurrently without locking.
package keyword

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polyscribe/polyscribe/pkg/types"
)

// Keyword is one domain term in one language.
type Keyword struct {
	// ID is the language-independent concept identifier.
	ID int

	// Text is the surface form in this language.
	Text string

	// Explanation is the short domain explanation shown to users, in this
	// language.
	Explanation string
}

// Source loads the keyword table from wherever it is maintained (a YAML
// file here; a spreadsheet or CMS in other deployments). Load is called once
// at startup.
type Source interface {
	// Load returns the keywords per language. Every language must carry the
	// same ID set; [NewTable] enforces this.
	Load() (map[types.Language][]Keyword, error)
}

// languageSet is the canonical per-language store: one slice in ID order plus
// O(1) lookups in both directions.
type languageSet struct {
	ordered []Keyword
	byID    map[int]Keyword
	byText  map[string]int // lower-cased surface form -> ID
}

// Table is the validated, immutable keyword table for all languages.
type Table struct {
	languages map[types.Language]*languageSet
}

// NewTable loads src and validates the cross-language ID invariant: every
// language carries exactly the same set of IDs, no duplicate IDs within a
// language, no empty surface forms.
func NewTable(src Source) (*Table, error) {
	perLang, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("keyword: load source: %w", err)
	}
	if len(perLang) == 0 {
		return nil, fmt.Errorf("keyword: source is empty")
	}

	t := &Table{languages: make(map[types.Language]*languageSet, len(perLang))}
	var refLang types.Language
	var refIDs map[int]struct{}

	for lang, kws := range perLang {
		if !lang.IsSupported() {
			return nil, fmt.Errorf("keyword: source contains unsupported language %q", lang)
		}
		set := &languageSet{
			ordered: make([]Keyword, 0, len(kws)),
			byID:    make(map[int]Keyword, len(kws)),
			byText:  make(map[string]int, len(kws)),
		}
		for _, kw := range kws {
			text := strings.TrimSpace(kw.Text)
			if text == "" {
				return nil, fmt.Errorf("keyword: empty surface form for id %d in %s", kw.ID, lang)
			}
			if _, dup := set.byID[kw.ID]; dup {
				return nil, fmt.Errorf("keyword: duplicate id %d in %s", kw.ID, lang)
			}
			kw.Text = text
			set.byID[kw.ID] = kw
			set.byText[strings.ToLower(text)] = kw.ID
			set.ordered = append(set.ordered, kw)
		}
		sort.Slice(set.ordered, func(i, j int) bool { return set.ordered[i].ID < set.ordered[j].ID })
		t.languages[lang] = set

		ids := make(map[int]struct{}, len(set.byID))
		for id := range set.byID {
			ids[id] = struct{}{}
		}
		if refIDs == nil {
			refLang, refIDs = lang, ids
			continue
		}
		if len(ids) != len(refIDs) {
			return nil, fmt.Errorf("keyword: %s has %d ids, %s has %d — id sets must match across languages",
				lang, len(ids), refLang, len(refIDs))
		}
		for id := range ids {
			if _, ok := refIDs[id]; !ok {
				return nil, fmt.Errorf("keyword: id %d exists in %s but not in %s", id, lang, refLang)
			}
		}
	}
	return t, nil
}

// Keywords returns the keywords for lang in ascending ID order. The returned
// slice is shared; callers must not modify it.
func (t *Table) Keywords(lang types.Language) []Keyword {
	set, ok := t.languages[lang]
	if !ok {
		return nil
	}
	return set.ordered
}

// Languages returns the languages present in the table.
func (t *Table) Languages() []types.Language {
	out := make([]types.Language, 0, len(t.languages))
	for lang := range t.languages {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Explanation returns the explanation for a concept ID in lang.
func (t *Table) Explanation(lang types.Language, id int) (Keyword, bool) {
	set, ok := t.languages[lang]
	if !ok {
		return Keyword{}, false
	}
	kw, ok := set.byID[id]
	return kw, ok
}

// IDForText returns the concept ID for a surface form in lang
// (case-insensitive).
func (t *Table) IDForText(lang types.Language, text string) (int, bool) {
	set, ok := t.languages[lang]
	if !ok {
		return 0, false
	}
	id, ok := set.byText[strings.ToLower(strings.TrimSpace(text))]
	return id, ok
}

// Vocabulary returns every distinct surface form across all languages, in a
// stable order. This is the word list injected into the ASR biasing prompt.
func (t *Table) Vocabulary() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, lang := range t.Languages() {
		for _, kw := range t.languages[lang].ordered {
			if _, dup := seen[kw.Text]; dup {
				continue
			}
			seen[kw.Text] = struct{}{}
			out = append(out, kw.Text)
		}
	}
	return out
}

// StaticSource is an in-memory Source for tests and embedded defaults.
type StaticSource map[types.Language][]Keyword

// Load implements Source.
func (s StaticSource) Load() (map[types.Language][]Keyword, error) {
	return s, nil
}
