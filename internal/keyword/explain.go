package keyword

import (
	"strings"

	"github.com/polyscribe/polyscribe/pkg/types"
)

// headers holds the localized "Keywords:" label that introduces the
// explanation block appended to a transcript.
var headers = map[types.Language]string{
	types.English:   "Keywords:",
	types.Taiwanese: "關鍵字：",
	types.Japanese:  "キーワード:",
	types.German:    "Schlüsselwörter:",
}

// Annotate appends an explanation block for the given concept IDs to text,
// rendered in lang: a localized header followed by one "term: explanation"
// line per ID. IDs keep their given order, repetitions included. With no IDs
// (or none known in lang) the text is returned unchanged.
func (t *Table) Annotate(text string, lang types.Language, ids []int) string {
	if len(ids) == 0 {
		return text
	}
	header, ok := headers[lang]
	if !ok {
		return text
	}

	lines := make([]string, 0, len(ids)+2)
	lines = append(lines, text, header)
	found := false
	for _, id := range ids {
		kw, ok := t.Explanation(lang, id)
		if !ok {
			continue
		}
		found = true
		lines = append(lines, kw.Text+": "+kw.Explanation)
	}
	if !found {
		return text
	}
	return strings.Join(lines, "\n")
}
