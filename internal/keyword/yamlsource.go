package keyword

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polyscribe/polyscribe/pkg/types"
)

// YAMLSource loads the keyword table from a YAML file. The format is
// concept-first, so the cross-language ID invariant holds by construction —
// one entry per concept, with its term in every language:
//
//	keywords:
//	  - id: 1
//	    terms:
//	      en: {text: "EUV", explanation: "Extreme ultraviolet lithography"}
//	      tw: {text: "極紫外光", explanation: "極紫外光微影技術"}
//	      ja: {text: "EUV", explanation: "極端紫外線リソグラフィ"}
//	      de: {text: "EUV", explanation: "Lithographie mit extrem ultraviolettem Licht"}
//
// Every concept must carry a term for every supported language.
type YAMLSource struct {
	// Path is the YAML file location.
	Path string
}

// Compile-time assertion that YAMLSource implements Source.
var _ Source = (*YAMLSource)(nil)

// yamlFile mirrors the document root.
type yamlFile struct {
	Keywords []yamlConcept `yaml:"keywords"`
}

// yamlConcept is one concept entry.
type yamlConcept struct {
	ID    int                 `yaml:"id"`
	Terms map[string]yamlTerm `yaml:"terms"`
}

// yamlTerm is the per-language surface form and explanation.
type yamlTerm struct {
	Text        string `yaml:"text"`
	Explanation string `yaml:"explanation"`
}

// Load implements Source.
func (s *YAMLSource) Load() (map[types.Language][]Keyword, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("keyword: open %q: %w", s.Path, err)
	}
	defer f.Close()
	return decodeYAML(f, s.Path)
}

func decodeYAML(r io.Reader, name string) (map[types.Language][]Keyword, error) {
	var doc yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("keyword: decode %q: %w", name, err)
	}

	out := make(map[types.Language][]Keyword)
	for _, concept := range doc.Keywords {
		if len(concept.Terms) == 0 {
			return nil, fmt.Errorf("keyword: concept %d in %q has no terms", concept.ID, name)
		}
		for code, term := range concept.Terms {
			lang, err := types.ParseLanguage(code)
			if err != nil {
				return nil, fmt.Errorf("keyword: concept %d in %q: %w", concept.ID, name, err)
			}
			out[lang] = append(out[lang], Keyword{
				ID:          concept.ID,
				Text:        term.Text,
				Explanation: term.Explanation,
			})
		}
	}
	return out, nil
}
