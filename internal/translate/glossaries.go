package translate

import (
	"context"
	"fmt"

	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// pair is an ordered (source, target) language pair.
type pair struct {
	source types.Language
	target types.Language
}

// Glossaries is the immutable per-pair glossary table. It is resolved from
// the primary provider once at startup and read concurrently by every
// session afterwards.
type Glossaries struct {
	byPair map[pair]translation.Glossary
}

// LoadGlossaries fetches the provisioned glossaries from the primary
// provider and indexes them by ordered language pair. Glossaries whose names
// do not follow the "<source>_<target>" scheme, or that reference
// unsupported languages, are ignored.
func LoadGlossaries(ctx context.Context, p translation.GlossaryProvider) (*Glossaries, error) {
	list, err := p.ListGlossaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("translate: list glossaries: %w", err)
	}
	return NewGlossaries(list), nil
}

// NewGlossaries indexes a glossary list by ordered pair. Exposed for tests
// and for deployments that provision the table out of band.
func NewGlossaries(list []translation.Glossary) *Glossaries {
	g := &Glossaries{byPair: make(map[pair]translation.Glossary, len(list))}
	for _, gl := range list {
		if !gl.Source.IsSupported() || !gl.Target.IsSupported() || gl.Source == gl.Target {
			continue
		}
		g.byPair[pair{gl.Source, gl.Target}] = gl
	}
	return g
}

// Resolve returns the glossary ID for the ordered (source, target) pair.
func (g *Glossaries) Resolve(source, target types.Language) (string, bool) {
	gl, ok := g.byPair[pair{source, target}]
	if !ok {
		return "", false
	}
	return gl.ID, true
}

// MissingPairs lists every ordered pair of distinct supported languages that
// has no glossary. A complete deployment returns an empty slice; missing
// pairs degrade those directions to the fallback provider.
func (g *Glossaries) MissingPairs() []string {
	var missing []string
	for _, src := range types.Supported() {
		for _, tgt := range types.Supported() {
			if src == tgt {
				continue
			}
			if _, ok := g.byPair[pair{src, tgt}]; !ok {
				missing = append(missing, string(src)+"_"+string(tgt))
			}
		}
	}
	return missing
}
