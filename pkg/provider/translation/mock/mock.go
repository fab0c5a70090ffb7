// Package mock provides test doubles for the translation package interfaces.
//
// GlossaryProvider and Provider record every call and return canned results,
// so orchestrator tests can assert which provider was consulted and with
// which arguments:
//
//	primary := &mock.GlossaryProvider{Err: errors.New("down")}
//	fallback := &mock.Provider{Result: "bonjour"}
package mock

import (
	"context"
	"sync"

	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// GlossaryTranslateCall records one GlossaryProvider.Translate invocation.
type GlossaryTranslateCall struct {
	Text       string
	Source     types.Language
	Target     types.Language
	GlossaryID string
}

// GlossaryProvider is a mock implementation of translation.GlossaryProvider.
type GlossaryProvider struct {
	mu sync.Mutex

	// Result is returned by every Translate call. When empty and ResultFunc
	// is nil, the input text is echoed back.
	Result string

	// ResultFunc, if non-nil, computes the Translate result per call.
	ResultFunc func(text string, source, target types.Language) string

	// Err, if non-nil, is returned by every Translate call.
	Err error

	// Glossaries is returned by ListGlossaries.
	Glossaries []translation.Glossary

	// ListErr, if non-nil, is returned by ListGlossaries.
	ListErr error

	// TranslateCalls records every Translate call in order.
	TranslateCalls []GlossaryTranslateCall

	// ListGlossariesCallCount counts ListGlossaries calls.
	ListGlossariesCallCount int
}

// Translate records the call and returns the canned result.
func (p *GlossaryProvider) Translate(_ context.Context, text string, source, target types.Language, glossaryID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranslateCalls = append(p.TranslateCalls, GlossaryTranslateCall{
		Text: text, Source: source, Target: target, GlossaryID: glossaryID,
	})
	if p.Err != nil {
		return "", p.Err
	}
	if p.ResultFunc != nil {
		return p.ResultFunc(text, source, target), nil
	}
	if p.Result != "" {
		return p.Result, nil
	}
	return text, nil
}

// ListGlossaries records the call and returns Glossaries, ListErr.
func (p *GlossaryProvider) ListGlossaries(context.Context) ([]translation.Glossary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListGlossariesCallCount++
	if p.ListErr != nil {
		return nil, p.ListErr
	}
	return p.Glossaries, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *GlossaryProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranslateCalls = nil
	p.ListGlossariesCallCount = 0
}

// Ensure GlossaryProvider implements the interface at compile time.
var _ translation.GlossaryProvider = (*GlossaryProvider)(nil)

// TranslateCall records one Provider.Translate invocation.
type TranslateCall struct {
	Text       string
	SourceCode string
	TargetCode string
}

// Provider is a mock implementation of translation.Provider.
type Provider struct {
	mu sync.Mutex

	// Result is returned by every Translate call. When empty and ResultFunc
	// is nil, the input text is echoed back.
	Result string

	// ResultFunc, if non-nil, computes the Translate result per call.
	ResultFunc func(text, sourceCode, targetCode string) string

	// Err, if non-nil, is returned by every Translate call.
	Err error

	// TranslateCalls records every Translate call in order.
	TranslateCalls []TranslateCall
}

// Translate records the call and returns the canned result.
func (p *Provider) Translate(_ context.Context, text, sourceCode, targetCode string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranslateCalls = append(p.TranslateCalls, TranslateCall{
		Text: text, SourceCode: sourceCode, TargetCode: targetCode,
	})
	if p.Err != nil {
		return "", p.Err
	}
	if p.ResultFunc != nil {
		return p.ResultFunc(text, sourceCode, targetCode), nil
	}
	if p.Result != "" {
		return p.Result, nil
	}
	return text, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranslateCalls = nil
}

// Ensure Provider implements the interface at compile time.
var _ translation.Provider = (*Provider)(nil)
