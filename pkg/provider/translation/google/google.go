// Package google provides the fallback translation Provider backed by the
// public Google Translate web endpoint.
//
// The endpoint needs no API key, which is exactly what makes it a usable
// deterministic fallback: it keeps working when the primary provider's
// account or glossaries are misconfigured. The trade-offs are the inverse of
// DeepL's — no glossary support, and an informal response format that this
// package parses defensively.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/polyscribe/polyscribe/pkg/provider/translation"
)

const (
	defaultEndpoint = "https://translate.googleapis.com/translate_a/single"
	defaultTimeout  = 15 * time.Second
)

// AutoDetect is the source code that lets the service detect the source
// language itself.
const AutoDetect = "auto"

// Compile-time assertion that Provider implements translation.Provider.
var _ translation.Provider = (*Provider)(nil)

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithEndpoint overrides the translate endpoint URL (tests).
func WithEndpoint(u string) Option {
	return func(p *Provider) {
		p.endpoint = u
	}
}

// WithHTTPClient replaces the default HTTP client (15 s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// Provider implements translation.Provider against the Google Translate web
// endpoint. Safe for concurrent use.
type Provider struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a Google fallback Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Translate implements translation.Provider. sourceCode and targetCode are
// Google codes ("en", "zh-TW", "zh-CN", "ja", "de") or [AutoDetect] for the
// source. A non-200 response yields ("", nil) per the fallback contract;
// transport failures are returned as errors.
func (p *Provider) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	if sourceCode == targetCode {
		return text, nil
	}

	q := url.Values{
		"client": {"gtx"},
		"sl":     {sourceCode},
		"tl":     {targetCode},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("google: build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", translation.ErrTranslation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	// The body is a nested JSON array: element 0 is a list of sentence
	// fragments, each fragment a list whose element 0 is the translated text.
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", translation.ErrTranslation, err)
	}
	if len(payload) == 0 {
		return "", nil
	}

	var fragments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &fragments); err != nil {
		return "", fmt.Errorf("%w: decode fragments: %v", translation.ErrTranslation, err)
	}

	sentences := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		if len(frag) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(frag[0], &s); err != nil {
			continue
		}
		sentences = append(sentences, s)
	}
	return strings.Join(sentences, " "), nil
}
