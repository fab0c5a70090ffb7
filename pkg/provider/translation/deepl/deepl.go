// Package deepl provides a GlossaryProvider backed by the DeepL REST API
// (v2). It is a hand-rolled HTTP client: the surface the orchestrator needs
// is two endpoints, which does not justify an SDK dependency.
package deepl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/types"
)

const (
	defaultBaseURL = "https://api.deepl.com"
	defaultTimeout = 15 * time.Second
)

// Compile-time assertion that Provider implements translation.GlossaryProvider.
var _ translation.GlossaryProvider = (*Provider)(nil)

// sourceCodes maps pipeline languages to DeepL source_lang codes.
var sourceCodes = map[types.Language]string{
	types.English:   "EN",
	types.Taiwanese: "ZH",
	types.Japanese:  "JA",
	types.German:    "DE",
}

// targetCodes maps pipeline languages to DeepL target_lang codes. Targets use
// regional variants where DeepL requires them (EN-US); DeepL's ZH output is
// Simplified script, which is why Taiwanese targets get a script
// normalisation pass downstream.
var targetCodes = map[types.Language]string{
	types.English:   "EN-US",
	types.Taiwanese: "ZH",
	types.Japanese:  "JA",
	types.German:    "DE",
}

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithBaseURL overrides the API base URL. Use "https://api-free.deepl.com"
// for free-tier keys, or an httptest server URL in tests.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the default HTTP client (15 s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// Provider implements translation.GlossaryProvider against the DeepL v2 API.
// Safe for concurrent use.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a DeepL Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("deepl: apiKey must not be empty")
	}
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// translateResponse mirrors the POST /v2/translate response body.
type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements translation.GlossaryProvider.
func (p *Provider) Translate(ctx context.Context, text string, source, target types.Language, glossaryID string) (string, error) {
	srcCode, ok := sourceCodes[source]
	if !ok {
		return "", fmt.Errorf("%w: no DeepL code for source %q", translation.ErrTranslation, source)
	}
	tgtCode, ok := targetCodes[target]
	if !ok {
		return "", fmt.Errorf("%w: no DeepL code for target %q", translation.ErrTranslation, target)
	}

	form := url.Values{
		"text":        {text},
		"source_lang": {srcCode},
		"target_lang": {tgtCode},
	}
	if glossaryID != "" {
		form.Set("glossary_id", glossaryID)
	}

	var resp translateResponse
	if err := p.post(ctx, "/v2/translate", form, &resp); err != nil {
		return "", err
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("%w: empty translations array", translation.ErrTranslation)
	}
	return resp.Translations[0].Text, nil
}

// glossariesResponse mirrors the GET /v2/glossaries response body.
type glossariesResponse struct {
	Glossaries []struct {
		GlossaryID string `json:"glossary_id"`
		Name       string `json:"name"`
	} `json:"glossaries"`
}

// ListGlossaries implements translation.GlossaryProvider. Source and target
// languages are recovered from the "<source>_<target>" naming scheme;
// glossaries with foreign names are returned with zero-value languages and
// filtered out by the orchestrator.
func (p *Provider) ListGlossaries(ctx context.Context) ([]translation.Glossary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v2/glossaries", nil)
	if err != nil {
		return nil, fmt.Errorf("deepl: build request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)

	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translation.ErrTranslation, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list glossaries: HTTP %d", translation.ErrTranslation, httpResp.StatusCode)
	}

	var resp glossariesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode glossaries: %v", translation.ErrTranslation, err)
	}

	out := make([]translation.Glossary, 0, len(resp.Glossaries))
	for _, g := range resp.Glossaries {
		gl := translation.Glossary{ID: g.GlossaryID, Name: g.Name}
		if src, tgt, ok := strings.Cut(g.Name, "_"); ok {
			gl.Source = types.Language(src)
			gl.Target = types.Language(tgt)
		}
		out = append(out, gl)
	}
	return out, nil
}

// post submits a form-encoded request and decodes the JSON response into out.
func (p *Provider) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("deepl: build request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", translation.ErrTranslation, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return fmt.Errorf("%w: HTTP %d: %s", translation.ErrTranslation, httpResp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", translation.ErrTranslation, err)
	}
	return nil
}
