// Package openai provides an ASR provider backed by the OpenAI Whisper API.
//
// Each segment of raw PCM is wrapped in a RIFF/WAVE header and submitted as a
// single transcription request; the biasing prompt from the request is passed
// through as the Whisper prompt.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/polyscribe/polyscribe/pkg/audio"
	"github.com/polyscribe/polyscribe/pkg/provider/asr"
)

const defaultModel = oai.AudioModelWhisper1

// Compile-time assertion that Provider implements asr.Provider.
var _ asr.Provider = (*Provider)(nil)

// config holds optional configuration for the provider.
type config struct {
	baseURL string
	model   string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithModel overrides the transcription model. Default: whisper-1.
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Provider implements asr.Provider using the OpenAI audio transcription API.
type Provider struct {
	client oai.Client
	model  string
}

// New constructs a new OpenAI Whisper Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}

	cfg := &config{model: string(defaultModel)}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Provider{client: client, model: cfg.model}, nil
}

// Transcribe implements asr.Provider. The PCM segment is wrapped as WAV so
// the API can infer the audio format from the container header.
func (p *Provider) Transcribe(ctx context.Context, req asr.Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", fmt.Errorf("%w: empty audio segment", asr.ErrTranscription)
	}

	wav := audio.EncodeWAV(req.Audio, req.SampleRate)

	params := oai.AudioTranscriptionNewParams{
		Model: oai.AudioModel(p.model),
		File:  oai.File(bytes.NewReader(wav), "segment.wav", "audio/wav"),
	}
	if req.Prompt != "" {
		params.Prompt = oai.String(req.Prompt)
	}

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", asr.ErrTranscription, err)
	}
	return resp.Text, nil
}
