// Package config provides the configuration schema, loader, provider
// registry, and file watcher for the Polyscribe translation server.
package config

import (
	"github.com/polyscribe/polyscribe/pkg/types"
)

// LogLevel controls log verbosity for the Polyscribe server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Polyscribe.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Keywords  KeywordsConfig  `yaml:"keywords"`
}

// ServerConfig holds network and logging settings for the Polyscribe server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// ProvidersConfig declares which provider implementation to use for each
// pipeline stage. Each field selects a named provider registered in the
// [Registry].
type ProvidersConfig struct {
	ASR                 ProviderEntry `yaml:"asr"`
	VAD                 ProviderEntry `yaml:"vad"`
	TranslationPrimary  ProviderEntry `yaml:"translation_primary"`
	TranslationFallback ProviderEntry `yaml:"translation_fallback"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "whisper",
	// "deepl").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "whisper-1").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above. Values may be strings, numbers, booleans,
	// or nested maps.
	Options map[string]any `yaml:"options"`
}

// PipelineConfig holds the audio segmentation and translation settings.
type PipelineConfig struct {
	// SampleRate is the expected PCM sample rate in Hz. Default: 16000.
	SampleRate int `yaml:"sample_rate"`

	// FrameDurationMs is the VAD frame duration in milliseconds. Default: 20.
	FrameDurationMs int `yaml:"frame_duration_ms"`

	// OnsetFrames is the consecutive speech frame count confirming an
	// utterance start. Default: 25.
	OnsetFrames int `yaml:"onset_frames"`

	// OffsetFrames is the consecutive silence frame count cutting an
	// utterance. Default: 25.
	OffsetFrames int `yaml:"offset_frames"`

	// FlushThresholdBytes is the accumulated chunk size that triggers a
	// streaming processing pass. Default: 32000 (one second at 16 kHz).
	FlushThresholdBytes int `yaml:"flush_threshold_bytes"`

	// DefaultLanguage is the language assumed when detection yields nothing
	// supported. Default: "en".
	DefaultLanguage types.Language `yaml:"default_language"`

	// TargetLanguages lists the languages every transcript is translated
	// into. Defaults to all supported languages.
	TargetLanguages []types.Language `yaml:"target_languages"`
}

// KeywordsConfig locates the keyword vocabulary.
type KeywordsConfig struct {
	// File is the path to the YAML keyword table.
	File string `yaml:"file"`
}
