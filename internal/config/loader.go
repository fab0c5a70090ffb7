package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/polyscribe/polyscribe/pkg/types"
	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"asr":                  {"whisper"},
	"vad":                  {"energy"},
	"translation_primary":  {"deepl"},
	"translation_fallback": {"google"},
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Provider name validation: warn about unknown names, they may be typos
	// or third-party implementations registered at runtime.
	validateProviderName("asr", cfg.Providers.ASR.Name)
	validateProviderName("vad", cfg.Providers.VAD.Name)
	validateProviderName("translation_primary", cfg.Providers.TranslationPrimary.Name)
	validateProviderName("translation_fallback", cfg.Providers.TranslationFallback.Name)

	if cfg.Providers.ASR.Name != "" && cfg.Providers.ASR.APIKey == "" {
		slog.Warn("providers.asr has no api_key; transcription calls will be rejected",
			"name", cfg.Providers.ASR.Name)
	}
	if cfg.Providers.TranslationPrimary.Name != "" && cfg.Providers.TranslationPrimary.APIKey == "" {
		slog.Warn("providers.translation_primary has no api_key; all translations will use the fallback provider",
			"name", cfg.Providers.TranslationPrimary.Name)
	}

	// Pipeline
	p := cfg.Pipeline
	if p.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("pipeline.sample_rate %d must not be negative", p.SampleRate))
	}
	if p.FrameDurationMs < 0 {
		errs = append(errs, fmt.Errorf("pipeline.frame_duration_ms %d must not be negative", p.FrameDurationMs))
	}
	if p.OnsetFrames < 0 || p.OffsetFrames < 0 {
		errs = append(errs, errors.New("pipeline.onset_frames and pipeline.offset_frames must not be negative"))
	}
	if p.FlushThresholdBytes < 0 {
		errs = append(errs, fmt.Errorf("pipeline.flush_threshold_bytes %d must not be negative", p.FlushThresholdBytes))
	}
	if p.DefaultLanguage != "" && !p.DefaultLanguage.IsSupported() {
		errs = append(errs, fmt.Errorf("pipeline.default_language %q is not supported; valid values: %v",
			p.DefaultLanguage, types.Supported()))
	}
	seen := make(map[types.Language]int, len(p.TargetLanguages))
	for i, lang := range p.TargetLanguages {
		if !lang.IsSupported() {
			errs = append(errs, fmt.Errorf("pipeline.target_languages[%d] %q is not supported; valid values: %v",
				i, lang, types.Supported()))
			continue
		}
		if prev, ok := seen[lang]; ok {
			errs = append(errs, fmt.Errorf("pipeline.target_languages[%d] %q is a duplicate of target_languages[%d]", i, lang, prev))
		}
		seen[lang] = i
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name, may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
