// Command polyscribe is the meeting translation server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/health"
	"github.com/polyscribe/polyscribe/internal/keyword"
	"github.com/polyscribe/polyscribe/internal/langdetect"
	"github.com/polyscribe/polyscribe/internal/observe"
	"github.com/polyscribe/polyscribe/internal/pipeline"
	"github.com/polyscribe/polyscribe/internal/segment"
	"github.com/polyscribe/polyscribe/internal/server"
	"github.com/polyscribe/polyscribe/internal/transcript"
	"github.com/polyscribe/polyscribe/internal/translate"
	"github.com/polyscribe/polyscribe/pkg/provider/asr"
	asropenai "github.com/polyscribe/polyscribe/pkg/provider/asr/openai"
	"github.com/polyscribe/polyscribe/pkg/provider/langid/lingua"
	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/provider/translation/deepl"
	"github.com/polyscribe/polyscribe/pkg/provider/translation/google"
	"github.com/polyscribe/polyscribe/pkg/provider/vad"
	vadenergy "github.com/polyscribe/polyscribe/pkg/provider/vad/energy"
	"github.com/polyscribe/polyscribe/pkg/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	stageAudio := flag.Bool("stage-audio", false, "write cut segments to per-session staging directories")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "polyscribe: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "polyscribe: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	level.Set(slogLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("polyscribe starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	recognizer, err := reg.CreateASR(cfg.Providers.ASR)
	if err != nil {
		slog.Error("failed to create asr provider", "name", cfg.Providers.ASR.Name, "err", err)
		return 1
	}
	classifier, err := reg.CreateVAD(cfg.Providers.VAD)
	if err != nil {
		slog.Error("failed to create vad provider", "name", cfg.Providers.VAD.Name, "err", err)
		return 1
	}
	primary, err := reg.CreatePrimaryTranslation(cfg.Providers.TranslationPrimary)
	if err != nil {
		slog.Error("failed to create primary translation provider", "name", cfg.Providers.TranslationPrimary.Name, "err", err)
		return 1
	}
	fallback, err := reg.CreateFallbackTranslation(cfg.Providers.TranslationFallback)
	if err != nil {
		slog.Error("failed to create fallback translation provider", "name", cfg.Providers.TranslationFallback.Name, "err", err)
		return 1
	}
	for _, p := range []struct{ kind, name string }{
		{"asr", cfg.Providers.ASR.Name},
		{"vad", cfg.Providers.VAD.Name},
		{"translation_primary", cfg.Providers.TranslationPrimary.Name},
		{"translation_fallback", cfg.Providers.TranslationFallback.Name},
	} {
		slog.Info("provider created", "kind", p.kind, "name", p.name)
	}

	// ── Keyword table ─────────────────────────────────────────────────────────
	table, err := keyword.NewTable(&keyword.YAMLSource{Path: cfg.Keywords.File})
	if err != nil {
		slog.Error("failed to load keyword table", "file", cfg.Keywords.File, "err", err)
		return 1
	}
	slog.Info("keyword table loaded", "file", cfg.Keywords.File, "terms", len(table.Vocabulary()))

	// ── Glossaries ────────────────────────────────────────────────────────────
	glossaries, err := translate.LoadGlossaries(ctx, primary)
	if err != nil {
		slog.Error("failed to list glossaries", "err", err)
		return 1
	}
	if missing := glossaries.MissingPairs(); len(missing) > 0 {
		slog.Warn("glossaries missing for language pairs, those pairs will use the fallback provider",
			"pairs", missing)
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.SampleRate == 0 {
		cfg.Pipeline.SampleRate = 16000
	}
	if cfg.Pipeline.DefaultLanguage == "" {
		cfg.Pipeline.DefaultLanguage = types.English
	}
	if len(cfg.Pipeline.TargetLanguages) == 0 {
		cfg.Pipeline.TargetLanguages = types.Supported()
	}
	orch := translate.New(primary, fallback, glossaries, translate.Config{})
	detector := langdetect.New(lingua.New(), cfg.Pipeline.DefaultLanguage)
	corrector := transcript.NewCorrector(table.Vocabulary())
	controller := pipeline.NewController(
		recognizer, detector, table, keyword.NewIndex(table), orch,
		cfg.Pipeline.SampleRate,
		pipeline.WithCorrector(corrector),
	)

	srv, err := server.New(controller, classifier, server.Config{
		Segmenter: segment.Config{
			SampleRate:      cfg.Pipeline.SampleRate,
			FrameDurationMs: cfg.Pipeline.FrameDurationMs,
			OnsetFrames:     cfg.Pipeline.OnsetFrames,
			OffsetFrames:    cfg.Pipeline.OffsetFrames,
		},
		FlushThreshold: cfg.Pipeline.FlushThresholdBytes,
		Targets:        cfg.Pipeline.TargetLanguages,
		StageAudio:     *stageAudio,
	}, server.WithCheckers(health.GlossaryChecker(primary)))
	if err != nil {
		slog.Error("failed to create server", "err", err)
		return 1
	}

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		diff := config.Diff(old, new)
		if diff.LogLevelChanged {
			level.Set(slogLevel(diff.NewLogLevel))
			slog.Info("log level updated", "level", diff.NewLogLevel)
		}
		if diff.TargetLanguagesChanged || diff.KeywordsFileChanged {
			slog.Warn("target language or keyword changes require a restart to take effect")
		}
	})
	if err != nil {
		slog.Warn("config watcher unavailable", "err", err)
	} else {
		defer watcher.Stop()
	}

	printStartupSummary(cfg)

	// ── HTTP server ───────────────────────────────────────────────────────────
	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Server.TLS != nil {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("server ready — press Ctrl+C to shut down", "listen_addr", cfg.Server.ListenAddr)

	select {
	case err := <-errCh:
		slog.Error("server error", "err", err)
		return 1
	case <-ctx.Done():
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutdown signal received, stopping…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the provider
// from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	reg.RegisterASR("whisper", func(entry config.ProviderEntry) (asr.Provider, error) {
		var opts []asropenai.Option
		if entry.Model != "" {
			opts = append(opts, asropenai.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, asropenai.WithBaseURL(entry.BaseURL))
		}
		return asropenai.New(entry.APIKey, opts...)
	})

	reg.RegisterVAD("energy", func(entry config.ProviderEntry) (vad.Classifier, error) {
		var opts []vadenergy.Option
		if rms := optFloat(entry.Options, "threshold"); rms > 0 {
			opts = append(opts, vadenergy.WithThreshold(rms))
		}
		return vadenergy.New(opts...), nil
	})

	reg.RegisterPrimaryTranslation("deepl", func(entry config.ProviderEntry) (translation.GlossaryProvider, error) {
		var opts []deepl.Option
		if entry.BaseURL != "" {
			opts = append(opts, deepl.WithBaseURL(entry.BaseURL))
		}
		return deepl.New(entry.APIKey, opts...)
	})

	reg.RegisterFallbackTranslation("google", func(entry config.ProviderEntry) (translation.Provider, error) {
		var opts []google.Option
		if entry.BaseURL != "" {
			opts = append(opts, google.WithEndpoint(entry.BaseURL))
		}
		return google.New(opts...), nil
	})
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║       Polyscribe — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("ASR", cfg.Providers.ASR.Name, cfg.Providers.ASR.Model)
	printProvider("VAD", cfg.Providers.VAD.Name, "")
	printProvider("Translation", cfg.Providers.TranslationPrimary.Name, "")
	printProvider("Fallback", cfg.Providers.TranslationFallback.Name, "")
	fmt.Printf("║  Targets         : %-19s ║\n", languageList(cfg.Pipeline.TargetLanguages))
	fmt.Printf("║  Sample rate     : %-19d ║\n", cfg.Pipeline.SampleRate)
	if cfg.Server.ListenAddr != "" {
		fmt.Printf("║  Listen addr     : %-19s ║\n", cfg.Server.ListenAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

func languageList(langs []types.Language) string {
	if len(langs) == 0 {
		return "(all supported)"
	}
	out := ""
	for i, l := range langs {
		if i > 0 {
			out += ","
		}
		out += string(l)
	}
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// optFloat extracts a float64 value from a provider Options map.
// Returns 0 if the map is nil, the key is absent, or the value has the
// wrong type. YAML decodes both 0.5 and 1 into this map, so int is
// accepted too.
func optFloat(opts map[string]any, key string) float64 {
	if opts == nil {
		return 0
	}
	switch v := opts[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
