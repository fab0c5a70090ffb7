package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	trmock "github.com/polyscribe/polyscribe/pkg/provider/translation/mock"
	"github.com/polyscribe/polyscribe/pkg/types"
)

// fullGlossaries returns a table with one glossary per ordered pair.
func fullGlossaries() *Glossaries {
	var list []translation.Glossary
	for _, src := range types.Supported() {
		for _, tgt := range types.Supported() {
			if src == tgt {
				continue
			}
			name := string(src) + "_" + string(tgt)
			list = append(list, translation.Glossary{
				ID: "g-" + name, Name: name, Source: src, Target: tgt,
			})
		}
	}
	return NewGlossaries(list)
}

func TestTranslate_IdentityShortcut(t *testing.T) {
	primary := &trmock.GlossaryProvider{}
	fallback := &trmock.Provider{}
	o := New(primary, fallback, fullGlossaries(), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.English)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "hello" || res.Provenance != ProviderIdentity {
		t.Fatalf("res = %+v", res)
	}
	if len(primary.TranslateCalls) != 0 || len(fallback.TranslateCalls) != 0 {
		t.Fatal("identity translation invoked a provider")
	}
}

func TestTranslate_PrimaryPathBindsGlossary(t *testing.T) {
	primary := &trmock.GlossaryProvider{Result: "hallo"}
	fallback := &trmock.Provider{}
	o := New(primary, fallback, fullGlossaries(), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.German)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "hallo" || res.Provenance != ProviderPrimary {
		t.Fatalf("res = %+v", res)
	}
	if len(primary.TranslateCalls) != 1 {
		t.Fatalf("primary called %d times", len(primary.TranslateCalls))
	}
	if got := primary.TranslateCalls[0].GlossaryID; got != "g-en_de" {
		t.Fatalf("glossary id = %q, want g-en_de", got)
	}
	if len(fallback.TranslateCalls) != 0 {
		t.Fatal("fallback consulted on healthy primary path")
	}
}

func TestTranslate_FallbackLaw(t *testing.T) {
	// Primary always fails → result equals the fallback's direct output.
	primary := &trmock.GlossaryProvider{Err: errors.New("deepl down")}
	fallback := &trmock.Provider{Result: "bonjour"}
	o := New(primary, fallback, fullGlossaries(), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.German)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "bonjour" || res.Provenance != ProviderFallback {
		t.Fatalf("res = %+v", res)
	}
	call := fallback.TranslateCalls[len(fallback.TranslateCalls)-1]
	if call.SourceCode != "auto" {
		t.Fatalf("fallback source = %q, want auto", call.SourceCode)
	}
	if call.TargetCode != "de" {
		t.Fatalf("fallback target = %q, want de", call.TargetCode)
	}
}

func TestTranslate_MissingGlossaryRoutesToFallback(t *testing.T) {
	primary := &trmock.GlossaryProvider{Result: "should not be used"}
	fallback := &trmock.Provider{Result: "über fallback"}
	o := New(primary, fallback, NewGlossaries(nil), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.German)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Provenance != ProviderFallback {
		t.Fatalf("provenance = %v, want fallback", res.Provenance)
	}
	if len(primary.TranslateCalls) != 0 {
		t.Fatal("primary called despite missing glossary")
	}
}

func TestTranslate_ScriptVariantPass(t *testing.T) {
	primary := &trmock.GlossaryProvider{Result: "简体输出"}
	fallback := &trmock.Provider{Result: "繁體輸出"}
	o := New(primary, fallback, fullGlossaries(), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.Taiwanese)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "繁體輸出" || res.Provenance != ProviderPrimary {
		t.Fatalf("res = %+v", res)
	}
	if len(fallback.TranslateCalls) != 1 {
		t.Fatalf("fallback called %d times, want 1 script pass", len(fallback.TranslateCalls))
	}
	call := fallback.TranslateCalls[0]
	if call.SourceCode != "zh-CN" || call.TargetCode != "zh-TW" {
		t.Fatalf("script pass codes = %s→%s", call.SourceCode, call.TargetCode)
	}
	if call.Text != "简体输出" {
		t.Fatalf("script pass input = %q, want the primary output", call.Text)
	}
}

func TestTranslate_ScriptPassFailureFallsBack(t *testing.T) {
	primary := &trmock.GlossaryProvider{Result: "简体输出"}
	// The script pass and the whole-translation retry both run on the
	// fallback provider; when it is down the primary output is discarded
	// and the error surfaces.
	fallback := &trmock.Provider{Err: errors.New("pass down")}
	o := New(primary, fallback, fullGlossaries(), Config{})

	_, err := o.Translate(context.Background(), "hello", types.English, types.Taiwanese)
	if err == nil {
		t.Fatal("expected error when the fallback also fails")
	}
	if len(fallback.TranslateCalls) < 2 {
		t.Fatalf("fallback called %d times, want script pass and full retry", len(fallback.TranslateCalls))
	}
}

func TestTranslate_EmptyResultCoercion(t *testing.T) {
	primary := &trmock.GlossaryProvider{Err: errors.New("down")}
	fallback := &trmock.Provider{ResultFunc: func(string, string, string) string { return "" }}
	o := New(primary, fallback, fullGlossaries(), Config{})

	res, err := o.Translate(context.Background(), "hello", types.English, types.Japanese)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "hello" {
		t.Fatalf("res.Text = %q, want original input", res.Text)
	}
}

func TestTranslate_FallbackErrorPropagates(t *testing.T) {
	primary := &trmock.GlossaryProvider{Err: errors.New("primary down")}
	fallback := &trmock.Provider{Err: errors.New("fallback down")}
	o := New(primary, fallback, fullGlossaries(), Config{})

	if _, err := o.Translate(context.Background(), "hello", types.English, types.German); err == nil {
		t.Fatal("expected error when both providers fail")
	}
}

func TestTranslate_BreakerSkipsDeadPrimary(t *testing.T) {
	primary := &trmock.GlossaryProvider{Err: errors.New("down")}
	fallback := &trmock.Provider{Result: "ok"}
	o := New(primary, fallback, fullGlossaries(), Config{
		BreakerMaxFailures: 2,
		BreakerCoolDown:    time.Hour,
	})

	for i := 0; i < 5; i++ {
		if _, err := o.Translate(context.Background(), "hello", types.English, types.German); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	// After two failures the breaker opens; later calls skip the primary.
	if got := len(primary.TranslateCalls); got != 2 {
		t.Fatalf("primary called %d times, want 2 before breaker opened", got)
	}
}

func TestGlossaries_MissingPairs(t *testing.T) {
	g := NewGlossaries([]translation.Glossary{
		{ID: "g-1", Name: "en_de", Source: types.English, Target: types.German},
	})
	missing := g.MissingPairs()
	// 4 languages → 12 ordered pairs, one provisioned.
	if len(missing) != 11 {
		t.Fatalf("missing = %d pairs, want 11", len(missing))
	}
	if _, ok := g.Resolve(types.English, types.German); !ok {
		t.Fatal("provisioned pair did not resolve")
	}
	if _, ok := g.Resolve(types.German, types.English); ok {
		t.Fatal("reverse pair resolved without a glossary")
	}
}
