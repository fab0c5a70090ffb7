package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("sl"); got != "en" {
			t.Errorf("sl = %q", got)
		}
		if got := q.Get("tl"); got != "fr" {
			t.Errorf("tl = %q", got)
		}
		if got := q.Get("q"); got != "hello world" {
			t.Errorf("q = %q", got)
		}
		// Two sentence fragments, as the endpoint splits long inputs.
		w.Write([]byte(`[[["bonjour","hello",null,null,10],["le monde","world",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	p := New(WithEndpoint(srv.URL))
	got, err := p.Translate(context.Background(), "hello world", "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "bonjour le monde" {
		t.Fatalf("result = %q, want %q", got, "bonjour le monde")
	}
}

func TestTranslate_NonOKReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := New(WithEndpoint(srv.URL))
	got, err := p.Translate(context.Background(), "hello", "en", "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("result = %q, want empty string on HTTP failure", got)
	}
}

func TestTranslate_SameCodeShortCircuit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := New(WithEndpoint(srv.URL))
	got, err := p.Translate(context.Background(), "hello", "en", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("result = %q, want input unchanged", got)
	}
	if called {
		t.Fatal("endpoint was called for identical source and target codes")
	}
}

func TestTranslate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // dead endpoint

	p := New(WithEndpoint(srv.URL))
	if _, err := p.Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Fatal("expected transport error")
	}
}
