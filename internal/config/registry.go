package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/polyscribe/polyscribe/pkg/provider/asr"
	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	"github.com/polyscribe/polyscribe/pkg/provider/vad"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions for each
// provider type. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	asr      map[string]func(ProviderEntry) (asr.Provider, error)
	vad      map[string]func(ProviderEntry) (vad.Classifier, error)
	primary  map[string]func(ProviderEntry) (translation.GlossaryProvider, error)
	fallback map[string]func(ProviderEntry) (translation.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		asr:      make(map[string]func(ProviderEntry) (asr.Provider, error)),
		vad:      make(map[string]func(ProviderEntry) (vad.Classifier, error)),
		primary:  make(map[string]func(ProviderEntry) (translation.GlossaryProvider, error)),
		fallback: make(map[string]func(ProviderEntry) (translation.Provider, error)),
	}
}

// RegisterASR registers a speech-recognition provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterASR(name string, factory func(ProviderEntry) (asr.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asr[name] = factory
}

// RegisterVAD registers a voice-activity classifier factory under name.
func (r *Registry) RegisterVAD(name string, factory func(ProviderEntry) (vad.Classifier, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vad[name] = factory
}

// RegisterPrimaryTranslation registers a glossary-capable translation
// provider factory under name.
func (r *Registry) RegisterPrimaryTranslation(name string, factory func(ProviderEntry) (translation.GlossaryProvider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primary[name] = factory
}

// RegisterFallbackTranslation registers a plain translation provider factory
// under name.
func (r *Registry) RegisterFallbackTranslation(name string, factory func(ProviderEntry) (translation.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback[name] = factory
}

// CreateASR instantiates a speech-recognition provider using the factory
// registered under entry.Name. Returns [ErrProviderNotRegistered] if no
// factory has been registered for that name.
func (r *Registry) CreateASR(entry ProviderEntry) (asr.Provider, error) {
	r.mu.RLock()
	factory, ok := r.asr[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: asr/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateVAD instantiates a voice-activity classifier using the factory
// registered under entry.Name.
func (r *Registry) CreateVAD(entry ProviderEntry) (vad.Classifier, error) {
	r.mu.RLock()
	factory, ok := r.vad[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: vad/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreatePrimaryTranslation instantiates a glossary-capable translation
// provider using the factory registered under entry.Name.
func (r *Registry) CreatePrimaryTranslation(entry ProviderEntry) (translation.GlossaryProvider, error) {
	r.mu.RLock()
	factory, ok := r.primary[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: translation_primary/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateFallbackTranslation instantiates a plain translation provider using
// the factory registered under entry.Name.
func (r *Registry) CreateFallbackTranslation(entry ProviderEntry) (translation.Provider, error) {
	r.mu.RLock()
	factory, ok := r.fallback[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: translation_fallback/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
