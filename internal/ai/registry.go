package ai

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Config carries the connection settings a provider factory needs. Empty
// fields fall back to the factory's own defaults.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Factory builds a configured completion provider.
type Factory func(cfg Config, logger *zap.Logger) Provider

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry returns a registry with every built-in provider
// registered. DeepSeek is currently the only one.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("deepseek", func(cfg Config, logger *zap.Logger) Provider {
		return NewDeepSeekProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, logger)
	})
	return r
}

func (r *Registry) Register(name string, f Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Build instantiates the named provider. Lookup ignores case and
// surrounding whitespace.
func (r *Registry) Build(name string, cfg Config, logger *zap.Logger) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(cfg, logger), nil
}
