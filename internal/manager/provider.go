package manager

import (
	"sync"

	"go.uber.org/zap"
)

// Provider hands out a single Manager. The first Get constructs it, which
// loads the store and generates the artifact; later calls return the same
// instance, do no work and ignore their arguments.
type Provider struct {
	mu       sync.Mutex
	instance *Manager
}

// NewProvider creates an uninitialized provider
func NewProvider() *Provider {
	return &Provider{}
}

// Get returns the shared Manager, constructing it on first use
func (p *Provider) Get(opts Options, log *zap.Logger) *Manager {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.instance == nil {
		p.instance = New(opts, log)
	}
	return p.instance
}

// Initialized reports whether a Manager has been constructed
func (p *Provider) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.instance != nil
}

// Reset drops the shared Manager so the next Get constructs a new one
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instance = nil
}

var defaultProvider = NewProvider()

// Instance returns the process-wide Manager, constructing it from opts on
// first use
func Instance(opts Options, log *zap.Logger) *Manager {
	return defaultProvider.Get(opts, log)
}

// Default returns the process-wide provider
func Default() *Provider {
	return defaultProvider
}
