package export

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

const (
	EngineMaroto      = "maroto"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// PDFRenderer turns an assembled report into a PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, rc *domain.ReportContext) ([]byte, error)
}

// EngineDeps are handed to every engine factory.
type EngineDeps struct {
	HTML *HTMLRenderer
}

// EngineFactory builds a PDF engine.
type EngineFactory func(deps EngineDeps) (PDFRenderer, error)

// EngineRegistry manages the available PDF engines
type EngineRegistry interface {
	// Register adds a new engine factory
	Register(name string, factory EngineFactory) error
	// Create instantiates the named engine
	Create(name string, deps EngineDeps) (PDFRenderer, error)
	// ListEngines returns the registered engine names, sorted
	ListEngines() []string
}

type engineRegistry struct {
	mu        sync.RWMutex
	factories map[string]EngineFactory
}

func NewEngineRegistry() EngineRegistry {
	return &engineRegistry{
		factories: make(map[string]EngineFactory),
	}
}

// DefaultEngines returns a registry with every built-in engine registered.
func DefaultEngines() EngineRegistry {
	r := NewEngineRegistry()
	_ = r.Register(EngineMaroto, func(EngineDeps) (PDFRenderer, error) {
		return NewMarotoRenderer(), nil
	})
	_ = r.Register(EngineWkhtmltopdf, func(deps EngineDeps) (PDFRenderer, error) {
		return NewWkhtmlRenderer(deps.HTML)
	})
	return r
}

func (r *engineRegistry) Register(name string, factory EngineFactory) error {
	if name == "" {
		return fmt.Errorf("engine name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("engine %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *engineRegistry) Create(name string, deps EngineDeps) (PDFRenderer, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("pdf engine %q is not registered", name)
	}

	return factory(deps)
}

func (r *engineRegistry) ListEngines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
