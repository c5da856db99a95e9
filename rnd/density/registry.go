package density

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cwbudde/algo-rnd/rnd/interp"
)

// Factory builds an estimator from options.
type Factory func(opts ...Option) (Estimator, error)

// Registry maps method names to estimator factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func smileFactory(kind interp.Kind) Factory {
	return func(opts ...Option) (Estimator, error) {
		return NewSmile(kind, opts...)
	}
}

// NewRegistry returns a registry holding the built-in chain estimators:
// direct, spline, pchip, quadratic and mixture.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("direct", func(opts ...Option) (Estimator, error) { return NewDirect(opts...) })
	r.Register("mixture", func(opts ...Option) (Estimator, error) { return NewMixture(opts...) })
	r.Register(string(interp.KindSpline), smileFactory(interp.KindSpline))
	r.Register(string(interp.KindPCHIP), smileFactory(interp.KindPCHIP))
	r.Register(string(interp.KindQuadratic), smileFactory(interp.KindQuadratic))
	return r
}

// Register adds or replaces a factory. Names are case-insensitive.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return f, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the estimator registered under name.
func (r *Registry) New(name string, opts ...Option) (Estimator, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(opts...)
}

var defaultRegistry = NewRegistry()

// Register adds a factory to the default registry.
func Register(name string, f Factory) { defaultRegistry.Register(name, f) }

// Lookup finds a factory in the default registry.
func Lookup(name string) (Factory, error) { return defaultRegistry.Lookup(name) }

// Names lists the default registry.
func Names() []string { return defaultRegistry.Names() }

// New builds an estimator from the default registry.
func New(name string, opts ...Option) (Estimator, error) { return defaultRegistry.New(name, opts...) }
