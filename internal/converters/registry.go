package converters

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// BuilderFunc creates a converter for one flow.
type BuilderFunc func(opts base.Options) driven.Converter

// Registry maps converter identifiers to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a converter builder under name, replacing any previous one.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// RegisterFunc adds a converter that is a plain function.
func (r *Registry) RegisterFunc(name string, fn driven.ConverterFunc) {
	r.builders[name] = func(base.Options) driven.Converter { return fn }
}

// Build creates the converter registered under name.
func (r *Registry) Build(name string, opts base.Options) (driven.Converter, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConverterNotRegistered, name)
	}
	return builder(opts), nil
}

// Has returns true if a converter is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver builds converters for flows, injecting the shared packaging
// lookup and scoping it to the flow's owner and project.
type Resolver struct {
	registry *Registry
	lookup   driven.PackagingLookup
	now      func() time.Time
	logger   *zap.Logger
}

var _ driven.ConverterResolver = (*Resolver)(nil)

// NewResolver creates a resolver over registry. lookup may be nil.
func NewResolver(registry *Registry, lookup driven.PackagingLookup, now func() time.Time, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{registry: registry, lookup: lookup, now: now, logger: logger}
}

// Resolve implements driven.ConverterResolver.
func (r *Resolver) Resolve(flow domain.FlowDefinition) (driven.Converter, error) {
	owner, project := flow.PackagingOwner()
	return r.registry.Build(flow.Converter, base.Options{
		Lookup:  r.lookup,
		Owner:   owner,
		Project: project,
		Now:     r.now,
		Logger:  r.logger.With(zap.String("converter", flow.Converter)),
	})
}

// Names implements driven.ConverterResolver.
func (r *Resolver) Names() []string {
	return r.registry.Names()
}
