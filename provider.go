package hernia

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/combatopera/Hernia/registry"
)

// providerKind distinguishes the provider families in logs, descriptions
// and introspection output.
type providerKind int

const (
	eagerKind providerKind = iota
	lazyKind
	arrayKind
)

func (k providerKind) String() string {
	switch k {
	case eagerKind:
		return "eager"
	case lazyKind:
		return "lazy"
	case arrayKind:
		return "array"
	}
	return "unknown"
}

// eagerProvider wraps an instance registered with Add. It is always ready;
// forcing it never fails.
type eagerProvider struct {
	typ   reflect.Type
	value any
}

func newEagerProvider(value any) *eagerProvider {
	return &eagerProvider{typ: reflect.TypeOf(value), value: value}
}

func (p *eagerProvider) Type() reflect.Type {
	return p.typ
}

func (p *eagerProvider) Value() (any, error) {
	return p.value, nil
}

func (p *eagerProvider) String() string {
	return fmt.Sprintf("%s provider of %v", eagerKind, p.typ)
}

// chooser runs invocation selection for a lazy provider. It runs on every
// build attempt, so selection always sees the registry as it is now, not as
// it was at registration time.
type chooser func() (*invocation, error)

// lazyProvider defers construction to first use. A successful build is
// cached for the provider's lifetime; a failed build caches nothing, so a
// later registration can repair the graph and the same provider can then
// succeed.
type lazyProvider struct {
	typ    reflect.Type
	origin string // constructor or factory names, for listings
	choose chooser
	busy   *busyTracker
	log    *zap.Logger
	built  bool
	value  any
}

func (p *lazyProvider) Type() reflect.Type {
	return p.typ
}

// Value builds on first use and replays the cached instance afterwards.
func (p *lazyProvider) Value() (any, error) {
	if p.built {
		return p.value, nil
	}
	if err := p.busy.enter(p); err != nil {
		if cycle, ok := err.(*CircularDependencyError); ok {
			p.log.Debug("dependency cycle detected",
				zap.Stringer("type", p.typ),
				zap.Strings("path", cycle.Path))
		}
		return nil, err
	}
	defer p.busy.exit(p)

	inv, err := p.choose()
	if err != nil {
		return nil, err
	}
	p.busy.note(p, inv)

	value, err := inv.call()
	if err != nil {
		return nil, err
	}
	p.value = value
	p.built = true
	p.log.Debug("provider built",
		zap.Stringer("type", p.typ),
		zap.Stringer("via", inv))
	return value, nil
}

func (p *lazyProvider) String() string {
	return fmt.Sprintf("%s provider of %v (%s)", lazyKind, p.typ, p.origin)
}

// arrayProvider materializes the current slice of values for an element
// type. It is ephemeral: every force re-queries the registry and builds a
// fresh slice, so registrations made after one build appear in the next,
// and no two builds share a backing array.
type arrayProvider struct {
	elem reflect.Type
	reg  *registry.Registry
}

func newArrayProvider(elem reflect.Type, reg *registry.Registry) *arrayProvider {
	return &arrayProvider{elem: elem, reg: reg}
}

func (p *arrayProvider) Type() reflect.Type {
	return reflect.SliceOf(p.elem)
}

func (p *arrayProvider) Value() (any, error) {
	providers := p.reg.Lookup(p.elem)
	slice := reflect.MakeSlice(reflect.SliceOf(p.elem), 0, len(providers))
	for _, ep := range providers {
		v, err := ep.Value()
		if err != nil {
			return nil, err
		}
		rv, err := coerce(v, p.elem, ep)
		if err != nil {
			return nil, err
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func (p *arrayProvider) String() string {
	return fmt.Sprintf("%s provider of %v", arrayKind, p.Type())
}

// coerce adapts a provider's value to the requested type. Values assignable
// to want pass through; a pointer value satisfies a request for its element
// type by dereference.
func coerce(v any, want reflect.Type, from registry.Provider) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		if nilableKind(want) {
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("%s produced a nil value for %v", from, want)
	}
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == want {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%s produced a nil %v, cannot dereference to %v", from, rv.Type(), want)
		}
		return rv.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("%s produced %v, which does not satisfy %v", from, rv.Type(), want)
}

func nilableKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return true
	}
	return false
}
