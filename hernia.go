package hernia

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/combatopera/Hernia/catalog"
	"github.com/combatopera/Hernia/registry"
)

// Container resolves object graphs from registered providers. Register
// instances with Add, buildable types with AddType, factory functions with
// AddFactory, then request values with Get, GetOrNil or GetAll. Nest
// containers with Child.
//
// A Container is not safe for concurrent use. Separate hierarchies are
// independent and may live on separate goroutines.
type Container struct {
	reg      *registry.Registry
	busy     *busyTracker
	cat      *catalog.Catalog
	parent   *Container
	log      *zap.Logger
	name     string
	children int
	modules  []*moduleEntry
}

// New creates a root container.
//
// Example:
//
//	c := hernia.New(hernia.WithLogger(logger))
func New(opts ...Option) *Container {
	c := &Container{
		reg:  registry.New(nil),
		busy: newBusyTracker(),
		cat:  catalog.New(),
		log:  zap.NewNop(),
		name: "root",
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(fmt.Sprintf("hernia: invalid option: %v", err))
		}
	}
	return c
}

// Add registers obj as an always-ready provider of its dynamic type. The
// instance also answers requests for every interface it implements, and a
// pointer instance answers requests for its element type.
//
// Example:
//
//	c.Add(&Config{Addr: ":8080"})
//	cfg, err := hernia.Get[*Config](c)
func (c *Container) Add(obj any) error {
	if obj == nil {
		return &InvalidRegistrationError{Reason: "cannot register a nil instance"}
	}
	p := newEagerProvider(obj)
	c.reg.Add(p)
	c.log.Debug("provider registered",
		zap.String("container", c.name),
		zap.Stringer("kind", eagerKind),
		zap.Stringer("type", p.typ))
	return nil
}

// AddType registers a buildable type. spec is either one struct prototype
// (Widget{}, &Widget{}, or a reflect.Type), whose exported fields become
// the parameters of a synthetic constructor, or one or more constructor
// functions that all produce the same concrete type.
//
// Construction is deferred to first request. At that point the candidate
// that can consume the most registered providers is selected and invoked;
// see Get for the selection rules.
//
// Example:
//
//	c.AddType(NewServer, NewServerFromConfig)
//	c.AddType(&Worker{})
func (c *Container) AddType(spec ...any) error {
	con, err := c.cat.Concrete(spec...)
	if err != nil {
		return err
	}
	c.addLazy(c.lazyForType(con))
	return nil
}

// AddFactory registers fn as a deferred provider of its declared result
// type. Factories are how interface-typed providers enter the container:
// the declared result, not the dynamic type of what fn returns, is what
// lookups match against. Factory parameters resolve like constructor
// parameters.
//
// Example:
//
//	c.AddFactory(func(cfg *Config) (Store, error) { return OpenStore(cfg.DSN) })
func (c *Container) AddFactory(fn any) error {
	f, err := c.cat.Factory(fn)
	if err != nil {
		return err
	}
	c.addLazy(c.lazyForFactory(f))
	return nil
}

// lazyForType wraps a Concrete in a lazy provider whose parameters resolve
// through this container, the one the registration was made on.
func (c *Container) lazyForType(con *catalog.Concrete) *lazyProvider {
	ctors := con.Constructors()
	names := make([]string, len(ctors))
	for i, ctor := range ctors {
		names[i] = ctor.String()
	}
	return &lazyProvider{
		typ:    con.Type(),
		origin: strings.Join(names, ", "),
		busy:   c.busy,
		log:    c.log,
		choose: func() (*invocation, error) {
			return c.selectInvocation(con.Type(), ctors)
		},
	}
}

// lazyForFactory wraps a Factory in a lazy provider registered under the
// factory's declared result type.
func (c *Container) lazyForFactory(f *catalog.Factory) *lazyProvider {
	ctor := f.Constructor()
	return &lazyProvider{
		typ:    f.Out(),
		origin: "factory " + ctor.String(),
		busy:   c.busy,
		log:    c.log,
		choose: func() (*invocation, error) {
			return c.selectInvocation(f.Out(), []*catalog.Constructor{ctor})
		},
	}
}

func (c *Container) addLazy(p *lazyProvider) {
	c.reg.Add(p)
	c.log.Debug("provider registered",
		zap.String("container", c.name),
		zap.Stringer("kind", lazyKind),
		zap.Stringer("type", p.typ))
}

// ReplaceObject drops every provider this container holds for service and
// registers obj in their place. Ancestor providers are untouched; the
// replacement shadows them for this container and its descendants.
func (c *Container) ReplaceObject(service, obj any) error {
	t, err := serviceType(service)
	if err != nil {
		return err
	}
	if obj == nil {
		return &InvalidRegistrationError{Reason: "cannot register a nil instance"}
	}
	c.drop(t)
	return c.Add(obj)
}

// ReplaceType drops every provider this container holds for service and
// registers a buildable type in their place. spec follows AddType.
func (c *Container) ReplaceType(service any, spec ...any) error {
	t, err := serviceType(service)
	if err != nil {
		return err
	}
	con, err := c.cat.Concrete(spec...)
	if err != nil {
		return err
	}
	c.drop(t)
	c.addLazy(c.lazyForType(con))
	return nil
}

// ReplaceFactory drops every provider this container holds for service and
// registers a factory in their place. fn follows AddFactory.
func (c *Container) ReplaceFactory(service, fn any) error {
	t, err := serviceType(service)
	if err != nil {
		return err
	}
	f, err := c.cat.Factory(fn)
	if err != nil {
		return err
	}
	c.drop(t)
	c.addLazy(c.lazyForFactory(f))
	return nil
}

// Get resolves the single visible provider for service and returns its
// value, building it if needed.
//
// Lazy providers select among their constructors greedily: every candidate
// whose parameters can all be bound is scored by how many providers it
// binds, the highest score wins, and a tie is an error. A successful build
// is cached on the provider; a failed build is not, so selection reruns on
// the next request against the registry as it stands then.
//
// The service token is a reflect.Type, a nil interface pointer such as
// (*Store)(nil) meaning the interface Store, or any other value meaning its
// own dynamic type.
func (c *Container) Get(service any) (any, error) {
	t, err := serviceType(service)
	if err != nil {
		return nil, err
	}
	return c.get(t)
}

func (c *Container) get(t reflect.Type) (any, error) {
	providers := c.reg.Lookup(t)
	switch len(providers) {
	case 0:
		return nil, &MissingProviderError{Type: t}
	case 1:
		v, err := providers[0].Value()
		if err != nil {
			return nil, err
		}
		rv, err := coerce(v, t, providers[0])
		if err != nil {
			return nil, err
		}
		return rv.Interface(), nil
	default:
		return nil, &TooManyProvidersError{Type: t, Providers: describeAll(providers)}
	}
}

// GetOrNil is Get, except a total absence of providers yields nil instead
// of an error. Every other failure, ambiguity included, still surfaces.
func (c *Container) GetOrNil(service any) (any, error) {
	t, err := serviceType(service)
	if err != nil {
		return nil, err
	}
	if len(c.reg.Lookup(t)) == 0 {
		return nil, nil
	}
	return c.get(t)
}

// GetAll resolves every visible provider for service, in registration
// order. No visible providers is an empty result, not an error. Note that
// visibility follows the nearest-container rule: as soon as some container
// on the path to the root holds any provider for the type, only that
// container's providers are materialized.
func (c *Container) GetAll(service any) ([]any, error) {
	t, err := serviceType(service)
	if err != nil {
		return nil, err
	}
	providers := c.reg.Lookup(t)
	values := make([]any, 0, len(providers))
	for _, p := range providers {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		rv, err := coerce(v, t, p)
		if err != nil {
			return nil, err
		}
		values = append(values, rv.Interface())
	}
	return values, nil
}

// Providers describes the providers visible for service, in registration
// order. Introspection only: nothing is built.
func (c *Container) Providers(service any) []string {
	t, err := serviceType(service)
	if err != nil {
		return nil
	}
	return describeAll(c.reg.Lookup(t))
}

// drop removes this container's providers for t, logging when anything was
// actually removed.
func (c *Container) drop(t reflect.Type) {
	if dropped := c.reg.DropAll(t); len(dropped) > 0 {
		c.log.Debug("providers dropped",
			zap.String("container", c.name),
			zap.Stringer("type", t),
			zap.Int("count", len(dropped)))
	}
}

// serviceType extracts the requested type from a service token. Three forms
// are accepted: a reflect.Type itself, a pointer to an interface such as
// (*Store)(nil) meaning the interface type, and any other value, which
// stands for its own dynamic type (&Widget{} means *Widget).
func serviceType(service any) (reflect.Type, error) {
	switch token := service.(type) {
	case nil:
		return nil, &InvalidTokenError{Reason: "token must not be nil"}
	case reflect.Type:
		return token, nil
	default:
		t := reflect.TypeOf(token)
		if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
			return t.Elem(), nil
		}
		return t, nil
	}
}

// Get resolves T from the container with a typed result.
//
// Example:
//
//	store, err := hernia.Get[Store](c)
func Get[T any](c *Container) (T, error) {
	var zero T
	v, err := c.Get(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// GetOrNil resolves T, returning the zero value without error when no
// provider is visible.
func GetOrNil[T any](c *Container) (T, error) {
	var zero T
	v, err := c.GetOrNil(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// GetAll resolves every visible provider of T with typed results.
func GetAll[T any](c *Container) ([]T, error) {
	values, err := c.GetAll(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	typed := make([]T, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		typed[i] = v.(T)
	}
	return typed, nil
}

// MustGet resolves T or panics. For wiring code where a missing provider is
// a programming error.
func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
