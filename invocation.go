package hernia

import (
	"reflect"

	"github.com/combatopera/Hernia/catalog"
	"github.com/combatopera/Hernia/registry"
)

// argSupplier produces the value for one bound parameter at call time.
type argSupplier interface {
	supply() (reflect.Value, error)
}

// providerArg forces a provider and coerces its value to the parameter
// type.
type providerArg struct {
	prov registry.Provider
	want reflect.Type
}

func (a providerArg) supply() (reflect.Value, error) {
	v, err := a.prov.Value()
	if err != nil {
		return reflect.Value{}, err
	}
	return coerce(v, a.want, a.prov)
}

// fallbackArg holds the typed nil or empty slice used when no provider
// serves a nilable parameter.
type fallbackArg struct {
	value reflect.Value
}

func (a fallbackArg) supply() (reflect.Value, error) {
	return a.value, nil
}

// invocation is a constructor with every parameter bound, ready to call.
// providerCount is the greed score: how many bindings are provider-backed,
// counting a provider once per parameter it feeds. Fallback-backed
// parameters count zero; an array binding counts one however many element
// providers feed it.
type invocation struct {
	ctor          *catalog.Constructor
	args          []argSupplier
	providerCount int
}

func (inv *invocation) call() (any, error) {
	values := make([]reflect.Value, len(inv.args))
	for i, arg := range inv.args {
		v, err := arg.supply()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return inv.ctor.Call(values)
}

func (inv *invocation) String() string {
	return inv.ctor.String()
}

// bind resolves every parameter of ctor against the container's current
// registry view. The first unbindable parameter fails the whole candidate.
func (c *Container) bind(ctor *catalog.Constructor) (*invocation, error) {
	params := ctor.Params()
	inv := &invocation{ctor: ctor, args: make([]argSupplier, len(params))}
	for i, param := range params {
		arg, backed, err := c.bindParam(param)
		if err != nil {
			return nil, err
		}
		inv.args[i] = arg
		if backed {
			inv.providerCount++
		}
	}
	return inv, nil
}

// bindParam picks the supplier for one parameter: an array provider for
// slice parameters with visible element providers, the sole matching
// provider otherwise, or the parameter's fallback when nothing matches and
// the parameter is nilable.
//
// Array bindings check only that element providers exist now; the member
// list is re-queried when the argument is materialized.
func (c *Container) bindParam(param catalog.Param) (argSupplier, bool, error) {
	if param.IsArray {
		if len(c.reg.Lookup(param.Elem())) > 0 {
			return providerArg{prov: newArrayProvider(param.Elem(), c.reg), want: param.Type}, true, nil
		}
		fb, err := param.Fallback()
		if err != nil {
			return nil, false, &UnsatisfiableArrayError{Elem: param.Elem(), For: param.String()}
		}
		return fallbackArg{value: fb}, false, nil
	}

	providers := c.reg.Lookup(param.Type)
	switch len(providers) {
	case 0:
		fb, err := param.Fallback()
		if err != nil {
			return nil, false, &MissingProviderError{Type: param.Type, For: param.String()}
		}
		return fallbackArg{value: fb}, false, nil
	case 1:
		return providerArg{prov: providers[0], want: param.Type}, true, nil
	default:
		return nil, false, &TooManyProvidersError{Type: param.Type, Providers: describeAll(providers), For: param.String()}
	}
}

// selectInvocation runs greedy constructor selection: bind every candidate,
// keep the ones that bind the most providers, and demand a unique winner.
// Binding failures are collected per candidate so later candidates still
// get their chance; they surface only when no candidate survives.
func (c *Container) selectInvocation(out reflect.Type, ctors []*catalog.Constructor) (*invocation, error) {
	var (
		winners  []*invocation
		failures []error
	)
	for _, ctor := range ctors {
		inv, err := c.bind(ctor)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		switch {
		case len(winners) == 0 || inv.providerCount > winners[0].providerCount:
			winners = append(winners[:0], inv)
		case inv.providerCount == winners[0].providerCount:
			winners = append(winners, inv)
		}
	}
	if len(winners) == 0 {
		return nil, &UnsatisfiedTypeError{Type: out, Failures: failures}
	}
	if len(winners) > 1 {
		names := make([]string, len(winners))
		for i, inv := range winners {
			names[i] = inv.String()
		}
		return nil, &AmbiguousConstructorError{Type: out, Candidates: names, Count: winners[0].providerCount}
	}
	return winners[0], nil
}

func describeAll(providers []registry.Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	return names
}
