package catalog

import (
	"fmt"
	"reflect"
)

// Param describes one formal parameter of a constructor.
type Param struct {
	// Index is the parameter's position, starting at zero.
	Index int

	// Type is the parameter type as declared. Array and variadic
	// parameters report their slice type ([]E).
	Type reflect.Type

	// IsArray marks slice parameters, which collect every provider of the
	// element type instead of wanting a single provider of the slice type.
	IsArray bool

	// Variadic marks the trailing ...E parameter of a variadic function.
	// Variadic parameters are optional arrays: no element providers means
	// an empty slice, not a failure.
	Variadic bool

	desc string
}

// Elem returns the element type for array parameters and Type otherwise.
func (p Param) Elem() reflect.Type {
	if p.IsArray {
		return p.Type.Elem()
	}
	return p.Type
}

// Nilable reports whether the parameter can be satisfied without any
// provider. Variadic parameters fall back to an empty slice; pointer,
// interface, map, channel and function parameters fall back to a typed nil.
// Value kinds and non-variadic slices are required.
func (p Param) Nilable() bool {
	if p.Variadic {
		return true
	}
	if p.IsArray {
		return false
	}
	switch p.Type.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

// Fallback returns the value used when no provider serves the parameter.
// Non-nilable parameters return an error wrapping ErrNoFallback.
func (p Param) Fallback() (reflect.Value, error) {
	if !p.Nilable() {
		return reflect.Value{}, fmt.Errorf("%s: %w", p.desc, ErrNoFallback)
	}
	return reflect.Zero(p.Type), nil
}

// String renders the parameter with its position and owner, for error
// messages.
func (p Param) String() string {
	return p.desc
}

// Constructor is one invocable way to produce a value: a constructor
// function, a factory function, or the synthetic field-assigning
// constructor derived from a struct prototype.
type Constructor struct {
	params []Param
	out    reflect.Type
	desc   string
	call   func(args []reflect.Value) (any, error)
}

// Params returns the formal parameters in declaration order.
func (k *Constructor) Params() []Param {
	return k.params
}

// Out returns the produced type.
func (k *Constructor) Out() reflect.Type {
	return k.out
}

// Call invokes the constructor with one value per parameter. Array and
// variadic parameters receive their whole slice as a single value. An error
// result from the underlying function is returned as-is.
func (k *Constructor) Call(args []reflect.Value) (any, error) {
	return k.call(args)
}

// String returns the constructor's package-qualified name.
func (k *Constructor) String() string {
	return k.desc
}
