package catalog

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoFallback marks a parameter that cannot be satisfied without a
// provider. Param.Fallback wraps it with the parameter's description.
var ErrNoFallback = errors.New("parameter has no fallback value")

// AbstractTypeError reports an attempt to register an interface as a
// buildable type. Interfaces cannot be instantiated; register an
// implementation, or a factory whose declared result is the interface.
type AbstractTypeError struct {
	Type reflect.Type
	Ctor string // constructor whose result was abstract, if one was given
}

func (e *AbstractTypeError) Error() string {
	if e.Ctor != "" {
		return fmt.Sprintf("cannot register abstract type %s: constructor %s returns an interface, use AddFactory for interface results", e.Type, e.Ctor)
	}
	return fmt.Sprintf("cannot register abstract type %s: interfaces cannot be instantiated", e.Type)
}

// NoConstructorError reports a type registration that yields no usable
// constructor.
type NoConstructorError struct {
	Type reflect.Type // nil when no usable registration input was supplied
}

func (e *NoConstructorError) Error() string {
	if e.Type == nil {
		return "no constructors supplied: need at least one constructor function or a non-nil struct prototype"
	}
	return fmt.Sprintf("type %s has no usable constructor: only struct types derive one from their fields", e.Type)
}

// MixedConstructorError reports constructor functions whose result types
// disagree. All constructors registered together must produce the same
// type.
type MixedConstructorError struct {
	Want reflect.Type
	Got  reflect.Type
	Ctor string
}

func (e *MixedConstructorError) Error() string {
	return fmt.Sprintf("constructor %s produces %s, but earlier constructors produce %s", e.Ctor, e.Got, e.Want)
}

// InvalidConstructorError reports a registration argument that is not a
// usable constructor function.
type InvalidConstructorError struct {
	Ctor   string
	Reason string
}

func (e *InvalidConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor %s: %s", e.Ctor, e.Reason)
}

// InvalidFactoryError reports a registration argument that is not a usable
// factory function.
type InvalidFactoryError struct {
	Factory string
	Reason  string
}

func (e *InvalidFactoryError) Error() string {
	return fmt.Sprintf("invalid factory %s: %s", e.Factory, e.Reason)
}

// UntypedFactoryError reports a factory whose declared result type is an
// empty interface. Such a result carries no type to register under, so the
// registration is rejected.
type UntypedFactoryError struct {
	Factory string
}

func (e *UntypedFactoryError) Error() string {
	return fmt.Sprintf("factory %s returns an empty interface: declare a concrete or method-bearing interface result", e.Factory)
}
