package hernia

import (
	"fmt"
	"reflect"
	"strings"
)

// MissingProviderError is returned when no visible provider serves a
// requested type. For carries the parameter that wanted the type when the
// request came from constructor binding rather than a direct Get.
type MissingProviderError struct {
	Type reflect.Type
	For  string
}

func (e *MissingProviderError) Error() string {
	if e.For != "" {
		return fmt.Sprintf("no provider for %v wanted by %s", e.Type, e.For)
	}
	return fmt.Sprintf("no provider for %v. Did you forget to register it with Add, AddType or AddFactory?", e.Type)
}

// TooManyProvidersError is returned when a single-value request matches
// more than one provider. Use GetAll for the whole list, or narrow the
// registrations.
type TooManyProvidersError struct {
	Type      reflect.Type
	Providers []string
	For       string
}

func (e *TooManyProvidersError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d providers for %v", len(e.Providers), e.Type)
	if e.For != "" {
		fmt.Fprintf(&b, " wanted by %s", e.For)
	}
	b.WriteString(": ")
	b.WriteString(strings.Join(e.Providers, ", "))
	return b.String()
}

// UnsatisfiableArrayError is returned when a non-variadic slice parameter
// finds no provider at all for its element type. Slice parameters collect
// every provider of the element type, and an empty collection is only
// acceptable for variadic parameters.
type UnsatisfiableArrayError struct {
	Elem reflect.Type
	For  string
}

func (e *UnsatisfiableArrayError) Error() string {
	return fmt.Sprintf("no providers for element type %v wanted by required slice %s", e.Elem, e.For)
}

// UnsatisfiedTypeError is returned when every candidate constructor for a
// type failed parameter binding. Failures holds one error per failed
// candidate in registration order; the first is the primary cause.
type UnsatisfiedTypeError struct {
	Type     reflect.Type
	Failures []error
}

func (e *UnsatisfiedTypeError) Error() string {
	switch len(e.Failures) {
	case 0:
		return fmt.Sprintf("cannot satisfy any constructor of %v", e.Type)
	case 1:
		return fmt.Sprintf("cannot satisfy any constructor of %v: %v", e.Type, e.Failures[0])
	}
	return fmt.Sprintf("cannot satisfy any constructor of %v: %v (and %d more)", e.Type, e.Failures[0], len(e.Failures)-1)
}

// Unwrap exposes the per-constructor failures to errors.Is and errors.As.
func (e *UnsatisfiedTypeError) Unwrap() []error {
	return e.Failures
}

// AmbiguousConstructorError is returned when constructor selection ends in
// a tie: two or more satisfiable candidates bind the same, highest number
// of providers, so no unique greediest constructor exists.
type AmbiguousConstructorError struct {
	Type       reflect.Type
	Candidates []string
	Count      int
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("no unique greediest constructor for %v: %s each bind %d providers",
		e.Type, strings.Join(e.Candidates, " and "), e.Count)
}

// CircularDependencyError is returned when a build reaches a provider that
// is already being built. Path lists the in-progress constructors from the
// outermost build down to, and closing with, the provider that was reached
// a second time.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// InvalidRegistrationError is returned when a registration argument cannot
// be accepted, before anything is stored.
type InvalidRegistrationError struct {
	Reason string
}

func (e *InvalidRegistrationError) Error() string {
	return fmt.Sprintf("invalid registration: %s", e.Reason)
}

// InvalidTokenError is returned when a service token does not name a type.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid service token: %s", e.Reason)
}
