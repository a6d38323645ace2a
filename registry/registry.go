// Package registry implements the provider store underlying a container
// hierarchy. Each container owns one Registry; a child Registry delegates
// lookups to its parent only when it holds no matching provider at all, so
// an empty local match set is meaningful and is never merged with the
// parent's.
package registry

import (
	"fmt"
	"reflect"
)

// Provider is a single source of values for a declared type. The container
// registers eager, lazy and array-valued implementations; the registry only
// cares that each one knows its declared type, can be forced into a value,
// and can describe itself for error messages.
type Provider interface {
	// Type reports the declared type the provider was registered under.
	Type() reflect.Type

	// Value forces the provider: eager providers hand back their instance,
	// lazy providers build or replay a cached build, array providers
	// materialize a fresh slice.
	Value() (any, error)

	fmt.Stringer
}

// Registry stores the providers of one container in registration order.
type Registry struct {
	parent    *Registry
	providers []Provider
}

// New creates a new Registry. parent may be nil for a root registry.
func New(parent *Registry) *Registry {
	return &Registry{parent: parent}
}

// Parent returns the parent registry, or nil at the root.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Len reports how many providers are registered locally.
func (r *Registry) Len() int {
	return len(r.providers)
}

// Add appends a provider. Registration order is preserved: lookups and
// array materialization report earlier registrations first.
func (r *Registry) Add(p Provider) {
	r.providers = append(r.providers, p)
}

// Lookup returns the providers matching query, walking toward the root
// until some registry holds at least one match. The nearest registry with
// any match answers alone; ancestors are consulted only on total absence,
// and descendants are never consulted.
func (r *Registry) Lookup(query reflect.Type) []Provider {
	if local := r.LookupLocal(query); len(local) > 0 {
		return local
	}
	if r.parent != nil {
		return r.parent.Lookup(query)
	}
	return nil
}

// LookupLocal returns the local providers matching query, in registration
// order, without consulting the parent.
func (r *Registry) LookupLocal(query reflect.Type) []Provider {
	var matched []Provider
	for _, p := range r.providers {
		if Matches(p.Type(), query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// DropAll removes every local provider matching query and returns the
// removed providers in their original order. The parent is untouched:
// dropping is a local edit, and a lookup that afterwards finds nothing
// locally falls through to the parent again.
func (r *Registry) DropAll(query reflect.Type) []Provider {
	var kept, dropped []Provider
	for _, p := range r.providers {
		if Matches(p.Type(), query) {
			dropped = append(dropped, p)
		} else {
			kept = append(kept, p)
		}
	}
	r.providers = kept
	return dropped
}

// Matches reports whether a provider declared as declared serves a request
// for query. Three forms match: the exact type, an interface the declared
// type implements, and the pointed-to type of a declared pointer, so a *T
// provider answers requests for T. The pointer rule is one-directional: a
// T provider never answers requests for *T.
func Matches(declared, query reflect.Type) bool {
	if declared == nil || query == nil {
		return false
	}
	if declared == query {
		return true
	}
	if query.Kind() == reflect.Interface && declared.Implements(query) {
		return true
	}
	if declared.Kind() == reflect.Ptr && declared.Elem() == query {
		return true
	}
	return false
}
