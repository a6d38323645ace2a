// Package hernia resolves object graphs from registered providers.
//
// Hernia is an object-graph resolution engine: a container holds providers
// for types, and requesting a type forces the matching provider into a
// value, building its dependencies recursively. Registration declares what
// exists; nothing is constructed until it is asked for.
//
// # Features
//
//   - Eager instances, constructor-built types and factory functions
//   - Greedy constructor selection: among the satisfiable candidates, the
//     one consuming the most registered providers wins
//   - Success-only caching: a failed build leaves the provider
//     rebuildable, so fixing the registry fixes the next request
//   - Slice parameters collect every provider of the element type
//   - Optional parameters: nilable kinds fall back to a typed nil,
//     variadic parameters to an empty slice
//   - Child containers that see their ancestors but stay invisible to them
//   - Circular dependency detection across the whole hierarchy
//   - Modules for packaging registrations, with an optional boot phase
//
// # Quick Start
//
// Create a container, register providers, request values:
//
//	c := hernia.New()
//	c.Add(&Config{Addr: ":8080"})
//	c.AddType(NewServer)
//	srv, err := hernia.Get[*Server](c)
//
// # Providers
//
// Add registers a ready instance under its dynamic type:
//
//	c.Add(&ConsoleLogger{})
//
// AddType registers a type built on demand, from constructor functions or
// from a struct prototype whose exported fields become dependencies:
//
//	c.AddType(NewUserService, NewUserServiceFromConfig)
//	c.AddType(&Worker{}) // fields of Worker are resolved from the container
//
// AddFactory registers a function whose declared result type, interfaces
// included, is what lookups match:
//
//	c.AddFactory(func(cfg *Config) (Store, error) { return OpenStore(cfg.DSN) })
//
// # Lookup
//
// A provider answers requests for its declared type and for every interface
// that type implements; a pointer provider also answers requests for the
// pointed-to type. Get wants exactly one visible provider, GetAll collects
// them all in registration order, and GetOrNil turns total absence into nil:
//
//	logger, err := hernia.Get[Logger](c)
//	handlers, err := hernia.GetAll[http.Handler](c)
//
// # Containers
//
// Child containers layer registrations without disturbing the parent. A
// lookup consults the parent only when the child has no provider at all for
// the type, and replacement operations edit only the container they are
// called on:
//
//	request := root.Child()
//	request.ReplaceObject((*Session)(nil), testSession)
//
// # Concurrency
//
// A container hierarchy is single-threaded: registration and resolution on
// the same hierarchy must not run concurrently. Distinct hierarchies are
// fully independent.
package hernia
