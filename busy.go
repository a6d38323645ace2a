package hernia

import "fmt"

// busyTracker records the providers currently mid-build. One tracker spans
// a whole container hierarchy, so a build chain that wanders across parent
// and child containers is still a single chain.
type busyTracker struct {
	stack []*busyEntry
}

type busyEntry struct {
	prov *lazyProvider
	inv  *invocation // chosen constructor; nil until selection finishes
}

func newBusyTracker() *busyTracker {
	return &busyTracker{}
}

// enter marks a provider as building. Re-entering a provider already on
// the stack means its build depends on itself, and fails with the chain
// that closed the cycle.
func (b *busyTracker) enter(p *lazyProvider) error {
	for _, e := range b.stack {
		if e.prov == p {
			return &CircularDependencyError{Path: b.path(p)}
		}
	}
	b.stack = append(b.stack, &busyEntry{prov: p})
	return nil
}

// note records the constructor selected for a building provider, so cycle
// paths can name constructors instead of bare types.
func (b *busyTracker) note(p *lazyProvider, inv *invocation) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].prov == p {
			b.stack[i].inv = inv
			return
		}
	}
}

func (b *busyTracker) exit(p *lazyProvider) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].prov == p {
			b.stack = append(b.stack[:i], b.stack[i+1:]...)
			return
		}
	}
}

// path renders the in-progress chain from the outermost build inward,
// closing with the provider that was reached a second time.
func (b *busyTracker) path(repeat *lazyProvider) []string {
	path := make([]string, 0, len(b.stack)+1)
	for _, e := range b.stack {
		path = append(path, e.describe())
	}
	for _, e := range b.stack {
		if e.prov == repeat {
			path = append(path, e.describe())
			break
		}
	}
	return path
}

func (e *busyEntry) describe() string {
	if e.inv != nil {
		return fmt.Sprintf("%v via %s", e.prov.typ, e.inv)
	}
	return e.prov.String()
}
