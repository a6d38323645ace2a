package hernia

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Test types for build and caching behavior. bldA and bldB form a cycle
// through their first constructors; bldB's second constructor breaks it
// once primitive providers exist.
type bldA struct{ b *bldB }

type bldB struct {
	a    *bldA
	host string
	port int
}

type bldReporter interface {
	Report() string
}

type bldSvc struct{ id int }

func (s *bldSvc) Report() string { return fmt.Sprintf("svc-%d", s.id) }

func newBldA(b *bldB) *bldA {
	return &bldA{b: b}
}

func newBldBFromA(a *bldA) *bldB {
	return &bldB{a: a}
}

func newBldBFromConfig(host string, port int) *bldB {
	return &bldB{host: host, port: port}
}

// TestLazyMemoization verifies a successful build runs once and is replayed
// for every later request, whatever type the request names.
func TestLazyMemoization(t *testing.T) {
	t.Parallel()

	built := 0
	c := New()
	require.NoError(t, c.AddType(func() *bldSvc {
		built++
		return &bldSvc{id: built}
	}))

	first, err := Get[*bldSvc](c)
	require.NoError(t, err)
	second, err := Get[*bldSvc](c)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Requests through an interface hit the same provider and instance.
	viaIface, err := Get[bldReporter](c)
	require.NoError(t, err)
	assert.Same(t, bldReporter(first), viaIface)
	assert.Equal(t, 1, built)
}

// TestCycleDetectedThenRepaired follows a full failure-and-repair arc.
// First the only satisfiable constructor pair forms a cycle, reported with
// the in-progress chain. Then primitive providers make the alternative
// constructor greedier, and the very same request succeeds because the
// failed build cached nothing.
func TestCycleDetectedThenRepaired(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddType(newBldA))
	require.NoError(t, c.AddType(newBldBFromA, newBldBFromConfig))

	_, err := Get[*bldA](c)
	var cycle *CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	require.Len(t, cycle.Path, 3)
	assert.Contains(t, cycle.Path[0], "newBldA")
	assert.Contains(t, cycle.Path[1], "newBldBFromA")
	assert.Contains(t, cycle.Path[2], "newBldA")

	// Repair the registry: with host and port available, newBldBFromConfig
	// binds two providers and beats the one-provider cycle constructor.
	require.NoError(t, c.Add("localhost"))
	require.NoError(t, c.Add(8080))

	a, err := Get[*bldA](c)
	require.NoError(t, err)
	require.NotNil(t, a.b)
	assert.Equal(t, "localhost", a.b.host)
	assert.Equal(t, 8080, a.b.port)
	assert.Nil(t, a.b.a)
}

// TestCycleLoggedAtDebug verifies a detected cycle reaches the container's
// logger, carrying the same chain the error reports.
func TestCycleLoggedAtDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c := New(WithLogger(zap.New(core)))
	require.NoError(t, c.AddType(newBldA))
	require.NoError(t, c.AddType(newBldBFromA))

	_, err := Get[*bldA](c)
	var cycle *CircularDependencyError
	require.ErrorAs(t, err, &cycle)

	entries := logs.FilterMessage("dependency cycle detected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "*hernia.bldA", fields["type"])
	path, ok := fields["path"].([]interface{})
	require.True(t, ok)
	require.Len(t, path, len(cycle.Path))
	assert.Equal(t, cycle.Path[0], path[0])
}

// TestFactoryFailureNotCached verifies error results are never cached: the
// factory reruns until it succeeds, then the success is replayed.
func TestFactoryFailureNotCached(t *testing.T) {
	t.Parallel()

	attempts := 0
	c := New()
	require.NoError(t, c.AddFactory(func() (*bldSvc, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("warming up")
		}
		return &bldSvc{id: attempts}, nil
	}))

	_, err := Get[*bldSvc](c)
	require.EqualError(t, err, "warming up")

	svc, err := Get[*bldSvc](c)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.id)

	again, err := Get[*bldSvc](c)
	require.NoError(t, err)
	assert.Same(t, svc, again)
	assert.Equal(t, 2, attempts)
}

func TestConstructorErrorPropagates(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddType(func() (*bldSvc, error) {
		return nil, errors.New("no capacity")
	}))

	_, err := Get[*bldSvc](c)
	assert.EqualError(t, err, "no capacity")
}

// TestArraySeesLaterRegistrations pins the array freshness rule: a built
// consumer keeps the slice it was built with, while a consumer built after
// a new element registration sees the longer list.
func TestArraySeesLaterRegistrations(t *testing.T) {
	t.Parallel()

	type joinFirst struct{ parts []string }
	type joinSecond struct{ parts []string }

	c := New()
	require.NoError(t, c.Add("x"))
	require.NoError(t, c.Add("y"))
	require.NoError(t, c.AddType(func(parts []string) *joinFirst { return &joinFirst{parts: parts} }))
	require.NoError(t, c.AddType(func(parts []string) *joinSecond { return &joinSecond{parts: parts} }))

	first, err := Get[*joinFirst](c)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, first.parts)

	require.NoError(t, c.Add("z"))

	// Already built: the cached instance is untouched.
	firstAgain, err := Get[*joinFirst](c)
	require.NoError(t, err)
	assert.Same(t, first, firstAgain)
	assert.Equal(t, []string{"x", "y"}, firstAgain.parts)

	// Built after the registration: the fresh materialization sees z.
	second, err := Get[*joinSecond](c)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, second.parts)
}

// TestArrayBuildsAreIndependent verifies two materializations never share a
// backing array, even when their contents coincide.
func TestArrayBuildsAreIndependent(t *testing.T) {
	t.Parallel()

	type joinFirst struct{ parts []string }
	type joinSecond struct{ parts []string }

	c := New()
	require.NoError(t, c.Add("x"))
	require.NoError(t, c.Add("y"))
	require.NoError(t, c.AddType(func(parts []string) *joinFirst { return &joinFirst{parts: parts} }))
	require.NoError(t, c.AddType(func(parts []string) *joinSecond { return &joinSecond{parts: parts} }))

	first, err := Get[*joinFirst](c)
	require.NoError(t, err)
	second, err := Get[*joinSecond](c)
	require.NoError(t, err)

	first.parts[0] = "mutated"
	assert.Equal(t, "x", second.parts[0])
}

// TestArrayElementFailureAborts verifies a failing element build fails the
// whole materialization.
func TestArrayElementFailureAborts(t *testing.T) {
	t.Parallel()

	type gather struct{ svcs []*bldSvc }

	c := New()
	require.NoError(t, c.AddFactory(func() (*bldSvc, error) { return nil, errors.New("element down") }))
	require.NoError(t, c.AddType(func(svcs []*bldSvc) *gather { return &gather{svcs: svcs} }))

	_, err := Get[*gather](c)
	assert.EqualError(t, err, "element down")
}

// TestNilFactoryResult verifies a factory may produce nil: the nil is
// cached like any success and surfaces as a nil value without error.
func TestNilFactoryResult(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.AddFactory(func() bldReporter { return nil }))

	got, err := Get[bldReporter](c)
	require.NoError(t, err)
	assert.Nil(t, got)
}
