package hernia

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/combatopera/Hernia/catalog"
)

type errWidget struct{ n int }

func TestMissingProviderError_Message(t *testing.T) {
	t.Parallel()

	direct := &MissingProviderError{Type: reflect.TypeOf((**errWidget)(nil)).Elem()}
	assert.Contains(t, direct.Error(), "*hernia.errWidget")
	assert.Contains(t, direct.Error(), "Did you forget")

	wanted := &MissingProviderError{Type: reflect.TypeOf((*int)(nil)).Elem(), For: "parameter 0 (int) of hernia.newThing"}
	assert.Contains(t, wanted.Error(), "wanted by parameter 0")
	assert.NotContains(t, wanted.Error(), "Did you forget")
}

func TestTooManyProvidersError_Message(t *testing.T) {
	t.Parallel()

	err := &TooManyProvidersError{
		Type:      reflect.TypeOf((**errWidget)(nil)).Elem(),
		Providers: []string{"eager provider of *hernia.errWidget", "lazy provider of *hernia.errWidget (hernia.newErrWidget)"},
	}
	assert.Contains(t, err.Error(), "2 providers")
	assert.Contains(t, err.Error(), "eager provider")
	assert.Contains(t, err.Error(), "lazy provider")
}

func TestUnsatisfiedTypeError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := &MissingProviderError{Type: reflect.TypeOf((*int)(nil)).Elem()}
	err := &UnsatisfiedTypeError{
		Type:     reflect.TypeOf((**errWidget)(nil)).Elem(),
		Failures: []error{inner, &UnsatisfiableArrayError{Elem: reflect.TypeOf((*string)(nil)).Elem()}},
	}

	var missing *MissingProviderError
	assert.ErrorAs(t, err, &missing)
	assert.Same(t, inner, missing)

	var unsatisfiable *UnsatisfiableArrayError
	assert.ErrorAs(t, err, &unsatisfiable)

	assert.Contains(t, err.Error(), "and 1 more")
}

func TestCircularDependencyError_Message(t *testing.T) {
	t.Parallel()

	err := &CircularDependencyError{Path: []string{"A via newA", "B via newB", "A via newA"}}
	assert.Equal(t, "circular dependency detected: A via newA -> B via newB -> A via newA", err.Error())

	empty := &CircularDependencyError{}
	assert.Equal(t, "circular dependency detected", empty.Error())
}

func TestAmbiguousConstructorError_Message(t *testing.T) {
	t.Parallel()

	err := &AmbiguousConstructorError{
		Type:       reflect.TypeOf((**errWidget)(nil)).Elem(),
		Candidates: []string{"hernia.newA", "hernia.newB"},
		Count:      2,
	}
	assert.Contains(t, err.Error(), "no unique greediest constructor")
	assert.Contains(t, err.Error(), "hernia.newA and hernia.newB")
	assert.Contains(t, err.Error(), "bind 2 providers")
}

// TestCatalogErrorsSurfaceUnchanged verifies registration-time failures
// arrive as the catalog's own typed errors, not rewrapped.
func TestCatalogErrorsSurfaceUnchanged(t *testing.T) {
	t.Parallel()

	c := New()

	err := c.AddType(func() (int, string) { return 0, "" }, func() (int, string) { return 0, "" })
	var invalid *catalog.InvalidConstructorError
	assert.ErrorAs(t, err, &invalid)

	err = c.AddFactory(func() error { return nil })
	var badFactory *catalog.InvalidFactoryError
	assert.ErrorAs(t, err, &badFactory)
}

// TestFallbackSentinel verifies required parameters expose the catalog's
// sentinel through errors.Is.
func TestFallbackSentinel(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	con, err := cat.Concrete(func(n int) *errWidget { return &errWidget{n: n} })
	assert.NoError(t, err)

	_, err = con.Constructors()[0].Params()[0].Fallback()
	assert.True(t, errors.Is(err, catalog.ErrNoFallback))
}

func TestRegistrationErrors_Messages(t *testing.T) {
	t.Parallel()

	reg := &InvalidRegistrationError{Reason: "cannot register a nil instance"}
	assert.Equal(t, "invalid registration: cannot register a nil instance", reg.Error())

	tok := &InvalidTokenError{Reason: "token must not be nil"}
	assert.Equal(t, "invalid service token: token must not be nil", tok.Error())
}
