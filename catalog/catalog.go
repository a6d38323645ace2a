// Package catalog turns registration inputs (constructor functions, struct
// prototypes and factory functions) into invocable constructor descriptions.
// It owns the reflection work: validating callables, deriving parameters,
// and building synthetic constructors from struct fields.
package catalog

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Catalog introspects callables and struct prototypes, caching what it
// learns. One Catalog serves one container hierarchy; separate hierarchies
// keep separate caches.
type Catalog struct {
	sigs   map[reflect.Type][]paramShape
	fields map[reflect.Type][]fieldShape
}

// paramShape is the cacheable part of a Param: everything except the
// descriptor, which depends on the owning function's name.
type paramShape struct {
	typ      reflect.Type
	isArray  bool
	variadic bool
}

// fieldShape is one usable field of a struct prototype.
type fieldShape struct {
	index   int
	name    string
	typ     reflect.Type
	isArray bool
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		sigs:   make(map[reflect.Type][]paramShape),
		fields: make(map[reflect.Type][]fieldShape),
	}
}

// Concrete describes a registered buildable type: the produced type plus the
// candidate constructors that can produce it, in registration order.
type Concrete struct {
	out   reflect.Type
	ctors []*Constructor
}

// Type returns the type every candidate constructor produces.
func (c *Concrete) Type() reflect.Type {
	return c.out
}

// Constructors returns the candidates in registration order.
func (c *Concrete) Constructors() []*Constructor {
	return c.ctors
}

func (c *Concrete) String() string {
	return fmt.Sprintf("%s (%d constructors)", c.out, len(c.ctors))
}

// Factory wraps a single factory function. Unlike constructors, a factory
// may declare an interface result type; that declared type, not the dynamic
// type of whatever it returns, is what gets registered.
type Factory struct {
	ctor *Constructor
}

// Out returns the factory's declared result type.
func (f *Factory) Out() reflect.Type {
	return f.ctor.out
}

// Constructor returns the factory as an invocable constructor.
func (f *Factory) Constructor() *Constructor {
	return f.ctor
}

func (f *Factory) String() string {
	return f.ctor.String()
}

// Concrete builds the constructor set for a type registration. spec is
// either a single struct prototype (a value, a pointer, or a reflect.Type),
// whose exported fields become the parameters of one synthetic constructor,
// or one or more constructor functions that all produce the same concrete
// type.
//
// Example:
//
//	con, err := cat.Concrete(NewServer, NewServerFromConfig)
//	con, err := cat.Concrete(Widget{})
func (c *Catalog) Concrete(spec ...any) (*Concrete, error) {
	if len(spec) == 0 {
		return nil, &NoConstructorError{}
	}
	if len(spec) == 1 && !isFunc(spec[0]) {
		return c.prototype(spec[0])
	}

	ctors := make([]*Constructor, 0, len(spec))
	var out reflect.Type
	for _, fn := range spec {
		ctor, err := c.constructorOf(fn)
		if err != nil {
			return nil, err
		}
		if ctor.out.Kind() == reflect.Interface {
			return nil, &AbstractTypeError{Type: ctor.out, Ctor: ctor.desc}
		}
		switch {
		case out == nil:
			out = ctor.out
		case ctor.out != out:
			return nil, &MixedConstructorError{Want: out, Got: ctor.out, Ctor: ctor.desc}
		}
		ctors = append(ctors, ctor)
	}
	return &Concrete{out: out, ctors: ctors}, nil
}

// Factory validates fn as a factory function. The result shape mirrors
// constructors (one value plus an optional error), but a factory result may
// be an interface, as long as it is not an empty one, which would carry no
// type to register under.
func (c *Catalog) Factory(fn any) (*Factory, error) {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func {
		return nil, &InvalidFactoryError{Factory: describeValue(fn), Reason: "not a function"}
	}
	name := funcName(v)
	out, returnsErr, reason := callableResults(v.Type())
	if reason != "" {
		return nil, &InvalidFactoryError{Factory: name, Reason: reason}
	}
	if out.Kind() == reflect.Interface && out.NumMethod() == 0 {
		return nil, &UntypedFactoryError{Factory: name}
	}
	return &Factory{ctor: c.funcConstructor(v, name, out, returnsErr)}, nil
}

// constructorOf validates fn as a constructor function: one concrete result
// plus an optional error.
func (c *Catalog) constructorOf(fn any) (*Constructor, error) {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func {
		return nil, &InvalidConstructorError{Ctor: describeValue(fn), Reason: "not a function"}
	}
	name := funcName(v)
	out, returnsErr, reason := callableResults(v.Type())
	if reason != "" {
		return nil, &InvalidConstructorError{Ctor: name, Reason: reason}
	}
	return c.funcConstructor(v, name, out, returnsErr), nil
}

// funcConstructor wraps a validated function in a Constructor, deriving its
// parameters through the signature cache.
func (c *Catalog) funcConstructor(v reflect.Value, name string, out reflect.Type, returnsErr bool) *Constructor {
	t := v.Type()
	ctor := &Constructor{
		params: c.paramsOf(t, name),
		out:    out,
		desc:   name,
	}
	ctor.call = func(args []reflect.Value) (any, error) {
		var results []reflect.Value
		if t.IsVariadic() {
			results = v.CallSlice(args)
		} else {
			results = v.Call(args)
		}
		if returnsErr && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}
	return ctor
}

// prototype derives the synthetic constructor for a struct prototype:
// exported fields in declaration order become parameters, fields tagged
// `hernia:"-"` are skipped, and construction allocates the struct and
// assigns each argument to its field. A pointer prototype (&T{}) produces
// *T; a value prototype (T{}) produces T.
func (c *Catalog) prototype(proto any) (*Concrete, error) {
	t, ok := proto.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(proto)
	}
	if t == nil {
		return nil, &NoConstructorError{}
	}
	out := t
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() == reflect.Interface {
		return nil, &AbstractTypeError{Type: st}
	}
	if st.Kind() != reflect.Struct {
		return nil, &NoConstructorError{Type: t}
	}

	shapes := c.fieldsOf(st)
	params := make([]Param, len(shapes))
	for i, s := range shapes {
		params[i] = Param{
			Index:   i,
			Type:    s.typ,
			IsArray: s.isArray,
			desc:    fmt.Sprintf("field %s (%s) of %s", s.name, s.typ, st),
		}
	}

	wantPtr := out.Kind() == reflect.Ptr
	ctor := &Constructor{
		params: params,
		out:    out,
		desc:   fmt.Sprintf("prototype %s", st),
	}
	ctor.call = func(args []reflect.Value) (any, error) {
		pv := reflect.New(st)
		ev := pv.Elem()
		for i, s := range shapes {
			ev.Field(s.index).Set(args[i])
		}
		if wantPtr {
			return pv.Interface(), nil
		}
		return ev.Interface(), nil
	}
	return &Concrete{out: out, ctors: []*Constructor{ctor}}, nil
}

// fieldsOf lists the usable fields of a struct type, consulting the cache
// first. Unexported fields and fields tagged `hernia:"-"` are excluded.
func (c *Catalog) fieldsOf(st reflect.Type) []fieldShape {
	if shapes, ok := c.fields[st]; ok {
		return shapes
	}
	var shapes []fieldShape
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.PkgPath != "" || f.Tag.Get("hernia") == "-" {
			continue
		}
		shapes = append(shapes, fieldShape{
			index:   i,
			name:    f.Name,
			typ:     f.Type,
			isArray: f.Type.Kind() == reflect.Slice,
		})
	}
	c.fields[st] = shapes
	return shapes
}

// paramsOf derives the parameter list of a function type, consulting the
// signature cache first. Descriptors are rebuilt per owner because two
// functions can share a signature without sharing a name.
func (c *Catalog) paramsOf(t reflect.Type, owner string) []Param {
	shapes, ok := c.sigs[t]
	if !ok {
		shapes = make([]paramShape, t.NumIn())
		for i := range shapes {
			in := t.In(i)
			shapes[i] = paramShape{
				typ:      in,
				isArray:  in.Kind() == reflect.Slice,
				variadic: t.IsVariadic() && i == t.NumIn()-1,
			}
		}
		c.sigs[t] = shapes
	}
	params := make([]Param, len(shapes))
	for i, s := range shapes {
		params[i] = Param{
			Index:    i,
			Type:     s.typ,
			IsArray:  s.isArray,
			Variadic: s.variadic,
			desc:     fmt.Sprintf("parameter %d (%s) of %s", i, s.typ, owner),
		}
	}
	return params
}

// callableResults validates the result shape shared by constructors and
// factories: exactly one value, or one value plus an error.
func callableResults(t reflect.Type) (out reflect.Type, returnsErr bool, reason string) {
	switch t.NumOut() {
	case 0:
		return nil, false, "must return a value"
	case 1:
		out = t.Out(0)
	case 2:
		out = t.Out(0)
		if t.Out(1) != errType {
			return nil, false, fmt.Sprintf("second result must be error, got %s", t.Out(1))
		}
		returnsErr = true
	default:
		return nil, false, fmt.Sprintf("returns %d values, want one value plus an optional error", t.NumOut())
	}
	if out == errType {
		return nil, false, "first result must be a value, not error"
	}
	return out, returnsErr, ""
}

func isFunc(x any) bool {
	if x == nil {
		return false
	}
	if _, ok := x.(reflect.Type); ok {
		return false
	}
	return reflect.TypeOf(x).Kind() == reflect.Func
}

// funcName resolves a function's package-qualified name for descriptors,
// falling back to the signature when the runtime cannot name it.
func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return v.Type().String()
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func describeValue(x any) string {
	if x == nil {
		return "<nil>"
	}
	return reflect.TypeOf(x).String()
}
