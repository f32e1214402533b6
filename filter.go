package typebus

import "reflect"

// TypeFilter selects which posted values a registration receives. A value
// of concrete type U passes a filter for type T iff U is exactly T, or T is
// an interface type that U implements. The zero filter matches every value.
//
// A filter's type is fixed at creation and never changes.
type TypeFilter struct {
	typ reflect.Type
}

// AnyEvent matches every posted value, including nil.
var AnyEvent = TypeFilter{}

// For returns the filter for values of type T. If T is an interface type
// the filter matches any value whose dynamic type implements it.
func For[T any]() TypeFilter {
	return TypeFilter{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// Of returns the filter for the dynamic type of v. Of(nil) is AnyEvent.
func Of(v any) TypeFilter {
	return TypeFilter{typ: reflect.TypeOf(v)}
}

// IsAny reports whether the filter matches every value.
func (f TypeFilter) IsAny() bool {
	return f.typ == nil
}

// Type returns the filter's type descriptor, or nil for AnyEvent.
func (f TypeFilter) Type() reflect.Type {
	return f.typ
}

// Matches reports whether a value of dynamic type t passes the filter.
// A nil t (an untyped nil event) passes only AnyEvent.
func (f TypeFilter) Matches(t reflect.Type) bool {
	if f.typ == nil {
		return true
	}
	if t == nil {
		return false
	}
	if t == f.typ {
		return true
	}
	return f.typ.Kind() == reflect.Interface && t.Implements(f.typ)
}

// String returns a human-readable filter description.
func (f TypeFilter) String() string {
	if f.typ == nil {
		return "any"
	}
	return f.typ.String()
}

// concrete reports whether the filter can be indexed by an exact type.
// Interface filters and AnyEvent require an assignability scan instead.
func (f TypeFilter) concrete() bool {
	return f.typ != nil && f.typ.Kind() != reflect.Interface
}
