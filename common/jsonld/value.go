// Package jsonld holds the ordered property bag used to build JSON-LD
// documents and encodes it the way structured-data consumers expect:
// keys in insertion order, no escaping of "/" or HTML characters, and
// integral numbers without a decimal point.
package jsonld

// Value is one property value. Concrete types:
//
//   - String
//   - Number
//   - Bool
//   - List
//   - *Object
type Value interface {
	jsonldValue()
}

type String string

// Number must be finite to be encoded.
type Number float64

type Bool bool

// List is an ordered sequence of values.
type List []Value

func (String) jsonldValue()  {}
func (Number) jsonldValue()  {}
func (Bool) jsonldValue()    {}
func (List) jsonldValue()    {}
func (*Object) jsonldValue() {}

// Strings builds a List of String values.
func Strings(values ...string) List {
	list := make(List, len(values))
	for i, v := range values {
		list[i] = String(v)
	}
	return list
}

// IsNil reports whether v holds no data: a nil Value or a nil *Object.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	obj, ok := v.(*Object)
	return ok && obj == nil
}

// Equal reports whether a and b hold the same data. Objects compare key
// order as well as content. Both nil forms are equal to each other.
func Equal(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		for i, key := range av.keys {
			if bv.keys[i] != key || !Equal(av.values[key], bv.values[key]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch tv := v.(type) {
	case List:
		out := make(List, len(tv))
		for i, item := range tv {
			out[i] = Clone(item)
		}
		return out
	case *Object:
		return tv.Clone()
	}
	return v
}
