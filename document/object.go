package document

// PDF object model (ISO 32000-1 §7.3). The unexported marker method
// keeps the set of object kinds closed.

// Object is implemented by every PDF object type.
type Object interface {
	isObject()
}

// Null is the PDF null object.
type Null struct{}

// Bool is a PDF boolean.
type Bool bool

// Int is a PDF integer.
type Int int64

// Float is a PDF real number.
type Float float64

// Name is a PDF name object, stored without the leading slash.
type Name string

// Str holds the decoded bytes of a PDF string, literal or hexadecimal.
type Str []byte

// Array is an ordered collection of objects.
type Array []Object

// Dict maps names to objects.
type Dict map[Name]Object

// Stream is a stream object: a dictionary plus its raw, still-encoded
// data as stored in the file.
type Stream struct {
	Dict Dict
	Raw  []byte
}

// Ref is an indirect object reference ("N G R").
type Ref struct {
	Num, Gen int
}

func (Null) isObject()   {}
func (Bool) isObject()   {}
func (Int) isObject()    {}
func (Float) isObject()  {}
func (Name) isObject()   {}
func (Str) isObject()    {}
func (Array) isObject()  {}
func (Dict) isObject()   {}
func (Stream) isObject() {}
func (Ref) isObject()    {}

// Name returns the name stored under key.
func (d Dict) Name(key Name) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// Int returns the integer stored under key. Real values are truncated.
func (d Dict) Int(key Name) (int64, bool) {
	switch v := d[key].(type) {
	case Int:
		return int64(v), true
	case Float:
		return int64(v), true
	}
	return 0, false
}

// Array returns the array stored under key.
func (d Dict) Array(key Name) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

// Dict returns the dictionary stored under key.
func (d Dict) Dict(key Name) (Dict, bool) {
	sub, ok := d[key].(Dict)
	return sub, ok
}

// toFloat coerces a numeric object to float64.
func toFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}
