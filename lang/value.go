package lang

import (
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type indicates the variant held by a [Value].
type Type int

const (
	// TypeInteger represents a signed 64-bit integer.
	TypeInteger Type = iota

	// TypeFloat represents a 64-bit floating-point number.
	TypeFloat

	// TypeText represents a string literal.
	TypeText

	// TypeDictionary represents an ordered mapping of names to values.
	TypeDictionary
)

// String returns a string representation of the value type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeText:
		return "Text"
	case TypeDictionary:
		return "Dictionary"
	default:
		return "Unknown"
	}
}

// Value is a resolved configuration value. The set of implementations is
// closed: [Integer], [Float], [Text], and [*Dictionary].
type Value interface {
	// Type returns the variant of the value.
	Type() Type
	// String returns the textual form used for XML attribute values.
	String() string
	// Clone returns a deep copy of the value.
	Clone() Value

	isValue()
}

// Integer is an integral value.
type Integer int64

// Float is a floating-point value.
type Float float64

// Text is a string value.
type Text string

func (Integer) Type() Type { return TypeInteger }
func (Float) Type() Type   { return TypeFloat }
func (Text) Type() Type    { return TypeText }

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string   { return formatFloat(float64(v)) }
func (v Text) String() string    { return string(v) }

func (v Integer) Clone() Value { return v }
func (v Float) Clone() Value   { return v }
func (v Text) Clone() Value    { return v }

func (Integer) isValue() {}
func (Float) isValue()   {}
func (Text) isValue()    {}

// formatFloat renders f in its shortest round-trip form, always marked as a
// float: 6.0 renders as "6.0", not "6". Magnitudes below 1e-4 or from 1e16
// up use exponent notation ("1e+20", "2.5e-07").
func formatFloat(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	return floatLiteral(f)
}

// floatLiteral renders f in positional notation with a decimal point, the
// only float form the lexer reads.
// Non-finite values have no literal and render as "+Inf", "-Inf" or "NaN".
func floatLiteral(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// IsScalar reports whether v is an [Integer], [Float], or [Text].
func IsScalar(v Value) bool {
	switch v.(type) {
	case Integer, Float, Text:
		return true
	default:
		return false
	}
}

// Dictionary is an ordered mapping of names to values.
//
// Keys keep the position of their first insertion; setting an existing key
// replaces its value in place (last write wins).
type Dictionary struct {
	keys   []string
	values map[string]Value
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]Value)}
}

func (*Dictionary) Type() Type { return TypeDictionary }
func (*Dictionary) isValue()   {}

// Set binds key to v, replacing any earlier binding of key.
func (d *Dictionary) Set(key string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}

	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.values[key] = v
}

// Get returns the value bound to key.
func (d *Dictionary) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}

	v, ok := d.values[key]

	return v, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}

	return slices.Clone(d.keys)
}

// All returns an iterator over all entries in insertion order.
func (d *Dictionary) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}

		for _, key := range d.keys {
			if !yield(key, d.values[key]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the dictionary.
func (d *Dictionary) Clone() Value {
	c := &Dictionary{
		keys:   slices.Clone(d.keys),
		values: make(map[string]Value, len(d.values)),
	}

	for key, v := range d.values {
		c.values[key] = v.Clone()
	}

	return c
}

// String renders the dictionary in source syntax, e.g. {a: 1, b: "hi"}.
func (d *Dictionary) String() string {
	var sb strings.Builder

	writeValue(&sb, d)

	return sb.String()
}

// Equal reports whether a and b hold the same variant and content,
// including dictionary key order.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)

		return ok && a == b

	case Float:
		b, ok := b.(Float)

		return ok && (a == b || (math.IsNaN(float64(a)) && math.IsNaN(float64(b))))

	case Text:
		b, ok := b.(Text)

		return ok && a == b

	case *Dictionary:
		b, ok := b.(*Dictionary)
		if !ok || a.Len() != b.Len() {
			return false
		}

		for i, key := range a.Keys() {
			if b.keys[i] != key || !Equal(a.values[key], b.values[key]) {
				return false
			}
		}

		return true

	default:
		return a == nil && b == nil
	}
}
