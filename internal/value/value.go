// Package value holds the tagged value passed between recipe operations.
//
// A Value is either text or raw bytes. Operations declare their input and
// output using the type names below, and the engine reads the tag on the
// value an operation returned to decide how the next step (or the caller)
// should interpret it.
package value

// Type names used for operation input/output metadata.
const (
	TypeString    = "string"
	TypeByteArray = "byteArray"
)

// Kind discriminates the two value shapes.
type Kind int

const (
	Text Kind = iota
	Bytes
)

// Value is an immutable tagged variant: text or a byte sequence.
type Value struct {
	kind Kind
	text string
	data []byte
}

// NewText returns a text value.
func NewText(s string) Value {
	return Value{kind: Text, text: s}
}

// NewBytes returns a byte-sequence value. The slice is not copied.
func NewBytes(b []byte) Value {
	return Value{kind: Bytes, data: b}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// TypeName returns the operation-metadata type name for the value's tag.
func (v Value) TypeName() string {
	if v.kind == Bytes {
		return TypeByteArray
	}
	return TypeString
}

// AsText returns the value as text. Byte values are decoded as-is.
func (v Value) AsText() string {
	if v.kind == Bytes {
		return string(v.data)
	}
	return v.text
}

// AsBytes returns the value as a byte sequence. Text values are encoded as-is.
func (v Value) AsBytes() []byte {
	if v.kind == Bytes {
		return v.data
	}
	return []byte(v.text)
}

// Len returns the byte length of the value.
func (v Value) Len() int {
	if v.kind == Bytes {
		return len(v.data)
	}
	return len(v.text)
}
