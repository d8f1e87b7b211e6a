// Package pgtype maps PostgreSQL type OIDs to text-decoding strategies.
//
// A static table covers the boolean, integer and floating-point families and
// their array counterparts. Every other OID is looked up in a caller-supplied
// Registry; OIDs absent from both decode to the raw string unchanged.
package pgtype

import (
	"strconv"

	"github.com/lib/pq/oid"

	"github.com/azjezz/postgres/internal/arraylit"
)

// Category classifies a registered type.
type Category byte

const (
	Scalar Category = 's'
	Array  Category = 'a'
)

// Type describes how to decode one registered OID. Entries are applied
// verbatim; the delimiter byte is not validated.
type Type struct {
	Category Category
	Delim    byte
}

// Registry supplies decoding hints for OIDs outside the built-in table,
// typically loaded from pg_type by the connection layer.
type Registry map[uint32]Type

// Leaf casts for the built-in scalar families. The server guarantees
// well-formed text for these OIDs; a token strconv rejects anyway is
// returned as-is rather than dropped.

// Bool decodes the boolean text encoding: "t" is true, anything else false.
func Bool(token string) any { return token == "t" }

// Int decodes a signed integer token.
func Int(token string) any {
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return token
	}
	return n
}

// Float decodes a floating-point token.
func Float(token string) any {
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return token
	}
	return f
}

type kind int

const (
	kindBool kind = iota
	kindInt
	kindFloat
	kindBoolArray
	kindIntArray
	kindFloatArray
)

// builtin is the static OID dispatch table.
var builtin = map[oid.Oid]kind{
	oid.T_bool: kindBool,

	oid.T_int2: kindInt,
	oid.T_int4: kindInt,
	oid.T_int8: kindInt,
	oid.T_oid:  kindInt,
	oid.T_tid:  kindInt,
	oid.T_xid:  kindInt,
	oid.T_cid:  kindInt,

	oid.T_float4: kindFloat,
	oid.T_float8: kindFloat,

	oid.T__bool: kindBoolArray,

	oid.T__int2: kindIntArray,
	oid.T__int4: kindIntArray,
	oid.T__int8: kindIntArray,
	oid.T__oid:  kindIntArray,
	oid.T__tid:  kindIntArray,
	oid.T__xid:  kindIntArray,
	oid.T__cid:  kindIntArray,

	oid.T__float4: kindFloatArray,
	oid.T__float8: kindFloatArray,
}

// Decode converts one non-null raw cell into its decoded value. Null cells
// never reach Decode; the cursor maps them to nil directly.
func Decode(typ uint32, raw string, reg Registry) (any, error) {
	if k, ok := builtin[oid.Oid(typ)]; ok {
		switch k {
		case kindBool:
			return Bool(raw), nil
		case kindInt:
			return Int(raw), nil
		case kindFloat:
			return Float(raw), nil
		case kindBoolArray:
			return arraylit.Parse(raw, Bool, arraylit.DefaultDelim)
		case kindIntArray:
			return arraylit.Parse(raw, Int, arraylit.DefaultDelim)
		case kindFloatArray:
			return arraylit.Parse(raw, Float, arraylit.DefaultDelim)
		}
	}
	if t, ok := reg[typ]; ok && t.Category == Array {
		// registry arrays keep their leaves untyped
		return arraylit.Parse(raw, arraylit.Identity, t.Delim)
	}
	return raw, nil
}
