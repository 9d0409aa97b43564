package column

import "fmt"

// A Type describes a database column storage type. Types are immutable
// values constructed at model-declaration time and shared by reference
// across columns. Only the DDL builders consume the rendered string;
// query generation never inspects a column's type.
type Type struct {
	name string
}

// NewType returns a custom Type with the given SQL type name. The name
// is not validated; an invalid type surfaces when the table is created.
func NewType(name string) Type {
	return Type{name: name}
}

// String returns the SQL rendering of the type, as used in DDL.
func (t Type) String() string { return t.name }

// Zero reports whether the type is the zero value (no type declared).
func (t Type) Zero() bool { return t.name == "" }

// Parameterless postgres types.
var (
	TypeText         = Type{name: "text"}
	TypeUUID         = Type{name: "uuid"}
	TypeBool         = Type{name: "bool"}
	TypeInteger      = Type{name: "integer"}
	TypeSmallInt     = Type{name: "int2"}
	TypeBigInt       = Type{name: "int8"}
	TypeNumeric      = Type{name: "numeric"}
	TypeReal         = Type{name: "float4"}
	TypeDouble       = Type{name: "float8"}
	TypeSerial       = Type{name: "serial4"}
	TypeSmallSerial  = Type{name: "serial2"}
	TypeBigSerial    = Type{name: "serial8"}
	TypeDate         = Type{name: "date"}
	TypeTime         = Type{name: "time"}
	TypeTimeTZ       = Type{name: "timetz"}
	TypeTimestamp    = Type{name: "timestamp"}
	TypeTimestampTZ  = Type{name: "timestamptz"}
	TypeInterval     = Type{name: "interval"}
	TypeBytes        = Type{name: "bytea"}
	TypeMoney        = Type{name: "money"}
	TypeInet         = Type{name: "inet"}
	TypeCIDR         = Type{name: "cidr"}
	TypeMACAddr      = Type{name: "macaddr"}
	TypeBox          = Type{name: "box"}
	TypeLine         = Type{name: "line"}
	TypeLineSegment  = Type{name: "lseg"}
	TypeCircle       = Type{name: "circle"}
	TypePath         = Type{name: "path"}
	TypePoint        = Type{name: "point"}
	TypePolygon      = Type{name: "polygon"}
	TypeJSON         = Type{name: "json"}
	TypeJSONB        = Type{name: "jsonb"}
	TypeXML          = Type{name: "xml"}
	TypePGLSN        = Type{name: "pg_lsn"}
	TypeTSQuery      = Type{name: "tsquery"}
	TypeTSVector     = Type{name: "tsvector"}
	TypeTxIDSnapshot = Type{name: "txid_snapshot"}
)

// TypeVarChar returns a sized character varying type.
func TypeVarChar(n int) Type {
	return Type{name: fmt.Sprintf("varchar(%d)", n)}
}

// TypeChar returns a fixed-length character type.
func TypeChar(n int) Type {
	return Type{name: fmt.Sprintf("char(%d)", n)}
}

// TypeVarBit returns a variable-length bit string type.
func TypeVarBit(n int) Type {
	return Type{name: fmt.Sprintf("varbit(%d)", n)}
}

// TypeBit returns a fixed-length bit string type.
func TypeBit(n int) Type {
	return Type{name: fmt.Sprintf("bit(%d)", n)}
}

// TypeArray returns an array type of the given element type. A size of
// zero renders an unsized array. If dims is greater than zero, the
// dimensional syntax is used instead of the ARRAY keyword.
func TypeArray(elem Type, size, dims int) Type {
	if dims > 0 {
		n := ""
		if size > 0 {
			n = fmt.Sprintf("%d", size)
		}
		name := elem.name + " "
		for i := 0; i < dims; i++ {
			name += fmt.Sprintf("[%s]", n)
		}
		return Type{name: name}
	}
	name := elem.name + " ARRAY"
	if size > 0 {
		name += fmt.Sprintf("[%d]", size)
	}
	return Type{name: name}
}
