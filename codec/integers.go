package codec

import (
	"strings"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// signBit is the bit that separates the negative half of uint64 space from
// the positive half under the store's native u64 ordering.
const signBit = uint64(1) << 63

// IntegerWidth is the declared bit width of a signed SQL integer column.
type IntegerWidth int

const (
	Width8  IntegerWidth = 8
	Width16 IntegerWidth = 16
	Width32 IntegerWidth = 32
	Width64 IntegerWidth = 64
)

// bounds returns the legal [min, max] range for a signed value of width w.
func bounds(w IntegerWidth) (min, max int64) {
	switch w {
	case Width8:
		return -1 << 7, 1<<7 - 1
	case Width16:
		return -1 << 15, 1<<15 - 1
	case Width32:
		return -1 << 31, 1<<31 - 1
	case Width64:
		return -1 << 63, 1<<63 - 1
	default:
		return 0, -1 // empty range: signals an unsupported width
	}
}

// EncodeSignedInt maps a signed integer of the given bit width onto a u64
// annotation such that native u64 order agrees with signed order (spec
// §4.1.1). Widths 8/16/32 use `(v + 2^(w-1)) + 2^63`; width 64 uses
// `(v + 2^63) mod 2^64`, computed as a sign-bit flip.
func EncodeSignedInt(v int64, w IntegerWidth) (uint64, error) {
	min, max := bounds(w)
	if max < min {
		return 0, golemerrors.InternalError("unsupported integer bit width %d", w)
	}
	if v < min || v > max {
		return 0, golemerrors.DataError("integer %d out of range for %d-bit signed column", v, w)
	}

	if w == Width64 {
		return uint64(v) ^ signBit, nil
	}

	bias := int64(1) << (uint(w) - 1)
	shifted := uint64(v + bias) // in [0, 2^w - 1], fits comfortably in uint64
	return shifted + signBit, nil
}

// DecodeSignedInt inverts EncodeSignedInt.
func DecodeSignedInt(u uint64, w IntegerWidth) (int64, error) {
	switch w {
	case Width8, Width16, Width32, Width64:
	default:
		return 0, golemerrors.InternalError("unsupported integer bit width %d", w)
	}

	if w == Width64 {
		return int64(u ^ signBit), nil
	}

	bias := int64(1) << (uint(w) - 1)
	shifted := int64(u - signBit)
	return shifted - bias, nil
}

// IntegerWidthForType maps a SQL integer type keyword to its bit width.
// Unknown keywords default to 64, matching the widest safe representation.
func IntegerWidthForType(sqlType string) IntegerWidth {
	switch normalizeTypeKeyword(sqlType) {
	case "TINYINT":
		return Width8
	case "SMALLINT":
		return Width16
	case "INTEGER", "INT":
		return Width32
	case "BIGINT":
		return Width64
	default:
		return Width64
	}
}

// EncodeBool maps a SQL boolean to its numeric annotation (spec §4.1.2).
func EncodeBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// DecodeBool inverts EncodeBool. Any nonzero value decodes to true.
func DecodeBool(u uint64) bool {
	return u != 0
}

func normalizeTypeKeyword(sqlType string) string {
	// Strip any "(n)" or "(p,s)" parameter suffix and upper-case, so
	// "INTEGER(10)" and "integer" both normalize to "INTEGER".
	base := sqlType
	if idx := strings.IndexByte(base, '('); idx >= 0 {
		base = base[:idx]
	}
	return strings.ToUpper(strings.TrimSpace(base))
}
