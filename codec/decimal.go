package codec

import (
	"strings"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// EncodeDecimal maps a DECIMAL(precision,scale) literal onto a
// byte-lexicographically ordered string annotation (spec §4.1.4).
//
// The literal is normalized to exactly `scale` fractional digits (rounding
// half-up on excess digits) and zero-padded to `precision-scale` integer
// digits. Positive values are prefixed with the separator digit '.';
// negative values invert every digit (c -> '0'+('9'-c)) and use '-' as the
// prefix, keeping the internal '.' separator literal — this is the exact
// scheme used by the original Python implementation, and it is verified
// order-preserving in decimal_test.go (see DESIGN.md's Open Question log).
func EncodeDecimal(literal string, precision, scale int) (string, error) {
	if scale < 0 || precision < scale {
		return "", golemerrors.InternalError("invalid DECIMAL(%d,%d)", precision, scale)
	}

	neg, intDigits, fracDigits, err := splitDecimalLiteral(literal)
	if err != nil {
		return "", err
	}

	intDigits, fracDigits = roundToScale(intDigits, fracDigits, scale)

	trimmedInt := strings.TrimLeft(intDigits, "0")
	if trimmedInt == "" {
		trimmedInt = "0"
	}

	intWidth := precision - scale
	if len(trimmedInt) > intWidth {
		return "", golemerrors.DataError("numeric out of range for DECIMAL(%d,%d)", precision, scale)
	}

	paddedInt := strings.Repeat("0", intWidth-len(trimmedInt)) + trimmedInt
	isZero := trimmedInt == "0" && isAllZero(fracDigits)

	var positive strings.Builder
	positive.WriteByte('.')
	positive.WriteString(paddedInt)
	if scale > 0 {
		positive.WriteByte('.')
		positive.WriteString(fracDigits)
	}

	if neg && !isZero {
		return "-" + invertDigits(positive.String()[1:]), nil
	}
	return positive.String(), nil
}

// DecodeDecimal inverts EncodeDecimal, recovering a canonical decimal
// literal ("123.45", "-999.999", "0") from an encoded annotation string.
// The (precision, scale) are implicit in the encoded string's own layout,
// so they are not required as arguments.
func DecodeDecimal(encoded string) (string, error) {
	if len(encoded) == 0 {
		return "", golemerrors.DataError("empty encoded DECIMAL value")
	}

	neg := encoded[0] == '-'
	if !neg && encoded[0] != '.' {
		return "", golemerrors.DataError("malformed encoded DECIMAL value %q", encoded)
	}

	body := encoded[1:]
	if neg {
		body = invertDigits(body)
	}

	parts := strings.SplitN(body, ".", 2)
	intDigits := parts[0]
	fracDigits := ""
	if len(parts) == 2 {
		fracDigits = parts[1]
	}

	trimmedInt := strings.TrimLeft(intDigits, "0")
	if trimmedInt == "" {
		trimmedInt = "0"
	}

	isZero := trimmedInt == "0" && isAllZero(fracDigits)

	var out strings.Builder
	if neg && !isZero {
		out.WriteByte('-')
	}
	out.WriteString(trimmedInt)
	if fracDigits != "" {
		out.WriteByte('.')
		out.WriteString(fracDigits)
	}
	return out.String(), nil
}

func splitDecimalLiteral(s string) (neg bool, intDigits string, fracDigits string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, "", "", golemerrors.DataError("empty DECIMAL literal")
	}

	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intDigits = parts[0]
	if intDigits == "" {
		intDigits = "0"
	}
	if !isDigits(intDigits) {
		return false, "", "", golemerrors.DataError("malformed DECIMAL literal %q", s)
	}

	if len(parts) == 2 {
		fracDigits = parts[1]
		if fracDigits != "" && !isDigits(fracDigits) {
			return false, "", "", golemerrors.DataError("malformed DECIMAL literal %q", s)
		}
	}

	return neg, intDigits, fracDigits, nil
}

// roundToScale normalizes fracDigits to exactly `scale` digits, rounding
// half-up on truncation and propagating any resulting carry into intDigits.
func roundToScale(intDigits, fracDigits string, scale int) (string, string) {
	if len(fracDigits) <= scale {
		return intDigits, fracDigits + strings.Repeat("0", scale-len(fracDigits))
	}

	kept := []byte(fracDigits[:scale])
	roundUp := fracDigits[scale] >= '5'
	if !roundUp {
		return intDigits, string(kept)
	}

	carry := byte(1)
	for i := len(kept) - 1; i >= 0 && carry > 0; i-- {
		d := kept[i] - '0' + carry
		if d == 10 {
			kept[i] = '0'
			carry = 1
		} else {
			kept[i] = d + '0'
			carry = 0
		}
	}

	digits := []byte(intDigits)
	for i := len(digits) - 1; i >= 0 && carry > 0; i-- {
		d := digits[i] - '0' + carry
		if d == 10 {
			digits[i] = '0'
			carry = 1
		} else {
			digits[i] = d + '0'
			carry = 0
		}
	}
	if carry > 0 {
		digits = append([]byte{'1'}, digits...)
	}

	return string(digits), string(kept)
}

func invertDigits(s string) string {
	buf := []byte(s)
	for i, c := range buf {
		if c >= '0' && c <= '9' {
			buf[i] = '0' + ('9' - c)
		}
	}
	return string(buf)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAllZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}
