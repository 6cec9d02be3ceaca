package codec

import (
	"unicode/utf8"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// EncodeVarchar passes a VARCHAR(n)/CHAR(n) value through as UTF-8 bytes,
// enforcing the declared length in characters, not bytes (spec §4.1.5).
// maxLen <= 0 means unbounded (used for TEXT).
func EncodeVarchar(s string, maxLen int) (string, error) {
	if maxLen > 0 {
		if n := utf8.RuneCountInString(s); n > maxLen {
			return "", golemerrors.DataError("string of length %d exceeds VARCHAR(%d)", n, maxLen)
		}
	}
	return s, nil
}

// EncodeText passes a TEXT value through unmodified; TEXT carries no
// length constraint.
func EncodeText(s string) string {
	return s
}
