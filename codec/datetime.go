package codec

import (
	"time"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// EncodeDateTime maps a DATETIME/TIMESTAMP value to Unix epoch seconds
// (spec §4.1.3). Values before the epoch are rejected.
func EncodeDateTime(t time.Time) (uint64, error) {
	sec := t.Unix()
	if sec < 0 {
		return 0, golemerrors.DataError("datetime %s is before 1970-01-01T00:00:00Z", t.Format(time.RFC3339))
	}
	return uint64(sec), nil
}

// DecodeDateTime inverts EncodeDateTime, returning a UTC time.Time.
func DecodeDateTime(u uint64) time.Time {
	return time.Unix(int64(u), 0).UTC()
}
