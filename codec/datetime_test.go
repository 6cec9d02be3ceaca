package codec

import (
	"testing"
	"time"
)

func TestDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	enc, err := EncodeDateTime(in)
	if err != nil {
		t.Fatal(err)
	}
	out := DecodeDateTime(enc)
	if !out.Equal(in) {
		t.Errorf("round trip mismatch: got %s, want %s", out, in)
	}
}

func TestDateTimeEpoch(t *testing.T) {
	enc, err := EncodeDateTime(time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatal(err)
	}
	if enc != 0 {
		t.Errorf("epoch should encode to 0, got %d", enc)
	}
}

func TestDateTimeRejectsPreEpoch(t *testing.T) {
	_, err := EncodeDateTime(time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC))
	if err == nil {
		t.Error("expected error for pre-epoch datetime")
	}
}
