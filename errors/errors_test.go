package errors

import (
	stderrors "errors"
	"testing"
)

func TestIsDispatchesOnKind(t *testing.T) {
	err := DataError("value %d out of range", 42)
	if !Is(err, KindData) {
		t.Error("expected KindData")
	}
	if Is(err, KindProgramming) {
		t.Error("did not expect KindProgramming")
	}
}

func TestOperationalErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := OperationalError(cause, "query_entities failed")
	if !stderrors.Is(err, cause) {
		t.Error("expected Unwrap chain to reach cause")
	}
	if !Is(err, KindOperational) {
		t.Error("expected KindOperational")
	}
}

func TestErrorMessageFormat(t *testing.T) {
	err := ProgrammingError("unknown column %q", "foo")
	want := "ProgrammingError: unknown column \"foo\""
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestIsFalseForNonTaxonomyError(t *testing.T) {
	if Is(stderrors.New("plain error"), KindData) {
		t.Error("plain errors must not match any Kind")
	}
}

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindInterface:    "InterfaceError",
		KindProgramming:  "ProgrammingError",
		KindData:         "DataError",
		KindNotSupported: "NotSupportedError",
		KindIntegrity:    "IntegrityError",
		KindOperational:  "OperationalError",
		KindInternal:     "InternalError",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
