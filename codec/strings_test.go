package codec

import "testing"

func TestEncodeVarchar(t *testing.T) {
	got, err := EncodeVarchar("hello", 10)
	if err != nil || got != "hello" {
		t.Fatalf("got %q, %v", got, err)
	}

	if _, err := EncodeVarchar("this string is too long", 5); err == nil {
		t.Error("expected length-exceeded error")
	}

	// multibyte runes count as one character each, not one byte
	got, err = EncodeVarchar("héllo", 5)
	if err != nil {
		t.Fatalf("unexpected error for 5-rune string: %v", err)
	}
	if got != "héllo" {
		t.Errorf("got %q", got)
	}

	got, err = EncodeVarchar("unbounded when maxLen<=0", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "unbounded when maxLen<=0" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeText(t *testing.T) {
	if EncodeText("anything at all") != "anything at all" {
		t.Error("EncodeText must pass through unmodified")
	}
}
