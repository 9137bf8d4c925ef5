package security

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "oversized alphabet", length: 1, alphabet: strings.Repeat("a", 257), wantErr: true},
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single character", length: 8, alphabet: "X"},
		{name: "state alphabet", length: 64, alphabet: StateAlphabet},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d) expected error", test.length)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d) returned error: %v", test.length, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d) len = %d", test.length, len(got))
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString produced %q outside alphabet", char)
				}
			}
		})
	}
}

func TestRandomStringRejectsBiasedBytes(t *testing.T) {
	// With a 3 character alphabet the cutoff is 255, so 0xff is skipped.
	source := bytes.NewReader([]byte{0xff, 0x00, 0x01, 0xff, 0x05, 0x00})

	got, err := randomStringFrom(source, 3, "abc")
	if err != nil {
		t.Fatalf("randomStringFrom() unexpected error: %v", err)
	}
	if got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}

func TestRandomStringReportsShortSource(t *testing.T) {
	_, err := randomStringFrom(bytes.NewReader([]byte{0x01}), 4, "abc")
	if err == nil || errors.Is(err, errNegativeLength) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestNewStateUsesStateAlphabet(t *testing.T) {
	first, err := NewState()
	if err != nil {
		t.Fatalf("NewState() unexpected error: %v", err)
	}
	second, err := NewState()
	if err != nil {
		t.Fatalf("NewState() unexpected error: %v", err)
	}
	if len(first) != StateLength || first == second {
		t.Fatalf("unexpected states %q and %q", first, second)
	}
}
