package security

import (
	"crypto/rand"
	"errors"
	"io"
)

const (
	StateLength   = 32
	StateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errAlphabetSize   = errors.New("alphabet must have between 1 and 256 characters")
)

// NewState returns a random token for the OAuth state round trip.
func NewState() (string, error) {
	return RandomString(StateLength, StateAlphabet)
}

// RandomString returns an unbiased random string drawn from alphabet.
func RandomString(length int, alphabet string) (string, error) {
	return randomStringFrom(rand.Reader, length, alphabet)
}

// Bytes at or above the largest multiple of len(alphabet) are rejected so
// every character is equally likely.
func randomStringFrom(source io.Reader, length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errAlphabetSize
	}
	if length == 0 {
		return "", nil
	}

	cutoff := 256 - 256%len(alphabet)
	value := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(value) < length {
		if _, err := io.ReadFull(source, buffer); err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= cutoff {
				continue
			}
			value = append(value, alphabet[int(b)%len(alphabet)])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
