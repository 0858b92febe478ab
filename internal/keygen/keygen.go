// Package keygen generates random URL-safe short keys.
// Uniqueness is not guaranteed here - the storage layer's unique
// constraint is the single authority, and a generation collision
// surfaces as a conflict at insert time.
package keygen

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrNonPositiveLength is returned when the requested key length is less than one.
var ErrNonPositiveLength = errors.New("key length must be positive")

// NewKey returns a random string of exactly `length` characters
// drawn from a 62-symbol alphabet.
func NewKey(length int) (string, error) {
	if length < 1 {
		return "", ErrNonPositiveLength
	}

	result := make([]byte, length)
	symbolsLen := big.NewInt(int64(len(symbols)))
	for i := range result {
		randomIndex, err := rand.Int(rand.Reader, symbolsLen)
		if err != nil {
			return "", err
		}
		result[i] = symbols[randomIndex.Int64()]
	}

	return string(result), nil
}
