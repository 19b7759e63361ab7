package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
)

// CompareCredential compares a supplied credential against the expected
// one in constant time. Both inputs are hashed to a fixed length first,
// so neither the match outcome nor the length difference is observable
// through timing.
func CompareCredential(supplied, expected string) bool {
	suppliedSum := sha256.Sum256([]byte(supplied))
	expectedSum := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(suppliedSum[:], expectedSum[:]) == 1
}
