// Package crypto implements the signing-material integrity check, the
// constant-time credential compare, and the token manager.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
)

// digestSize is the byte length of the integrity digest.
const digestSize = 32

// SigningMaterial is the process-wide secret, salt, and expected
// integrity digest, loaded once at startup and never mutated.
type SigningMaterial struct {
	Secret         string
	Salt           string
	ExpectedDigest string // hex
	Iterations     int
}

// ComputeDigest derives the integrity digest over secret and salt using
// PBKDF2-SHA256 with the given iteration count.
func ComputeDigest(secret, salt string, iterations int) []byte {
	if iterations <= 0 {
		iterations = constants.DefaultMinIterations
	}
	return pbkdf2.Key([]byte(secret), []byte(salt), iterations, digestSize, sha256.New)
}

// VerifyIntegrity recomputes the digest over secret and salt and compares
// it to expectedHex in constant time. A pure function; callers log the
// failure before acting on it.
func VerifyIntegrity(secret, salt string, iterations int, expectedHex string) bool {
	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != digestSize {
		return false
	}
	actual := ComputeDigest(secret, salt, iterations)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// Check validates the material: all fields present and the recomputed
// digest matching the expected one. A failure is fatal for every
// operation that trusts the secret; the caller must not proceed.
func (m SigningMaterial) Check() error {
	if m.Secret == "" || m.Salt == "" || m.ExpectedDigest == "" {
		return errors.ErrConfiguration.WithMessage("signing material is incomplete")
	}
	if !VerifyIntegrity(m.Secret, m.Salt, m.Iterations, m.ExpectedDigest) {
		return errors.ErrConfiguration
	}
	return nil
}
