package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
)

func validMaterial(t *testing.T) SigningMaterial {
	t.Helper()
	secret := "test-secret-0123456789abcdef"
	salt := "test-salt"
	digest := ComputeDigest(secret, salt, constants.DefaultMinIterations)
	return SigningMaterial{
		Secret:         secret,
		Salt:           salt,
		ExpectedDigest: hex.EncodeToString(digest),
		Iterations:     constants.DefaultMinIterations,
	}
}

func TestComputeDigestDeterministic(t *testing.T) {
	a := ComputeDigest("secret", "salt", constants.DefaultMinIterations)
	b := ComputeDigest("secret", "salt", constants.DefaultMinIterations)
	assert.Equal(t, a, b)
	assert.Len(t, a, digestSize)
}

func TestComputeDigestVariesWithInputs(t *testing.T) {
	base := ComputeDigest("secret", "salt", constants.DefaultMinIterations)
	assert.NotEqual(t, base, ComputeDigest("secret2", "salt", constants.DefaultMinIterations))
	assert.NotEqual(t, base, ComputeDigest("secret", "salt2", constants.DefaultMinIterations))
	assert.NotEqual(t, base, ComputeDigest("secret", "salt", constants.DefaultMinIterations+1))
}

func TestVerifyIntegrity(t *testing.T) {
	m := validMaterial(t)
	assert.True(t, VerifyIntegrity(m.Secret, m.Salt, m.Iterations, m.ExpectedDigest))
}

func TestVerifyIntegrityRejectsMutatedDigest(t *testing.T) {
	m := validMaterial(t)

	raw, err := hex.DecodeString(m.ExpectedDigest)
	require.NoError(t, err)

	// Flipping any single byte must fail the comparison.
	for i := range raw {
		mutated := append([]byte(nil), raw...)
		mutated[i] ^= 0xff
		assert.False(t, VerifyIntegrity(m.Secret, m.Salt, m.Iterations, hex.EncodeToString(mutated)),
			"byte %d", i)
	}
}

func TestVerifyIntegrityRejectsMalformedDigest(t *testing.T) {
	m := validMaterial(t)
	assert.False(t, VerifyIntegrity(m.Secret, m.Salt, m.Iterations, "not-hex"))
	assert.False(t, VerifyIntegrity(m.Secret, m.Salt, m.Iterations, "abcd")) // wrong length
	assert.False(t, VerifyIntegrity(m.Secret, m.Salt, m.Iterations, ""))
}

func TestCheckRejectsIncompleteMaterial(t *testing.T) {
	m := validMaterial(t)

	for name, mutate := range map[string]func(*SigningMaterial){
		"missing secret": func(m *SigningMaterial) { m.Secret = "" },
		"missing salt":   func(m *SigningMaterial) { m.Salt = "" },
		"missing digest": func(m *SigningMaterial) { m.ExpectedDigest = "" },
	} {
		t.Run(name, func(t *testing.T) {
			bad := m
			mutate(&bad)
			err := bad.Check()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfiguration))
		})
	}
}

func TestCheckRejectsWrongSecret(t *testing.T) {
	m := validMaterial(t)
	m.Secret = "a-different-secret-entirely"
	err := m.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestCheckAcceptsValidMaterial(t *testing.T) {
	assert.NoError(t, validMaterial(t).Check())
}
