package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareCredential(t *testing.T) {
	assert.True(t, CompareCredential("hunter22", "hunter22"))
	assert.False(t, CompareCredential("hunter22", "hunter23"))
	assert.False(t, CompareCredential("", "hunter22"))
	assert.False(t, CompareCredential("hunter22", ""))
	assert.True(t, CompareCredential("", ""))
}

func TestCompareCredentialDifferentLengths(t *testing.T) {
	// Hashing both sides first means length differences never shortcut
	// the comparison.
	assert.False(t, CompareCredential("short", "a-much-longer-credential-value"))
}
