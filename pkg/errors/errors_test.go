package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelStatusMapping(t *testing.T) {
	cases := map[*AppError]int{
		ErrConfiguration:        http.StatusInternalServerError,
		ErrMissingPassword:      http.StatusBadRequest,
		ErrPasswordShort:        http.StatusBadRequest,
		ErrInvalidPassword:      http.StatusUnauthorized,
		ErrMissingToken:         http.StatusUnauthorized,
		ErrTokenExpired:         http.StatusUnauthorized,
		ErrInvalidToken:         http.StatusForbidden,
		ErrInvalidSecurityToken: http.StatusForbidden,
		ErrUnauthenticated:      http.StatusUnauthorized,
		ErrForbidden:            http.StatusForbidden,
		ErrRateLimited:          http.StatusTooManyRequests,
		ErrIPBlocked:            http.StatusForbidden,
		ErrNotFound:             http.StatusNotFound,
		ErrInternal:             http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.Status, err.Code)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := ErrInvalidToken.WithMessage("token is missing issued-at claim")
	assert.True(t, Is(err, ErrInvalidToken))
	assert.False(t, Is(err, ErrTokenExpired))
}

func TestWithErrorKeepsChain(t *testing.T) {
	cause := stderrors.New("disk full")
	err := ErrInternal.WithError(cause)

	assert.True(t, Is(err, ErrInternal))
	assert.True(t, stderrors.Is(err, cause))
}

func TestWithHelpersDoNotMutateSentinels(t *testing.T) {
	original := ErrInvalidToken.Message

	derived := ErrInvalidToken.WithMessage("changed").WithMetadata("issuer", "x")
	assert.Equal(t, "changed", derived.Message)
	assert.Equal(t, original, ErrInvalidToken.Message)
	assert.Empty(t, ErrInvalidToken.Metadata)
}

func TestClassify(t *testing.T) {
	appErr := Classify(ErrForbidden)
	assert.Equal(t, CodeForbidden, appErr.Code)

	unknown := stderrors.New("boom")
	appErr = Classify(unknown)
	require.Equal(t, CodeInternal, appErr.Code)
	assert.True(t, stderrors.Is(appErr, unknown))
}

func TestAsAppError(t *testing.T) {
	_, ok := AsAppError(stderrors.New("plain"))
	assert.False(t, ok)

	appErr, ok := AsAppError(ErrRateLimited.WithMetadata("surface", "login"))
	require.True(t, ok)
	assert.Equal(t, CodeRateLimited, appErr.Code)
}
