package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsArray(t *testing.T) {
	var l StringList
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &l))
	assert.Equal(t, StringList{"a", "b"}, l)
}

func TestStringListAcceptsCommaSeparated(t *testing.T) {
	var l StringList
	require.NoError(t, json.Unmarshal([]byte(`"203.0.113.5, 198.51.100.7 ,"`), &l))
	assert.Equal(t, StringList{"203.0.113.5", "198.51.100.7"}, l)
}

func TestStringListRejectsOtherTypes(t *testing.T) {
	var l StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &l))
}

func TestLockUpdateRequestPartialDecode(t *testing.T) {
	var req LockUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"locked":true,"allowedIPs":"203.0.113.5"}`), &req))

	require.NotNil(t, req.Locked)
	assert.True(t, *req.Locked)
	require.NotNil(t, req.AllowedIPs)
	assert.Equal(t, StringList{"203.0.113.5"}, *req.AllowedIPs)
	assert.Nil(t, req.Enabled)
	assert.Nil(t, req.MaintenanceMode)
	assert.Nil(t, req.BlockedIPs)
}

func TestLockUpdateRequestRejectsStringBoolean(t *testing.T) {
	var req LockUpdateRequest
	assert.Error(t, json.Unmarshal([]byte(`{"locked":"yes"}`), &req))
}
