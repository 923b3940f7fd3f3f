package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentitySigning(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)
	assert.True(t, id.CanSign())
	assert.NotNil(t, id.Ed25519Pub)
	assert.Equal(t, StatusActive, id.Status)
	assert.Equal(t, 1, id.KeyVersion)
}

func TestNewIdentityWithoutSigning(t *testing.T) {
	id, err := NewIdentity("bob", true)
	require.NoError(t, err)
	assert.False(t, id.CanSign())
	assert.Nil(t, id.Ed25519Pub)
}

func TestFingerprintAndRKIDAreDerived(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)

	fp := id.Fingerprint()
	rkid := id.RKID()
	assert.Equal(t, fp[len(fp)-8:], rkid[:])
}

func TestRotateArchivesOldWhenRequested(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)

	next, err := id.Rotate(true)
	require.NoError(t, err)

	assert.Equal(t, StatusArchived, id.Status)
	assert.Equal(t, StatusActive, next.Status)
	assert.Equal(t, id.KeyVersion+1, next.KeyVersion)
	assert.Equal(t, id.Name, next.Name)
	assert.NotEqual(t, id.X25519PublicBytes(), next.X25519PublicBytes())
}

func TestRotateMarksRotatedWhenNotArchiving(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)

	_, err = id.Rotate(false)
	require.NoError(t, err)

	assert.Equal(t, StatusRotated, id.Status)
}

func TestRotateRejectsNonActiveIdentity(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)
	id.Archive()

	_, err = id.Rotate(true)
	assert.ErrorIs(t, err, ErrCannotRotateArchived)
}

func TestArchiveSetsStatus(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)
	id.Archive()
	assert.Equal(t, StatusArchived, id.Status)
}
