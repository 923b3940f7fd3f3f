package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEdPublicKeyAcceptsRealKey(t *testing.T) {
	id, err := NewIdentity("alice", false)
	require.NoError(t, err)
	assert.True(t, validEdPublicKey(id.Ed25519Pub))
}

func TestValidEdPublicKeyRejectsGarbage(t *testing.T) {
	garbage := make([]byte, 32)
	for i := range garbage {
		garbage[i] = 0xff
	}
	assert.False(t, validEdPublicKey(garbage))
}

func TestValidEdPublicKeyRejectsWrongLength(t *testing.T) {
	assert.False(t, validEdPublicKey([]byte{1, 2, 3}))
}

func TestContactFromBundleDropsMalformedEdKey(t *testing.T) {
	b := sampleBundle(t)
	b.Ed25519Pub = []byte{0xff, 0xff, 0xff}

	c := ContactFromBundle(b)
	assert.Nil(t, c.Ed25519Pub)
}
