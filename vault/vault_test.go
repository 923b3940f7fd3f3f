package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisper-project/whisper/identity"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	id, err := identity.NewIdentity("alice", false)
	require.NoError(t, err)

	data, err := Backup(id, "correct horse battery staple")
	require.NoError(t, err)

	restored, err := Restore(data, "correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, id.ID, restored.ID)
	assert.Equal(t, id.Name, restored.Name)
	assert.Equal(t, id.X25519PublicBytes(), restored.X25519PublicBytes())
	assert.Equal(t, id.Ed25519Pub, restored.Ed25519Pub)
	assert.Equal(t, id.KeyVersion, restored.KeyVersion)
}

func TestRestoreWithWrongPassphraseFails(t *testing.T) {
	id, err := identity.NewIdentity("bob", false)
	require.NoError(t, err)

	data, err := Backup(id, "right passphrase")
	require.NoError(t, err)

	_, err = Restore(data, "wrong passphrase")
	assert.ErrorIs(t, err, ErrInvalidPassphrase)
}

func TestRestoreCorruptDataFails(t *testing.T) {
	_, err := Restore([]byte("not json at all"), "whatever")
	assert.ErrorIs(t, err, ErrCorruptBackup)
}

func TestBackupWithoutSigningKey(t *testing.T) {
	id, err := identity.NewIdentity("carol", true)
	require.NoError(t, err)

	data, err := Backup(id, "pw")
	require.NoError(t, err)

	restored, err := Restore(data, "pw")
	require.NoError(t, err)
	assert.Nil(t, restored.Ed25519Priv)
	assert.False(t, restored.CanSign())
}
