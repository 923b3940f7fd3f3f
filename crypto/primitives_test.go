package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEphemeralAndX25519(t *testing.T) {
	t.Run("GenerateEphemeral", func(t *testing.T) {
		kp, err := GenerateEphemeral()
		require.NoError(t, err)
		assert.NotNil(t, kp.Private)
		assert.Len(t, kp.Public, 32)
	})

	t.Run("SharedSecretAgrees", func(t *testing.T) {
		a, err := GenerateEphemeral()
		require.NoError(t, err)
		b, err := GenerateEphemeral()
		require.NoError(t, err)

		s1, err := X25519(a.Private, b.Public[:])
		require.NoError(t, err)
		s2, err := X25519(b.Private, a.Public[:])
		require.NoError(t, err)
		assert.Equal(t, s1, s2)
	})

	t.Run("InvalidPeerKey", func(t *testing.T) {
		a, err := GenerateEphemeral()
		require.NoError(t, err)
		_, err = X25519(a.Private, []byte("too short"))
		assert.ErrorIs(t, err, ErrInvalidPeerKey)
	})
}

func TestDeriveKeys(t *testing.T) {
	ss := make([]byte, 32)
	_, err := rand.Read(ss)
	require.NoError(t, err)
	salt := make([]byte, 16)
	info := DeriveInfo(make([]byte, 32), make([]byte, 16))

	encKey, nonce, err := DeriveKeys(ss, salt, info)
	require.NoError(t, err)
	assert.Len(t, encKey, 32)
	assert.Len(t, nonce, 12)

	// Deterministic: same inputs yield same outputs.
	encKey2, nonce2, err := DeriveKeys(ss, salt, info)
	require.NoError(t, err)
	assert.Equal(t, encKey, encKey2)
	assert.Equal(t, nonce, nonce2)
}

func TestAEADSealOpenRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	aad := []byte("aad")
	pt := []byte("hello world")

	ct, err := AEADSeal(pt, key, nonce, aad)
	require.NoError(t, err)
	assert.Len(t, ct, len(pt)+16)

	got, err := AEADOpen(ct, key, nonce, aad)
	require.NoError(t, err)
	assert.Equal(t, pt, got)
}

func TestAEADOpenTamperRejected(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	aad := []byte("aad")
	ct, err := AEADSeal([]byte("secret"), key, nonce, aad)
	require.NoError(t, err)

	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x01

	_, err = AEADOpen(tampered, key, nonce, aad)
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = AEADOpen(ct, key, nonce, []byte("different aad"))
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestSignVerify(t *testing.T) {
	pub, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	msg := []byte("attest this")
	sig := Sign(sk, msg)
	assert.True(t, Verify(pub, msg, sig))

	sig[0] ^= 0x01
	assert.False(t, Verify(pub, msg, sig))
}

func TestFingerprintAndRKID(t *testing.T) {
	pub := make([]byte, 32)
	for i := range pub {
		pub[i] = byte(i)
	}
	fp := Fingerprint(pub)
	rkid := RKID(pub)
	assert.Equal(t, fp[24:], rkid[:])

	// Pure function of the public key.
	fp2 := Fingerprint(pub)
	assert.Equal(t, fp, fp2)
}

func TestCtEq(t *testing.T) {
	assert.True(t, CtEq([]byte("abc"), []byte("abc")))
	assert.False(t, CtEq([]byte("abc"), []byte("abd")))
	assert.False(t, CtEq([]byte("abc"), []byte("ab")))
}

func TestZeroize(t *testing.T) {
	buf := []byte("super secret key material")
	Zeroize(buf)
	for _, b := range buf {
		assert.Zero(t, b)
	}
}
