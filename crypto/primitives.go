// Copyright (C) 2025 whisper-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package crypto

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// EphemeralKeyPair holds an X25519 private key and its public key
// bytes for a single pipeline invocation. The private scalar lives
// inside *ecdh.PrivateKey, which exposes no buffer that can be
// overwritten; Zeroize clears only Public.
type EphemeralKeyPair struct {
	Private *ecdh.PrivateKey
	Public  [32]byte
}

// GenerateEphemeral produces a fresh X25519 key pair from the CSPRNG.
func GenerateEphemeral() (*EphemeralKeyPair, error) {
	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: generate ephemeral key: %w", err)
	}
	kp := &EphemeralKeyPair{Private: priv}
	copy(kp.Public[:], priv.PublicKey().Bytes())
	return kp, nil
}

// Zeroize overwrites kp's public key bytes. The private scalar is not
// overwritten: the underlying *ecdh.PrivateKey cannot be scrubbed (the
// stdlib keeps no exported mutable buffer).
func (kp *EphemeralKeyPair) Zeroize() {
	if kp == nil {
		return
	}
	for i := range kp.Public {
		kp.Public[i] = 0
	}
}

// X25519 performs the Diffie-Hellman exchange between sk and the
// peer's raw 32-byte public key, rejecting low-order/identity results.
func X25519(sk *ecdh.PrivateKey, peerPub []byte) ([]byte, error) {
	peer, err := ecdh.X25519().NewPublicKey(peerPub)
	if err != nil {
		return nil, ErrInvalidPeerKey
	}
	shared, err := sk.ECDH(peer)
	if err != nil {
		return nil, fmt.Errorf("crypto: ecdh: %w", err)
	}
	var zero [32]byte
	if subtle.ConstantTimeCompare(shared, zero[:]) == 1 {
		Zeroize(shared)
		return nil, ErrLowOrderPoint
	}
	return shared, nil
}

// DeriveKeys implements HKDF-SHA256(extract=salt, info=info) over ss,
// returning 44 bytes split into a 32-byte AEAD key and a 12-byte nonce.
func DeriveKeys(ss, salt, info []byte) (encKey, nonce []byte, err error) {
	h := hkdf.New(sha256.New, ss, salt, info)
	out := make([]byte, 44)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, nil, fmt.Errorf("crypto: hkdf expand: %w", err)
	}
	return out[:32], out[32:44], nil
}

// DeriveInfo builds the literal info string required by spec:
// "whisper-v1" || epk || msgid.
func DeriveInfo(epk, msgid []byte) []byte {
	out := make([]byte, 0, len("whisper-v1")+len(epk)+len(msgid))
	out = append(out, []byte("whisper-v1")...)
	out = append(out, epk...)
	out = append(out, msgid...)
	return out
}

// AEADSeal encrypts pt with ChaCha20-Poly1305 under key/nonce/aad.
func AEADSeal(pt, key, nonce, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new aead: %w", err)
	}
	return aead.Seal(nil, nonce, pt, aad), nil
}

// AEADOpen decrypts ct, returning ErrAuthFailed (never a detailed
// reason) on any authentication failure. golang.org/x/crypto's
// Poly1305 tag comparison is constant-time internally.
func AEADOpen(ct, key, nonce, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new aead: %w", err)
	}
	pt, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return pt, nil
}

// Sign produces an Ed25519 signature over msg.
func Sign(sk ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(sk, msg)
}

// Verify reports whether sig is a valid Ed25519 signature over msg
// under pk.
func Verify(pk ed25519.PublicKey, msg, sig []byte) bool {
	return ed25519.Verify(pk, msg, sig)
}

// CSPRNG returns n bytes of cryptographic randomness.
func CSPRNG(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("crypto: csprng: %w", err)
	}
	return buf, nil
}

// Fingerprint returns SHA-256(x25519Pub).
func Fingerprint(x25519Pub []byte) [32]byte {
	return sha256.Sum256(x25519Pub)
}

// RKID returns the last 8 bytes of Fingerprint(x25519Pub), the
// recipient key id used to route an envelope to an identity.
func RKID(x25519Pub []byte) [8]byte {
	fp := Fingerprint(x25519Pub)
	var id [8]byte
	copy(id[:], fp[24:])
	return id
}

// CtEq performs a constant-time byte-slice comparison.
func CtEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites buf with zero bytes. Best-effort: the Go runtime
// may have copied buf's contents elsewhere (GC moves, register
// spills) before this call, but it removes the one reference the
// caller controls directly.
func Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
