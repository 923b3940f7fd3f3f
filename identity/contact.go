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

package identity

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	wcrypto "github.com/whisper-project/whisper/crypto"
)

// Trust is a contact's verification level.
type Trust string

const (
	TrustUnverified Trust = "unverified"
	TrustVerified   Trust = "verified"
	TrustRevoked    Trust = "revoked"
)

// KeyHistoryEntry records a contact's previous public key material,
// appended whenever the current key is superseded by rotation.
type KeyHistoryEntry struct {
	X25519Pub  []byte
	Ed25519Pub []byte
	ReplacedAt time.Time
}

// Contact is a peer's public material plus the trust/rotation
// bookkeeping the policy gate and decryption pipeline consult.
// rkid and Fingerprint are pure functions of X25519Pub — never stored
// independently of it except as a cache recomputed on every mutation.
type Contact struct {
	ID          uuid.UUID
	Name        string
	X25519Pub   []byte
	Ed25519Pub  []byte // nil if the contact never shared a signing key
	Trust       Trust
	Blocked     bool
	KeyVersion  int
	KeyHistory  []KeyHistoryEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContactFromBundle creates a new, unverified Contact from a peer's
// published Bundle. A present but malformed Ed25519 public key is
// dropped rather than stored, since a signature can never verify
// against it anyway.
func ContactFromBundle(b Bundle) *Contact {
	now := time.Now()
	c := &Contact{
		ID:         b.ID,
		Name:       b.Name,
		X25519Pub:  append([]byte(nil), b.X25519Pub...),
		Trust:      TrustUnverified,
		KeyVersion: b.KeyVersion,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if len(b.Ed25519Pub) > 0 && validEdPublicKey(b.Ed25519Pub) {
		c.Ed25519Pub = append([]byte(nil), b.Ed25519Pub...)
	}
	return c
}

// Fingerprint returns SHA-256(X25519Pub).
func (c *Contact) Fingerprint() [32]byte {
	return wcrypto.Fingerprint(c.X25519Pub)
}

// ShortFingerprint returns the grouped 12-hex-char prefix of Fingerprint.
func (c *Contact) ShortFingerprint() string {
	return ShortFingerprint(c.Fingerprint())
}

// SASWords returns the 6 SAS verification words for this contact.
func (c *Contact) SASWords() [6]string {
	return SASWords(c.Fingerprint())
}

// RKID returns the last 8 bytes of Fingerprint.
func (c *Contact) RKID() [8]byte {
	return wcrypto.RKID(c.X25519Pub)
}

// RotateKey applies spec.md §4.4's rotation rule: if newX25519Pub
// differs from the current key, the old key+time is appended to
// KeyHistory, the current key is overwritten, and Trust resets to
// unverified. It reports whether a rotation actually occurred (the
// "needs re-verification" signal for the UI layer).
func (c *Contact) RotateKey(newX25519Pub, newEd25519Pub []byte) (rotated bool) {
	if bytes.Equal(c.X25519Pub, newX25519Pub) {
		return false
	}

	now := time.Now()
	c.KeyHistory = append(c.KeyHistory, KeyHistoryEntry{
		X25519Pub:  append([]byte(nil), c.X25519Pub...),
		Ed25519Pub: append([]byte(nil), c.Ed25519Pub...),
		ReplacedAt: now,
	})

	c.X25519Pub = append([]byte(nil), newX25519Pub...)
	if len(newEd25519Pub) > 0 && validEdPublicKey(newEd25519Pub) {
		c.Ed25519Pub = append([]byte(nil), newEd25519Pub...)
	} else {
		c.Ed25519Pub = nil
	}
	c.Trust = TrustUnverified
	c.KeyVersion++
	c.UpdatedAt = now
	return true
}
