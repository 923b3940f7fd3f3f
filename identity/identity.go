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

// Package identity models the ownership root (Identity) and the peer
// trust model (Contact) the encryption/decryption pipeline consumes.
package identity

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	wcrypto "github.com/whisper-project/whisper/crypto"
)

// Status is the lifecycle state of an Identity.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusRotated  Status = "rotated"
)

var (
	// ErrCannotRotateArchived is returned by Rotate on a non-active identity.
	ErrCannotRotateArchived = errors.New("identity: cannot rotate a non-active identity")
)

// Identity is an ownership root: a stable id, an X25519 keypair used
// for ECDH, and an optional Ed25519 keypair used for signing. The
// Ed25519 private key may be nil when signing is gated behind an
// external oracle (spec.md §3 invariant).
type Identity struct {
	ID          uuid.UUID
	Name        string
	X25519Priv  *ecdh.PrivateKey
	Ed25519Priv ed25519.PrivateKey // nil if gated behind a signing oracle
	Ed25519Pub  ed25519.PublicKey  // always present when signing is supported
	CreatedAt   time.Time
	Status      Status
	KeyVersion  int
}

// NewIdentity creates a fresh Identity with a freshly generated
// X25519 keypair and, unless withoutSigning is set, an Ed25519
// keypair.
func NewIdentity(name string, withoutSigning bool) (*Identity, error) {
	x25519Priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		ID:         uuid.New(),
		Name:       name,
		X25519Priv: x25519Priv,
		CreatedAt:  time.Now(),
		Status:     StatusActive,
		KeyVersion: 1,
	}

	if !withoutSigning {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		id.Ed25519Priv = priv
		id.Ed25519Pub = pub
	}

	return id, nil
}

// X25519PublicBytes returns the raw 32-byte X25519 public key.
func (id *Identity) X25519PublicBytes() []byte {
	return id.X25519Priv.PublicKey().Bytes()
}

// Fingerprint returns SHA-256(X25519 public key).
func (id *Identity) Fingerprint() [32]byte {
	return wcrypto.Fingerprint(id.X25519PublicBytes())
}

// RKID returns the last 8 bytes of Fingerprint, used to route
// envelopes addressed to this identity.
func (id *Identity) RKID() [8]byte {
	return wcrypto.RKID(id.X25519PublicBytes())
}

// CanSign reports whether this identity holds signing key material
// directly (as opposed to behind an external oracle).
func (id *Identity) CanSign() bool {
	return id.Ed25519Priv != nil
}

// Rotate produces a new Identity with key-version incremented and
// status active; the receiver's status becomes archived only if
// archiveOld is set (the auto_archive_on_rotation policy flag,
// spec.md §4.6), otherwise it becomes rotated.
func (id *Identity) Rotate(archiveOld bool) (*Identity, error) {
	if id.Status != StatusActive {
		return nil, ErrCannotRotateArchived
	}

	next, err := NewIdentity(id.Name, !id.CanSign())
	if err != nil {
		return nil, err
	}
	next.KeyVersion = id.KeyVersion + 1

	if archiveOld {
		id.Status = StatusArchived
	} else {
		id.Status = StatusRotated
	}

	return next, nil
}

// Archive moves the identity to decrypt-only status.
func (id *Identity) Archive() {
	id.Status = StatusArchived
}
