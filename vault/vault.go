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

// Package vault implements the identity backup/restore the core
// depends on but does not specify a wire format for (spec.md §6): an
// opaque, passphrase-encrypted blob of an Identity's private material.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/whisper-project/whisper/identity"
)

var (
	ErrInvalidPassphrase = errors.New("vault: invalid passphrase")
	ErrCorruptBackup     = errors.New("vault: corrupt backup")
)

const pbkdf2Iterations = 100_000
const saltLen = 32

// blob is the JSON payload encrypted under the passphrase-derived key.
// It carries everything NewIdentity would otherwise regenerate.
type blob struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	X25519Priv  []byte    `json:"x25519_priv"`
	Ed25519Priv []byte    `json:"ed25519_priv,omitempty"`
	Ed25519Pub  []byte    `json:"ed25519_pub,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	KeyVersion  int       `json:"key_version"`
}

// envelope is the opaque backup format: a PBKDF2-derived AES-256-GCM
// seal over a JSON-encoded blob.
type envelope struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Backup produces an opaque, passphrase-encrypted blob of id's private
// material.
func Backup(id *identity.Identity, passphrase string) ([]byte, error) {
	b := blob{
		ID:          id.ID,
		Name:        id.Name,
		X25519Priv:  id.X25519Priv.Bytes(),
		CreatedAt:   id.CreatedAt,
		Status:      string(id.Status),
		KeyVersion:  id.KeyVersion,
	}
	if id.Ed25519Priv != nil {
		b.Ed25519Priv = append([]byte(nil), id.Ed25519Priv...)
		b.Ed25519Pub = append([]byte(nil), id.Ed25519Pub...)
	}

	plaintext, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("vault: marshal identity: %w", err)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("vault: generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: new gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("vault: generate nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, plaintext, nil)

	return json.Marshal(envelope{Salt: salt, Nonce: nonce, Ciphertext: ct})
}

// Restore decrypts data with passphrase and reconstructs the Identity
// it was backed up from.
func Restore(data []byte, passphrase string) (*identity.Identity, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrCorruptBackup
	}

	key := pbkdf2.Key([]byte(passphrase), env.Salt, pbkdf2Iterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: new gcm: %w", err)
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, ErrCorruptBackup
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}

	var b blob
	if err := json.Unmarshal(plaintext, &b); err != nil {
		return nil, ErrCorruptBackup
	}

	priv, err := ecdh.X25519().NewPrivateKey(b.X25519Priv)
	if err != nil {
		return nil, ErrCorruptBackup
	}

	id := &identity.Identity{
		ID:         b.ID,
		Name:       b.Name,
		X25519Priv: priv,
		CreatedAt:  b.CreatedAt,
		Status:     identity.Status(b.Status),
		KeyVersion: b.KeyVersion,
	}
	if b.Ed25519Priv != nil {
		id.Ed25519Priv = ed25519.PrivateKey(b.Ed25519Priv)
		id.Ed25519Pub = ed25519.PublicKey(b.Ed25519Pub)
	}
	return id, nil
}
