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
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Bundle is the shareable projection of an Identity's public material
// (spec.md §3, §6). It is what gets exported to a QR code or JSON
// payload by the (out-of-core) transport layer, and what the contact
// store turns into a Contact via ContactFromBundle.
type Bundle struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	X25519Pub   []byte    `json:"x25519_pub"`
	Ed25519Pub  []byte    `json:"ed25519_pub,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	KeyVersion  int       `json:"key_version"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildBundle produces the shareable public-key bundle for id.
func BuildBundle(id *Identity) Bundle {
	fp := id.Fingerprint()
	b := Bundle{
		ID:          id.ID,
		Name:        id.Name,
		X25519Pub:   append([]byte(nil), id.X25519PublicBytes()...),
		Fingerprint: hex.EncodeToString(fp[:]),
		KeyVersion:  id.KeyVersion,
		CreatedAt:   id.CreatedAt,
	}
	if id.Ed25519Pub != nil {
		b.Ed25519Pub = append([]byte(nil), id.Ed25519Pub...)
	}
	return b
}
