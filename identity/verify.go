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
	"errors"

	"filippo.io/edwards25519"
)

// ErrInvalidEdPublicKey names a bundle Ed25519 public key that does
// not decompress to a point on the curve. ContactFromBundle and
// RotateKey drop such a key; neither returns this error.
var ErrInvalidEdPublicKey = errors.New("identity: invalid ed25519 public key encoding")

// validEdPublicKey reports whether raw decompresses to a valid
// edwards25519 point. ed25519.Verify does not itself reject a
// malformed public key up front; a contact bundle is untrusted input,
// so ContactFromBundle checks this before the key is ever stored.
func validEdPublicKey(raw []byte) bool {
	if len(raw) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
