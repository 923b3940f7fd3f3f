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

// Package crypto provides the cryptographic primitives the whisper
// message pipeline is built on: X25519 key agreement, HKDF-SHA256 key
// derivation, ChaCha20-Poly1305 AEAD, Ed25519 signatures, and the
// supporting CSPRNG/fingerprint/constant-time/zeroize helpers.
package crypto

import "errors"

// Sentinel errors for primitive-level failures.
var (
	ErrInvalidPeerKey  = errors.New("crypto: invalid peer public key")
	ErrAuthFailed       = errors.New("crypto: AEAD authentication failed")
	ErrInvalidSignature = errors.New("crypto: signature verification failed")
	ErrLowOrderPoint    = errors.New("crypto: low-order or identity ECDH point")
)
