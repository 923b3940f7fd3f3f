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

package pipeline

import "github.com/whisper-project/whisper/identity"

// AttributionKind classifies how a decrypted message's sender was
// established. It is derived solely from cryptographic verification,
// never from a heuristic on a display name.
type AttributionKind string

const (
	// Signed means a signature was present and verified against a
	// known contact's Ed25519 key.
	Signed AttributionKind = "Signed"
	// SignedUnknown means a signature was present but verified
	// against no known contact.
	SignedUnknown AttributionKind = "SignedUnknown"
	// Unsigned means the envelope carried no signature at all.
	Unsigned AttributionKind = "Unsigned"
)

// Attribution is the result of decrypting an envelope: who, if anyone,
// cryptographically vouches for the plaintext.
type Attribution struct {
	Kind    AttributionKind
	Contact *identity.Contact // nil unless Kind == Signed
}
