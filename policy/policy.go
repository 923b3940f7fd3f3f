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

// Package policy implements the send/receive gate the pipeline
// consults before touching cryptographic material.
package policy

import (
	"fmt"

	"github.com/whisper-project/whisper/identity"
)

// Kind enumerates the reasons a policy check can fail.
type Kind string

const (
	ContactRequired  Kind = "ContactRequired"
	SignatureRequired Kind = "SignatureRequired"
	RawKeyBlocked     Kind = "RawKeyBlocked"
	BiometricRequired Kind = "BiometricRequired"
)

// Error is returned whenever the gate rejects an operation. It
// carries a Kind so callers can branch on the stable label without
// string-matching Error().
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("policy: %s", e.Kind)
}

// Flags are the four boolean knobs spec.md §4.6 names. They are
// persisted out-of-core by a Store implementation (config file,
// database row, in-memory default).
type Flags struct {
	ContactRequiredToSend       bool
	RequireSignatureForVerified bool
	AutoArchiveOnRotation       bool
	BiometricGatedSigning       bool
}

// Store reads and writes the four policy flags.
type Store interface {
	Flags() (Flags, error)
	SetFlags(Flags) error
}

// Gate evaluates send/receive operations against a Store's current
// Flags plus the invariants that hold regardless of configuration.
type Gate struct {
	store Store
}

// NewGate builds a Gate backed by store.
func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// CheckSend validates an outbound message against the policy gate.
// recipient is nil when the send target is a raw public key rather
// than a known Contact. sign reports whether the caller intends to
// sign the envelope.
func (g *Gate) CheckSend(recipient *identity.Contact, sign bool) error {
	flags, err := g.store.Flags()
	if err != nil {
		return err
	}

	if recipient == nil {
		if flags.ContactRequiredToSend {
			return &Error{Kind: ContactRequired}
		}
		return nil
	}

	if recipient.Blocked {
		return &Error{Kind: RawKeyBlocked}
	}
	if recipient.Trust == identity.TrustRevoked {
		return &Error{Kind: RawKeyBlocked}
	}
	if flags.RequireSignatureForVerified && recipient.Trust == identity.TrustVerified && !sign {
		return &Error{Kind: SignatureRequired}
	}
	return nil
}

// AutoArchiveOnRotation reports whether a just-rotated identity
// should move directly to archived status.
func (g *Gate) AutoArchiveOnRotation() (bool, error) {
	flags, err := g.store.Flags()
	if err != nil {
		return false, err
	}
	return flags.AutoArchiveOnRotation, nil
}

// RequiresBiometric reports whether the signing oracle must perform
// a user-presence check before producing a signature.
func (g *Gate) RequiresBiometric() (bool, error) {
	flags, err := g.store.Flags()
	if err != nil {
		return false, err
	}
	return flags.BiometricGatedSigning, nil
}
