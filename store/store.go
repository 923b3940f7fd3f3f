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

// Package store defines the persistence interfaces the pipeline
// depends on (spec.md §6). Concrete adapters live under store/memory
// and, for real deployments, whatever external package the embedding
// application wires in.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/whisper-project/whisper/identity"
)

var (
	ErrIdentityNotFound = errors.New("store: identity not found")
	ErrContactNotFound  = errors.New("store: contact not found")
	ErrNoActiveIdentity = errors.New("store: no active identity")
)

// IdentityStore manages the set of Identities an application holds.
type IdentityStore interface {
	List() ([]*identity.Identity, error)
	FindByRKID(rkid [8]byte) (*identity.Identity, error)
	Active() (*identity.Identity, error)
	Create(name string) (*identity.Identity, error)
	Rotate(active *identity.Identity) (*identity.Identity, error)
	Archive(id uuid.UUID) error
}

// ContactStore manages the set of known Contacts.
type ContactStore interface {
	List() ([]*identity.Contact, error)
	ByRKID(rkid [8]byte) (*identity.Contact, error)
	Add(c *identity.Contact) error
	Update(c *identity.Contact) error
	RecordKeyRotation(id uuid.UUID, newX25519Pub, newEd25519Pub []byte) error
}

// SigningOutcome is the result of a SigningOracle.Sign call.
type SigningOutcome int

const (
	SignOK SigningOutcome = iota
	SignCancelled
	SignFailed
	SignUnavailable
)

// SigningOracle produces Ed25519 signatures, potentially gated behind
// a user-presence check and therefore potentially slow or cancellable.
// ctx cancellation MUST propagate as SignCancelled, not a bare error.
type SigningOracle interface {
	Sign(ctx context.Context, data []byte, keyRef uuid.UUID) ([]byte, SigningOutcome, error)
}
