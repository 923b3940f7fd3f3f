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

// Package memory provides in-process reference implementations of the
// store interfaces, grounded on the teacher's in-memory key storage
// adapter (sync.RWMutex-guarded maps with sorted listing). Suitable
// for tests and single-process deployments; not durable across
// restarts.
package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/whisper-project/whisper/identity"
	"github.com/whisper-project/whisper/store"
)

// IdentityStore is an in-memory store.IdentityStore.
type IdentityStore struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*identity.Identity
	activeID uuid.UUID
	hasActive bool
}

// NewIdentityStore creates an empty in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{byID: make(map[uuid.UUID]*identity.Identity)}
}

func (s *IdentityStore) List() ([]*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*identity.Identity, 0, len(s.byID))
	for _, id := range s.byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *IdentityStore) FindByRKID(rkid [8]byte) (*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.byID {
		if id.RKID() == rkid {
			return id, nil
		}
	}
	return nil, store.ErrIdentityNotFound
}

func (s *IdentityStore) Active() (*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasActive {
		return nil, store.ErrNoActiveIdentity
	}
	id, ok := s.byID[s.activeID]
	if !ok {
		return nil, store.ErrNoActiveIdentity
	}
	return id, nil
}

func (s *IdentityStore) Create(name string) (*identity.Identity, error) {
	id, err := identity.NewIdentity(name, false)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[id.ID] = id
	s.activeID = id.ID
	s.hasActive = true
	return id, nil
}

func (s *IdentityStore) Rotate(active *identity.Identity) (*identity.Identity, error) {
	next, err := active.Rotate(false)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[next.ID] = next
	s.activeID = next.ID
	s.hasActive = true
	return next, nil
}

func (s *IdentityStore) Archive(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.byID[id]
	if !ok {
		return store.ErrIdentityNotFound
	}
	found.Archive()
	if s.activeID == id {
		s.hasActive = false
	}
	return nil
}
