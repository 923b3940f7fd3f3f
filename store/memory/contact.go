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

package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/whisper-project/whisper/identity"
	"github.com/whisper-project/whisper/store"
)

// ContactStore is an in-memory store.ContactStore.
type ContactStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*identity.Contact
}

// NewContactStore creates an empty in-memory contact store.
func NewContactStore() *ContactStore {
	return &ContactStore{byID: make(map[uuid.UUID]*identity.Contact)}
}

func (s *ContactStore) List() ([]*identity.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*identity.Contact, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *ContactStore) ByRKID(rkid [8]byte) (*identity.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.byID {
		if c.RKID() == rkid {
			return c, nil
		}
	}
	return nil, store.ErrContactNotFound
}

func (s *ContactStore) Add(c *identity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = c
	return nil
}

func (s *ContactStore) Update(c *identity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.ID]; !ok {
		return store.ErrContactNotFound
	}
	s.byID[c.ID] = c
	return nil
}

func (s *ContactStore) RecordKeyRotation(id uuid.UUID, newX25519Pub, newEd25519Pub []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return store.ErrContactNotFound
	}
	c.RotateKey(newX25519Pub, newEd25519Pub)
	return nil
}
