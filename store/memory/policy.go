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
	"sync"

	"github.com/whisper-project/whisper/policy"
)

// PolicyStore is an in-memory policy.Store guarded by a mutex; reads
// are far more frequent than writes so RWMutex matches the access
// pattern.
type PolicyStore struct {
	mu    sync.RWMutex
	flags policy.Flags
}

// NewPolicyStore creates a policy store with all flags off.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{}
}

func (s *PolicyStore) Flags() (policy.Flags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags, nil
}

func (s *PolicyStore) SetFlags(f policy.Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = f
	return nil
}
