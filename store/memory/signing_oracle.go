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
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/google/uuid"
	wcrypto "github.com/whisper-project/whisper/crypto"
	"github.com/whisper-project/whisper/store"
)

// DirectSigningOracle signs with an in-process Ed25519 private key
// registered per identity id. It performs no user-presence check; it
// exists for tests and for deployments where the biometric_gated_signing
// policy flag is off and a hardware-backed oracle is unnecessary.
type DirectSigningOracle struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]ed25519.PrivateKey
}

// NewDirectSigningOracle creates an oracle with no registered keys.
func NewDirectSigningOracle() *DirectSigningOracle {
	return &DirectSigningOracle{keys: make(map[uuid.UUID]ed25519.PrivateKey)}
}

// Register associates keyRef with a private key available for Sign.
func (o *DirectSigningOracle) Register(keyRef uuid.UUID, priv ed25519.PrivateKey) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.keys[keyRef] = priv
}

func (o *DirectSigningOracle) Sign(ctx context.Context, data []byte, keyRef uuid.UUID) ([]byte, store.SigningOutcome, error) {
	select {
	case <-ctx.Done():
		return nil, store.SignCancelled, ctx.Err()
	default:
	}

	o.mu.RLock()
	priv, ok := o.keys[keyRef]
	o.mu.RUnlock()
	if !ok {
		return nil, store.SignUnavailable, nil
	}

	sig := wcrypto.Sign(priv, data)
	return sig, store.SignOK, nil
}
