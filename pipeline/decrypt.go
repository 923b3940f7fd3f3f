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

import (
	"time"

	wcrypto "github.com/whisper-project/whisper/crypto"
	"github.com/whisper-project/whisper/crypto/pad"
	"github.com/whisper-project/whisper/envelope"
	"github.com/whisper-project/whisper/identity"
	"github.com/whisper-project/whisper/replay"
)

// Result is the outcome of a successful Decrypt call.
type Result struct {
	Plaintext   []byte
	Attribution Attribution
}

// Decrypt implements spec.md §4.8. identities and contacts are the
// candidate sets this recipient knows about; Decrypt selects the
// unique matching identity by rkid and, when the envelope is signed,
// the contact whose Ed25519 key verifies it.
func (p *Pipeline) Decrypt(raw string, identities []*identity.Identity, contacts []*identity.Contact) (*Result, error) {
	comp, err := envelope.Parse(raw)
	if err != nil {
		return nil, wrapErr(InvalidEnvelope, err)
	}

	if !replay.WithinFreshness(comp.Timestamp, time.Now()) {
		return nil, newErr(MessageExpired)
	}

	me, err := routeTo(comp.RKID, identities)
	if err != nil {
		return nil, err
	}

	if p.Guard.CheckAndCommit(comp.MsgID, comp.Timestamp) == replay.Duplicate {
		return nil, newErr(ReplayDetected)
	}

	ss, err := wcrypto.X25519(me.X25519Priv, comp.EPK[:])
	if err != nil {
		return nil, wrapErr(CryptographicFailure, err)
	}
	defer wcrypto.Zeroize(ss)

	info := wcrypto.DeriveInfo(comp.EPK[:], comp.MsgID[:])
	decKey, nonce, err := wcrypto.DeriveKeys(ss, comp.Salt[:], info)
	if err != nil {
		return nil, wrapErr(CryptographicFailure, err)
	}
	defer wcrypto.Zeroize(decKey)

	recipientFP := me.Fingerprint()

	var matched *identity.Contact
	var aad []byte
	if comp.Signed() {
		for _, c := range contacts {
			if c.Ed25519Pub == nil {
				continue
			}
			senderFP := c.Fingerprint()
			candidateAAD := envelope.CanonicalAAD(senderFP, recipientFP, comp.Flags, comp.RKID, comp.EPK, comp.Salt, comp.MsgID, comp.Timestamp)
			if wcrypto.Verify(c.Ed25519Pub, append(candidateAAD, comp.Ciphertext...), comp.Signature) {
				matched = c
				aad = candidateAAD
				break
			}
		}
		if aad == nil {
			fallbackFP := wcrypto.Fingerprint(comp.EPK[:])
			aad = envelope.CanonicalAAD(fallbackFP, recipientFP, comp.Flags, comp.RKID, comp.EPK, comp.Salt, comp.MsgID, comp.Timestamp)
		}
	} else {
		fallbackFP := wcrypto.Fingerprint(comp.EPK[:])
		aad = envelope.CanonicalAAD(fallbackFP, recipientFP, comp.Flags, comp.RKID, comp.EPK, comp.Salt, comp.MsgID, comp.Timestamp)
	}

	pp, err := wcrypto.AEADOpen(comp.Ciphertext, decKey, nonce, aad)
	if err != nil {
		debugf("aead open failed for msgid %x: %v", comp.MsgID, err)
		return nil, wrapErr(CryptographicFailure, err)
	}
	defer wcrypto.Zeroize(pp)

	plaintext, err := pad.Unpad(pp)
	if err != nil {
		return nil, wrapErr(InvalidPadding, err)
	}

	attr := Attribution{Kind: Unsigned}
	if comp.Signed() {
		if matched != nil {
			attr = Attribution{Kind: Signed, Contact: matched}
		} else {
			attr = Attribution{Kind: SignedUnknown}
		}
	}

	return &Result{Plaintext: plaintext, Attribution: attr}, nil
}

func routeTo(rkid [envelope.RKIDLen]byte, identities []*identity.Identity) (*identity.Identity, error) {
	for _, id := range identities {
		if id.RKID() == rkid {
			return id, nil
		}
	}
	return nil, newErr(MessageNotForMe)
}
