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
	"context"
	"time"

	"github.com/google/uuid"
	wcrypto "github.com/whisper-project/whisper/crypto"
	"github.com/whisper-project/whisper/crypto/pad"
	"github.com/whisper-project/whisper/envelope"
	"github.com/whisper-project/whisper/identity"
	"github.com/whisper-project/whisper/policy"
	"github.com/whisper-project/whisper/replay"
	"github.com/whisper-project/whisper/store"
)

// Recipient names the send target: exactly one of Contact or
// RawPublicKey must be set. A raw key send is only permitted when the
// contact_required_to_send policy flag is off.
type Recipient struct {
	Contact      *identity.Contact
	RawPublicKey []byte
}

func (r Recipient) publicKey() []byte {
	if r.Contact != nil {
		return r.Contact.X25519Pub
	}
	return r.RawPublicKey
}

// Pipeline wires the stateful collaborators the encrypt/decrypt
// operations consult: the replay guard, the policy gate, and the
// signing oracle used when a caller requests a signed envelope.
type Pipeline struct {
	Gate   *policy.Gate
	Guard  ReplayJournal
	Oracle store.SigningOracle
}

// ReplayJournal is the subset of replay.Guard's surface the pipeline
// depends on; *replay.Guard satisfies it directly.
type ReplayJournal interface {
	CheckAndCommit(msgid [16]byte, ts int64) replay.Outcome
}

// Encrypt implements spec.md §4.7. sign requests a signature; it
// requires p.Oracle to be set and sender.ID registered with it.
func (p *Pipeline) Encrypt(ctx context.Context, plaintext []byte, sender *identity.Identity, recipient Recipient, sign bool) (string, error) {
	if err := p.Gate.CheckSend(recipient.Contact, sign); err != nil {
		return "", fromPolicyError(err)
	}

	recipientPK := recipient.publicKey()

	pp, err := pad.Pad(plaintext)
	if err != nil {
		return "", wrapErr(InvalidPadding, err)
	}
	defer wcrypto.Zeroize(pp)

	eph, err := wcrypto.GenerateEphemeral()
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}
	defer eph.Zeroize()

	saltB, err := wcrypto.CSPRNG(envelope.SaltLen)
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}
	msgidB, err := wcrypto.CSPRNG(envelope.MsgIDLen)
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}
	ts := time.Now().Unix()

	ss, err := wcrypto.X25519(eph.Private, recipientPK)
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}
	defer wcrypto.Zeroize(ss)

	info := wcrypto.DeriveInfo(eph.Public[:], msgidB)
	encKey, nonce, err := wcrypto.DeriveKeys(ss, saltB, info)
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}
	defer wcrypto.Zeroize(encKey)

	rkid := wcrypto.RKID(recipientPK)

	var flags byte
	if sign {
		flags = envelope.FlagSigned
	}

	var senderFP [32]byte
	if sign {
		senderFP = sender.Fingerprint()
	} else {
		senderFP = wcrypto.Fingerprint(eph.Public[:])
	}
	recipientFP := wcrypto.Fingerprint(recipientPK)

	var salt [envelope.SaltLen]byte
	var msgid [envelope.MsgIDLen]byte
	var epk [envelope.EPKLen]byte
	copy(salt[:], saltB)
	copy(msgid[:], msgidB)
	copy(epk[:], eph.Public[:])

	aad := envelope.CanonicalAAD(senderFP, recipientFP, flags, rkid, epk, salt, msgid, ts)

	ct, err := wcrypto.AEADSeal(pp, encKey, nonce, aad)
	if err != nil {
		return "", wrapErr(CryptographicFailure, err)
	}

	var sig []byte
	if sign {
		sig, err = p.sign(ctx, append(aad, ct...), sender.ID)
		if err != nil {
			return "", err
		}
	}

	s, err := envelope.Build(envelope.Components{
		RKID:       rkid,
		Flags:      flags,
		EPK:        epk,
		Salt:       salt,
		MsgID:      msgid,
		Timestamp:  ts,
		Ciphertext: ct,
		Signature:  sig,
	})
	if err != nil {
		return "", wrapErr(InvalidEnvelope, err)
	}
	return s, nil
}

func (p *Pipeline) sign(ctx context.Context, data []byte, keyRef uuid.UUID) ([]byte, error) {
	sig, outcome, err := p.Oracle.Sign(ctx, data, keyRef)
	switch outcome {
	case store.SignOK:
		return sig, nil
	case store.SignCancelled:
		return nil, wrapErr(BiometricAuthenticationFailed, err)
	case store.SignUnavailable:
		return nil, wrapErr(KeyNotFound, err)
	default:
		return nil, wrapErr(CryptographicFailure, err)
	}
}
