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

// Package envelope serializes and parses the whisper1: text envelope
// and builds the canonical AAD bound into every AEAD call.
package envelope

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
)

// Prefix is the public envelope detection marker.
const Prefix = "whisper1:"

// version is the only wire version this codec understands.
const version = "v1.c20p"

// MaxCiphertextLen bounds the ciphertext field (including the AEAD
// tag) before Base64 decoding, guarding Parse against unbounded
// allocation from a hostile envelope (spec.md §9, open question 3).
const MaxCiphertextLen = 1 << 20 // 1 MiB

// Field byte widths, pre-encoding.
const (
	RKIDLen  = 8
	FlagsLen = 1
	EPKLen   = 32
	SaltLen  = 16
	MsgIDLen = 16
	TSLen    = 8
	SigLen   = 64
)

// FlagSigned is bit 0 of the flags byte: a signature field follows
// the ciphertext. All other bits are reserved and MUST be zero.
const FlagSigned byte = 0x01

const reservedFlagMask = ^FlagSigned

// ErrInvalidEnvelope is the single opaque error for any malformed
// envelope: wrong field count, bad version, wrong field length, a
// reserved flag bit set, or an oversized ciphertext. It never carries
// parse-position detail to the caller.
var ErrInvalidEnvelope = errors.New("envelope: invalid envelope")

// Components is the parsed form of a wire envelope.
type Components struct {
	RKID      [RKIDLen]byte
	Flags     byte
	EPK       [EPKLen]byte
	Salt      [SaltLen]byte
	MsgID     [MsgIDLen]byte
	Timestamp int64
	Ciphertext []byte
	Signature  []byte // nil unless FlagSigned is set
}

// Signed reports whether the envelope carries a signature field.
func (c *Components) Signed() bool {
	return c.Flags&FlagSigned != 0
}

// Detected reports whether s contains the whisper1: marker anywhere.
func Detected(s string) bool {
	return strings.Contains(s, Prefix)
}

// Build serializes c into the wire form.
func Build(c Components) (string, error) {
	if c.Flags&reservedFlagMask != 0 {
		return "", ErrInvalidEnvelope
	}
	if len(c.Ciphertext) < 16 || len(c.Ciphertext) > MaxCiphertextLen {
		return "", ErrInvalidEnvelope
	}
	if c.Signed() != (len(c.Signature) == SigLen) {
		return "", ErrInvalidEnvelope
	}

	var ts [TSLen]byte
	binary.BigEndian.PutUint64(ts[:], uint64(c.Timestamp))

	fields := []string{
		version,
		enc(c.RKID[:]),
		enc([]byte{c.Flags}),
		enc(c.EPK[:]),
		enc(c.Salt[:]),
		enc(c.MsgID[:]),
		enc(ts[:]),
		enc(c.Ciphertext),
	}
	if c.Signed() {
		fields = append(fields, enc(c.Signature))
	}

	return Prefix + strings.Join(fields, "."), nil
}

// Parse splits and decodes a wire envelope, rejecting any malformed
// input with the single opaque ErrInvalidEnvelope — never leaking
// which field or byte offset failed.
func Parse(s string) (*Components, error) {
	if !strings.HasPrefix(s, Prefix) {
		return nil, ErrInvalidEnvelope
	}
	body := strings.TrimPrefix(s, Prefix)
	// The version tag itself contains a dot, so it is matched whole
	// before the remaining fields are split.
	if !strings.HasPrefix(body, version+".") {
		return nil, ErrInvalidEnvelope
	}
	parts := append([]string{version}, strings.Split(strings.TrimPrefix(body, version+"."), ".")...)
	if len(parts) != 8 && len(parts) != 9 {
		return nil, ErrInvalidEnvelope
	}
	if len(parts[7]) > base64.RawURLEncoding.EncodedLen(MaxCiphertextLen) {
		return nil, ErrInvalidEnvelope
	}

	rkid, err := decExact(parts[1], RKIDLen)
	if err != nil {
		return nil, err
	}
	flagsB, err := decExact(parts[2], FlagsLen)
	if err != nil {
		return nil, err
	}
	flags := flagsB[0]
	if flags&reservedFlagMask != 0 {
		return nil, ErrInvalidEnvelope
	}
	epk, err := decExact(parts[3], EPKLen)
	if err != nil {
		return nil, err
	}
	salt, err := decExact(parts[4], SaltLen)
	if err != nil {
		return nil, err
	}
	msgid, err := decExact(parts[5], MsgIDLen)
	if err != nil {
		return nil, err
	}
	tsB, err := decExact(parts[6], TSLen)
	if err != nil {
		return nil, err
	}
	ct, err := dec(parts[7])
	if err != nil {
		return nil, err
	}
	if len(ct) < 16 || len(ct) > MaxCiphertextLen {
		return nil, ErrInvalidEnvelope
	}

	signed := flags&FlagSigned != 0
	if signed != (len(parts) == 9) {
		return nil, ErrInvalidEnvelope
	}

	var sig []byte
	if signed {
		sig, err = decExact(parts[8], SigLen)
		if err != nil {
			return nil, err
		}
	}

	c := &Components{
		Flags:      flags,
		Timestamp:  int64(binary.BigEndian.Uint64(tsB)),
		Ciphertext: ct,
		Signature:  sig,
	}
	copy(c.RKID[:], rkid)
	copy(c.EPK[:], epk)
	copy(c.Salt[:], salt)
	copy(c.MsgID[:], msgid)
	return c, nil
}

// CanonicalAAD builds the associated data bound into every AEAD call:
//
//	"whisper" || "v1" || senderFP || recipientFP || flagsBE32
//	  || rkid || flags || epk || salt || msgid || tsBE64
//
// Order and widths are normative; any deviation between sender and
// receiver yields an AEAD authentication failure indistinguishable
// from tampering.
func CanonicalAAD(senderFP, recipientFP [32]byte, flags byte, rkid [RKIDLen]byte, epk [EPKLen]byte, salt [SaltLen]byte, msgid [MsgIDLen]byte, ts int64) []byte {
	out := make([]byte, 0, 7+2+32+32+4+RKIDLen+1+EPKLen+SaltLen+MsgIDLen+TSLen)
	out = append(out, []byte("whisper")...)
	out = append(out, []byte("v1")...)
	out = append(out, senderFP[:]...)
	out = append(out, recipientFP[:]...)

	var flagsBE [4]byte
	binary.BigEndian.PutUint32(flagsBE[:], uint32(flags))
	out = append(out, flagsBE[:]...)

	out = append(out, rkid[:]...)
	out = append(out, flags)
	out = append(out, epk[:]...)
	out = append(out, salt[:]...)
	out = append(out, msgid[:]...)

	var tsBE [TSLen]byte
	binary.BigEndian.PutUint64(tsBE[:], uint64(ts))
	out = append(out, tsBE[:]...)

	return out
}

func enc(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func dec(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	return b, nil
}

func decExact(s string, n int) ([]byte, error) {
	b, err := dec(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, ErrInvalidEnvelope
	}
	return b, nil
}
