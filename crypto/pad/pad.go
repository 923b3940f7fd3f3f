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

// Package pad implements the bucketed, length-hiding padding codec
// plaintext is wrapped in before AEAD sealing.
package pad

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// ErrInvalidPadding is returned by Unpad on any malformed padded
// buffer: a length prefix claiming more bytes than are present, or
// non-zero trailing fill bytes.
var ErrInvalidPadding = errors.New("pad: invalid padding")

// buckets are the fixed output sizes below the top bucket. Messages
// that don't fit in bucketLargest are rounded up to the next multiple
// of bucketLargest.
var buckets = [...]int{256, 512, 1024, 2048, 4096}

const bucketLargest = 4096

// Pad wraps pt as len_be_u16 || pt || zero_fill, choosing the smallest
// bucket (or multiple of 4096) that fits 2+len(pt) bytes.
func Pad(pt []byte) ([]byte, error) {
	total := 2 + len(pt)
	size := bucketFor(total)

	out := make([]byte, size)
	binary.BigEndian.PutUint16(out[:2], uint16(len(pt)))
	copy(out[2:], pt)
	return out, nil
}

func bucketFor(total int) int {
	for _, b := range buckets {
		if total <= b {
			return b
		}
	}
	// Round up to the next multiple of bucketLargest.
	if total%bucketLargest == 0 {
		return total
	}
	return ((total / bucketLargest) + 1) * bucketLargest
}

// Unpad reverses Pad, rejecting any buffer whose length prefix or
// trailing fill bytes are inconsistent. The trailing-zero check runs
// in constant time with respect to the fill bytes' contents; its
// duration depends on the fill length, and so on the claimed length.
func Unpad(padded []byte) ([]byte, error) {
	if len(padded) < 2 {
		return nil, ErrInvalidPadding
	}
	n := int(binary.BigEndian.Uint16(padded[:2]))
	if 2+n > len(padded) {
		return nil, ErrInvalidPadding
	}

	pt := padded[2 : 2+n]
	fill := padded[2+n:]
	zero := make([]byte, len(fill))
	if subtle.ConstantTimeCompare(fill, zero) != 1 {
		return nil, ErrInvalidPadding
	}

	out := make([]byte, n)
	copy(out, pt)
	return out, nil
}
