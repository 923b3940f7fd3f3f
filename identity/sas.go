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

package identity

import (
	"encoding/hex"

	bip39 "github.com/tyler-smith/go-bip39"
)

const sasWordCount = 6
const sasWindowBits = 11

// sasWordList is the fixed 2048-entry list SAS words are drawn from.
// It is the BIP-39 English wordlist, reused here purely as a
// ready-made, ordered 2048-word table — the same role it plays for
// entropy-to-mnemonic encoding.
var sasWordList = bip39.GetWordList()

// SASWords derives 6 words deterministically from a 32-byte
// fingerprint by indexing sasWordList with non-overlapping 11-bit
// windows: word i covers bits [11*i, 11*i+11) of the fingerprint.
func SASWords(fingerprint [32]byte) [sasWordCount]string {
	var words [sasWordCount]string
	for i := 0; i < sasWordCount; i++ {
		idx := bitWindow(fingerprint[:], i*sasWindowBits, sasWindowBits)
		words[i] = sasWordList[idx]
	}
	return words
}

// bitWindow reads n bits starting at bit offset start (MSB-first) out
// of buf and returns them as an integer in [0, 2^n).
func bitWindow(buf []byte, start, n int) int {
	val := 0
	for i := 0; i < n; i++ {
		bitPos := start + i
		byteIdx := bitPos / 8
		bitIdx := 7 - (bitPos % 8)
		bit := (buf[byteIdx] >> bitIdx) & 1
		val = (val << 1) | int(bit)
	}
	return val
}

// ShortFingerprint returns the first 12 hex characters of fingerprint,
// grouped in 4-character blocks separated by spaces.
func ShortFingerprint(fingerprint [32]byte) string {
	full := hex.EncodeToString(fingerprint[:])[:12]
	return full[0:4] + " " + full[4:8] + " " + full[8:12]
}
