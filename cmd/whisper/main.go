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

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "whisper",
	Short: "whisper - offline message encryption CLI",
	Long: `whisper drives the hybrid X25519+ChaCha20-Poly1305 message
encryption pipeline from the command line.

This tool supports:
- Identity generation, rotation and archival, backed by a
  passphrase-protected local vault file
- Contact management (add from a published bundle, verify, block)
- Encrypting and decrypting messages against the in-memory pipeline`,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Commands are registered in their respective files:
	// - identity.go: identityCmd (generate|rotate|archive)
	// - contact.go: contactCmd (add|verify|block)
	// - encrypt.go: encryptCmd
	// - decrypt.go: decryptCmd
}
