package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whisper-project/whisper/identity"
)

var (
	decryptIdentityFiles []string
	decryptPassphraseEnv string
	decryptContactFiles  []string
	decryptInFile        string
	decryptOutFile       string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an envelope against the local identities and known contacts",
	Example: `  whisper decrypt --identity alice.vault --contact bob.json --in message.txt`,
	RunE: runDecrypt,
}

func init() {
	rootCmd.AddCommand(decryptCmd)

	decryptCmd.Flags().StringArrayVar(&decryptIdentityFiles, "identity", nil, "identity vault file (repeatable)")
	decryptCmd.Flags().StringVar(&decryptPassphraseEnv, "passphrase-env", "WHISPER_PASSPHRASE", "environment variable holding every vault's passphrase")
	decryptCmd.Flags().StringArrayVar(&decryptContactFiles, "contact", nil, "known contact JSON file (repeatable)")
	decryptCmd.Flags().StringVar(&decryptInFile, "in", "", "envelope input file (stdin if omitted)")
	decryptCmd.Flags().StringVar(&decryptOutFile, "out", "", "plaintext output file (stdout if omitted)")
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	if len(decryptIdentityFiles) == 0 {
		return fmt.Errorf("at least one --identity is required")
	}

	identityPassphraseEnv = decryptPassphraseEnv
	var identities []*identity.Identity
	for _, f := range decryptIdentityFiles {
		identityFile = f
		id, err := loadIdentityFile()
		if err != nil {
			return fmt.Errorf("load identity %s: %w", f, err)
		}
		identities = append(identities, id)
	}

	var contacts []*identity.Contact
	for _, f := range decryptContactFiles {
		contactFile = f
		c, err := loadContactFile()
		if err != nil {
			return fmt.Errorf("load contact %s: %w", f, err)
		}
		contacts = append(contacts, c)
	}

	rawBytes, err := readInput(decryptInFile)
	if err != nil {
		return err
	}
	raw := strings.TrimSpace(string(rawBytes))

	p, _, err := buildPipeline("")
	if err != nil {
		return err
	}

	result, err := p.Decrypt(raw, identities, contacts)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	if err := writeOutput(decryptOutFile, result.Plaintext); err != nil {
		return err
	}

	attribution := map[string]any{
		"kind": result.Attribution.Kind,
	}
	if result.Attribution.Contact != nil {
		attribution["contact"] = result.Attribution.Contact.Name
	}
	summary, _ := json.Marshal(attribution)
	fmt.Fprintf(os.Stderr, "%s\n", summary)
	return nil
}
