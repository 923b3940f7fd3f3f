package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whisper-project/whisper/identity"
	"github.com/whisper-project/whisper/vault"
)

var (
	identityName          string
	identityFile          string
	identityPassphraseEnv string
	identityWithoutSign   bool
	identityArchiveOld    bool
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage the local encryption identity",
}

var identityGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new identity and seal it into a vault file",
	Example: `  # Generate an identity and seal it with a passphrase from WHISPER_PASSPHRASE
  whisper identity generate --name alice --file alice.vault`,
	RunE: runIdentityGenerate,
}

var identityRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the identity's keys, optionally archiving the old one",
	RunE:  runIdentityRotate,
}

var identityArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Mark the identity archived so it is no longer used to send",
	RunE:  runIdentityArchive,
}

func init() {
	rootCmd.AddCommand(identityCmd)
	identityCmd.AddCommand(identityGenerateCmd, identityRotateCmd, identityArchiveCmd)

	identityCmd.PersistentFlags().StringVar(&identityFile, "file", "", "vault file path")
	identityCmd.PersistentFlags().StringVar(&identityPassphraseEnv, "passphrase-env", "WHISPER_PASSPHRASE", "environment variable holding the vault passphrase")

	identityGenerateCmd.Flags().StringVar(&identityName, "name", "", "display name for the new identity")
	identityGenerateCmd.Flags().BoolVar(&identityWithoutSign, "without-signing", false, "generate without an Ed25519 signing key (biometric-gated signing use case)")

	identityRotateCmd.Flags().BoolVar(&identityArchiveOld, "archive-old", true, "archive the previous identity's keys after rotation")
}

func passphrase() (string, error) {
	p := os.Getenv(identityPassphraseEnv)
	if p == "" {
		return "", fmt.Errorf("environment variable %s is empty or unset", identityPassphraseEnv)
	}
	return p, nil
}

func loadIdentityFile() (*identity.Identity, error) {
	if identityFile == "" {
		return nil, fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(identityFile)
	if err != nil {
		return nil, fmt.Errorf("read vault file: %w", err)
	}
	pass, err := passphrase()
	if err != nil {
		return nil, err
	}
	id, err := vault.Restore(data, pass)
	if err != nil {
		return nil, fmt.Errorf("restore identity: %w", err)
	}
	return id, nil
}

func saveIdentityFile(id *identity.Identity) error {
	pass, err := passphrase()
	if err != nil {
		return err
	}
	data, err := vault.Backup(id, pass)
	if err != nil {
		return fmt.Errorf("seal vault: %w", err)
	}
	if err := os.WriteFile(identityFile, data, 0600); err != nil {
		return fmt.Errorf("write vault file: %w", err)
	}
	return nil
}

func printBundle(id *identity.Identity) error {
	b := identity.BuildBundle(id)
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runIdentityGenerate(cmd *cobra.Command, args []string) error {
	if identityFile == "" {
		return fmt.Errorf("--file is required")
	}
	id, err := identity.NewIdentity(identityName, identityWithoutSign)
	if err != nil {
		return fmt.Errorf("generate identity: %w", err)
	}
	if err := saveIdentityFile(id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "identity sealed to %s\n", identityFile)
	return printBundle(id)
}

func runIdentityRotate(cmd *cobra.Command, args []string) error {
	id, err := loadIdentityFile()
	if err != nil {
		return err
	}
	rotated, err := id.Rotate(identityArchiveOld)
	if err != nil {
		return fmt.Errorf("rotate identity: %w", err)
	}
	if err := saveIdentityFile(rotated); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "identity rotated, new key version %d\n", rotated.KeyVersion)
	return printBundle(rotated)
}

func runIdentityArchive(cmd *cobra.Command, args []string) error {
	id, err := loadIdentityFile()
	if err != nil {
		return err
	}
	id.Archive()
	if err := saveIdentityFile(id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "identity %s archived\n", id.ID)
	return nil
}
