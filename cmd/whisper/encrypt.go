package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/whisper-project/whisper/pipeline"
)

var (
	encryptIdentityFile  string
	encryptPassphraseEnv string
	encryptRecipientFile string
	encryptSign          bool
	encryptConfig        string
	encryptInFile        string
	encryptOutFile       string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a message to a recipient contact",
	Example: `  # Encrypt stdin to a contact, signed
  echo "hello" | whisper encrypt --identity alice.vault --recipient bob.json --sign`,
	RunE: runEncrypt,
}

func init() {
	rootCmd.AddCommand(encryptCmd)

	encryptCmd.Flags().StringVar(&encryptIdentityFile, "identity", "", "sender identity vault file")
	encryptCmd.Flags().StringVar(&encryptPassphraseEnv, "passphrase-env", "WHISPER_PASSPHRASE", "environment variable holding the vault passphrase")
	encryptCmd.Flags().StringVar(&encryptRecipientFile, "recipient", "", "recipient contact JSON file")
	encryptCmd.Flags().BoolVar(&encryptSign, "sign", false, "sign the envelope with the sender's Ed25519 key")
	encryptCmd.Flags().StringVar(&encryptConfig, "config", "", "policy config YAML file (defaults applied if omitted)")
	encryptCmd.Flags().StringVar(&encryptInFile, "in", "", "plaintext input file (stdin if omitted)")
	encryptCmd.Flags().StringVar(&encryptOutFile, "out", "", "envelope output file (stdout if omitted)")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	if encryptIdentityFile == "" || encryptRecipientFile == "" {
		return fmt.Errorf("--identity and --recipient are required")
	}

	identityFile = encryptIdentityFile
	identityPassphraseEnv = encryptPassphraseEnv
	sender, err := loadIdentityFile()
	if err != nil {
		return err
	}

	contactFile = encryptRecipientFile
	recipient, err := loadContactFile()
	if err != nil {
		return err
	}

	plaintext, err := readInput(encryptInFile)
	if err != nil {
		return err
	}

	p, oracle, err := buildPipeline(encryptConfig)
	if err != nil {
		return err
	}
	if sender.CanSign() {
		oracle.Register(sender.ID, sender.Ed25519Priv)
	}

	env, err := p.Encrypt(context.Background(), plaintext, sender, pipeline.Recipient{Contact: recipient}, encryptSign)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	return writeOutput(encryptOutFile, []byte(env+"\n"))
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
