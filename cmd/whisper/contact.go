package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/whisper-project/whisper/identity"
)

var (
	contactFile       string
	contactBundleFile string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts derived from published identity bundles",
}

var contactAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a contact from a peer's published bundle",
	Example: `  # Read a bundle from a file and write the resulting contact to alice.json
  whisper contact add --bundle peer-bundle.json --file alice.json`,
	RunE: runContactAdd,
}

var contactVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print a contact's SAS words and mark it verified",
	RunE:  runContactVerify,
}

var contactBlockCmd = &cobra.Command{
	Use:   "block",
	Short: "Mark a contact blocked",
	RunE:  runContactBlock,
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(contactAddCmd, contactVerifyCmd, contactBlockCmd)

	contactCmd.PersistentFlags().StringVar(&contactFile, "file", "", "contact JSON file path")

	contactAddCmd.Flags().StringVar(&contactBundleFile, "bundle", "", "bundle JSON file path (reads stdin if omitted)")
}

func readBundle() (identity.Bundle, error) {
	var data []byte
	var err error
	if contactBundleFile == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(contactBundleFile)
	}
	if err != nil {
		return identity.Bundle{}, fmt.Errorf("read bundle: %w", err)
	}

	var b identity.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return identity.Bundle{}, fmt.Errorf("parse bundle: %w", err)
	}
	return b, nil
}

func loadContactFile() (*identity.Contact, error) {
	if contactFile == "" {
		return nil, fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(contactFile)
	if err != nil {
		return nil, fmt.Errorf("read contact file: %w", err)
	}
	var c identity.Contact
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse contact file: %w", err)
	}
	return &c, nil
}

func saveContactFile(c *identity.Contact) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	if err := os.WriteFile(contactFile, data, 0644); err != nil {
		return fmt.Errorf("write contact file: %w", err)
	}
	return nil
}

func runContactAdd(cmd *cobra.Command, args []string) error {
	if contactFile == "" {
		return fmt.Errorf("--file is required")
	}
	b, err := readBundle()
	if err != nil {
		return err
	}
	c := identity.ContactFromBundle(b)
	if err := saveContactFile(c); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "contact %s (%s) saved to %s, unverified\n", c.Name, c.ShortFingerprint(), contactFile)
	return nil
}

func runContactVerify(cmd *cobra.Command, args []string) error {
	c, err := loadContactFile()
	if err != nil {
		return err
	}

	words := c.SASWords()
	fmt.Printf("SAS words for %s: %v\n", c.Name, words)
	fmt.Println("Confirm these words out-of-band with the contact.")

	c.Trust = identity.TrustVerified
	if err := saveContactFile(c); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "contact %s marked verified\n", c.Name)
	return nil
}

func runContactBlock(cmd *cobra.Command, args []string) error {
	c, err := loadContactFile()
	if err != nil {
		return err
	}
	c.Blocked = true
	if err := saveContactFile(c); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "contact %s blocked\n", c.Name)
	return nil
}
