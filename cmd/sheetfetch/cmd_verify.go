package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ochairo/sheetfetch/internal/domain-adapters/gateways"
)

type verifyOptions struct {
	checksumFile string
	gpgSig       string
	gpgKey       string
	all          bool
}

func (a *app) newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a fetched file against a checksum or signature",
		Long: `Verify checksums and detached OpenPGP signatures for fetched files.

Supports:
  - Checksums: SHA256 files in "<hex>  <name>" or bare hex format
  - GPG: detached signatures, armored or binary`,
		Example: `  # Verify checksum
  sheetfetch verify data/Line_Trials.xlsx --checksum Line_Trials.xlsx.sha256

  # Verify GPG signature
  sheetfetch verify data/Certifications.xlsx --gpg-sig Certifications.xlsx.asc --gpg-key signer.asc

  # Verify whatever sits next to the file
  sheetfetch verify data/Certifications.xlsx --gpg-key signer.asc --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.checksumFile, "checksum", "", "Checksum file to verify against (.sha256)")
	f.StringVar(&opts.gpgSig, "gpg-sig", "", "Detached GPG signature file (.asc or .sig)")
	f.StringVar(&opts.gpgKey, "gpg-key", "", "Public key file used to check --gpg-sig")
	f.BoolVar(&opts.all, "all", false, "Pick up <file>.sha256 and <file>.asc automatically")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, filePath string, opts *verifyOptions) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("cannot read %s: %w", filePath, err)
	}

	if opts.all {
		if opts.checksumFile == "" && fileExists(filePath+".sha256") {
			opts.checksumFile = filePath + ".sha256"
		}
		if opts.gpgSig == "" && fileExists(filePath+".asc") {
			opts.gpgSig = filePath + ".asc"
		}
	}

	if opts.checksumFile == "" && opts.gpgSig == "" {
		return fmt.Errorf("nothing to verify: pass --checksum, --gpg-sig or --all")
	}
	if opts.gpgSig != "" && opts.gpgKey == "" {
		return fmt.Errorf("--gpg-sig requires --gpg-key")
	}

	fmt.Fprintf(a.stdout, "🔍 Verifying %s\n\n", filepath.Base(filePath))
	verified, failed := 0, 0

	if opts.checksumFile != "" {
		fmt.Fprintf(a.stdout, "📋 Verifying checksum...\n")
		if err := gateways.NewChecksumVerifier().VerifyChecksumFile(cmd.Context(), filePath, opts.checksumFile); err != nil {
			fmt.Fprintf(a.stdout, "❌ Checksum verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Fprintf(a.stdout, "✅ Checksum verified\n\n")
			verified++
		}
	}

	if opts.gpgSig != "" {
		fmt.Fprintf(a.stdout, "🔐 Verifying GPG signature...\n")
		if err := gateways.NewGPGVerifier(nil).VerifyFile(filePath, opts.gpgSig, opts.gpgKey); err != nil {
			fmt.Fprintf(a.stdout, "❌ GPG signature verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Fprintf(a.stdout, "✅ GPG signature verified\n\n")
			verified++
		}
	}

	fmt.Fprintf(a.stdout, "Summary: %d verified, %d failed\n", verified, failed)
	if failed > 0 {
		return errFailed
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
