package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/sheetfetch/internal/config"
	"github.com/ochairo/sheetfetch/internal/external-adapters/yaml"
)

func (a *app) newListCmd() *cobra.Command {
	var targetsFile, outputDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List targets and whether their share link is configured",
		Example: `  sheetfetch list
  sheetfetch list --targets sheets.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if err := cfg.LoadFromEnv(); err != nil {
				return err
			}
			cfg = cfg.Merge(config.Config{TargetsFile: targetsFile, OutputDir: outputDir})

			targets, err := yaml.NewTargetRepository(cfg.TargetsFile, cfg.OutputDir).ListTargets(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list targets: %w", err)
			}

			fmt.Fprintf(a.stdout, "Targets (%d total):\n\n", len(targets))
			for _, t := range targets {
				status := "✅ configured"
				if !t.HasURL() {
					status = "⚠️  not set"
				}
				source := t.EnvVar
				if source == "" {
					source = "(literal url)"
				}
				fmt.Fprintf(a.stdout, "  %-20s %-24s %s\n", t.Name, source, status)
				fmt.Fprintf(a.stdout, "  %-20s Output: %s\n", "", t.OutputPath)
				if t.Signature.Enabled() {
					fmt.Fprintf(a.stdout, "  %-20s 🔐 Signature verification enabled\n", "")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetsFile, "targets", "", "YAML targets file (default: built-in targets)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for downloaded files (default \"data\")")
	return cmd
}
