package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ochairo/sheetfetch/internal/external-adapters/zaplog"
)

// errFailed marks a command that already reported its failure
var errFailed = errors.New("failed")

// app carries the state shared by every subcommand
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose bool
	logJSON bool
	logger  *zaplog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) newRootCmd() *cobra.Command {
	fetch := &fetchOptions{}

	root := &cobra.Command{
		Use:   "sheetfetch",
		Short: "sheetfetch - mirror OneDrive spreadsheets into a CI workspace",
		Long: `sheetfetch downloads spreadsheets shared through OneDrive or SharePoint
links into data/<Name>.xlsx and records whether their content changed.

Share links are read from SOLAR_LAB_TESTS_URL, LINE_TRIALS_URL and
CERTIFICATIONS_URL unless a targets file is given.

Run without a subcommand to fetch every target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.logger != nil {
				return nil
			}
			logger, err := zaplog.New(zaplog.Options{Verbose: a.verbose, JSON: a.logJSON, Output: a.stderr})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFetch(cmd.Context(), fetch)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON lines")
	addFetchFlags(root, fetch)

	root.AddCommand(
		a.newFetchCmd(),
		a.newListCmd(),
		a.newResolveCmd(),
		a.newVerifyCmd(),
	)
	return root
}
