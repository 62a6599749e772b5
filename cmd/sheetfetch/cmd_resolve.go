package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/sheetfetch/internal/domain-adapters/gateways"
)

func (a *app) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <share-url>",
		Short: "Print the direct-download URL for a share link",
		Example: `  sheetfetch resolve "https://1drv.ms/x/s!AbCdEf"
  sheetfetch resolve "https://contoso.sharepoint.com/:x:/g/personal/doc?e=abc"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direct, err := gateways.NewOneDriveResolver().ResolveDirectURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, direct)
			return nil
		},
	}
}
