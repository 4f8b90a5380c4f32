package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cristianoliveira/inboxkit/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Version() version.Info
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	var formatFlag string

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of inboxkit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := client.Version()
			switch formatFlag {
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case formatText:
				line := "inboxkit version " + info.Version
				if info.Commit != "" {
					line += "+" + info.Commit
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", line, info.GoVersion)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (must be text or json)", formatFlag)
			}
		},
	}

	versionCmd.Flags().StringVar(&formatFlag, "format", formatText, "Output format: text or json")

	return versionCmd
}
