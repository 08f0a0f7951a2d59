package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stache/internal/version"
)

var versionFormat string

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"go":      runtime.Version(),
		"target":  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if versionFormat == "json" {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "stache %s (%s, %s)\n", info["version"], info["commit"], info["date"])

	return nil
}
