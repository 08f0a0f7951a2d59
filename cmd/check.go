package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stache/internal/config"
	stcherr "github.com/conneroisu/stache/internal/errors"
)

// checkCmd validates a template set before it is used for rendering.
var checkCmd = &cobra.Command{
	Use:   "check [identifiers...]",
	Short: "Batch-compile templates and report the first error",
	Long: `Check eagerly compiles the named templates (or every template found in the
templates directory when no identifiers are given), surfacing the first parse
error with its source position.

Examples:
  stache check                 # compile everything under the templates dir
  stache check page footer     # compile only these identifiers`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	names := args
	if len(names) == 0 {
		names, err = discoverTemplates(cfg)
		if err != nil {
			return err
		}
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no templates found")

		return nil
	}

	eng := newEngine(cfg)
	if err := eng.CompileAll(names); err != nil {
		var serr *stcherr.Error
		if errors.As(err, &serr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s", serr.Template, serr.Report())

			return fmt.Errorf("template check failed")
		}

		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d templates ok\n", len(names))

	return nil
}

// discoverTemplates collects every identifier under the templates directory,
// using slash-separated relative paths so nested templates keep stable
// names.
func discoverTemplates(cfg *config.Config) ([]string, error) {
	var names []string

	err := filepath.Walk(cfg.Templates.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, cfg.Templates.Ext) {
			return nil
		}

		rel, err := filepath.Rel(cfg.Templates.Dir, path)
		if err != nil {
			return err
		}

		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, cfg.Templates.Ext)))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", cfg.Templates.Dir, err)
	}

	return names, nil
}
