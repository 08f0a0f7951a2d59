package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stache/internal/config"
	stcherr "github.com/conneroisu/stache/internal/errors"
)

var (
	renderDataFile string
	renderOutFile  string
)

// renderCmd renders one template against a data file.
var renderCmd = &cobra.Command{
	Use:   "render <identifier>",
	Short: "Render a template against a data file",
	Long: `Render compiles the named template (and any partials it includes), binds the
data file as the top-level context, and writes the output to stdout or --out.

The data file is YAML or JSON and must decode to a mapping; the top-level
binding context has to be record-shaped.

Examples:
  stache render page --data page.yml
  stache render invoice --data invoice.json --out invoice.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderDataFile, "data", "d", "", "YAML/JSON file providing the binding context")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "output file (default stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, err := loadDataContext(renderDataFile)
	if err != nil {
		return err
	}

	sink := cmd.OutOrStdout()
	if renderOutFile != "" {
		f, err := os.Create(renderOutFile)
		if err != nil {
			return fmt.Errorf("creating output file %q: %w", renderOutFile, err)
		}
		defer f.Close()
		sink = f
	}

	eng := newEngine(cfg)
	if err := eng.Render(args[0], ctx, sink); err != nil {
		var serr *stcherr.Error
		if errors.As(err, &serr) {
			fmt.Fprint(cmd.ErrOrStderr(), serr.Report())
		}

		return fmt.Errorf("rendering %q: %w", args[0], err)
	}

	return nil
}
