package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/stache/internal/config"
	"github.com/conneroisu/stache/internal/server"
	"github.com/conneroisu/stache/internal/watcher"
)

var serveDataFile string

// serveCmd starts the live-reload preview server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview templates in a browser with live reload",
	Long: `Serve starts an HTTP server rendering templates from the templates
directory, watching it for changes. The compiled-template cache is never
invalidated, so every change builds a fresh engine and connected browsers
are told to reload over a WebSocket.

Open http://<host>:<port>/view/<identifier> to preview a template.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveDataFile, "data", "d", "", "YAML/JSON file providing the binding context")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := newLogger(cfg).WithComponent("serve")

	data, err := loadDataContext(serveDataFile)
	if err != nil {
		return err
	}

	srv := server.New(cfg, log, newEngine(cfg), data)

	fw, err := watcher.New(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Stop()

	ext := cfg.Templates.Ext
	fw.AddFilter(func(path string) bool {
		return strings.HasSuffix(path, ext)
	})
	fw.AddHandler(func(events []watcher.ChangeEvent) {
		log.Info("templates changed, rebuilding engine", "files", len(events))
		srv.SwapEngine(newEngine(cfg))
	})

	if err := fw.AddRecursive(cfg.Templates.Dir); err != nil {
		return fmt.Errorf("watching %q: %w", cfg.Templates.Dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw.Start(ctx)

	return srv.ListenAndServe(ctx)
}
