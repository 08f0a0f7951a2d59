package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/stache/internal/config"
	"github.com/conneroisu/stache/internal/engine"
	"github.com/conneroisu/stache/internal/logging"
	"github.com/conneroisu/stache/internal/value"
)

// newEngine builds a fresh engine over the configured template directory.
// Callers needing updated sources build another one; the cache never
// invalidates.
func newEngine(cfg *config.Config) *engine.Engine {
	loader := &engine.DirLoader{
		Dir:      cfg.Templates.Dir,
		Ext:      cfg.Templates.Ext,
		MaxBytes: cfg.Templates.MaxBytes,
	}

	return engine.NewWithOptions(loader, engine.Options{
		MaxNesting: cfg.Templates.MaxNesting,
	})
}

// newLogger builds the logger commands share.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}

// loadDataContext reads a YAML (or JSON, a YAML subset) data file into the
// record-shaped binding context. An empty path yields an empty record.
func loadDataContext(path string) (value.Value, error) {
	if path == "" {
		return value.Record(map[string]value.Value{}), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("reading data file %q: %w", path, err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return value.Value{}, fmt.Errorf("parsing data file %q: %w", path, err)
	}

	return value.FromAny(anyMap(decoded)), nil
}

// anyMap forces a nil map (empty data file) into an empty record.
func anyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	return m
}
