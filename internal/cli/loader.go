package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/canonical/sqlclause"
)

// newLogger returns the logger of a command. Logs go to stderr so they never
// mix with the generated SQL.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadColumnMap reads the mappings file and returns the column map of the
// selected entity.
func loadColumnMap(opts *RootOptions, logger *slog.Logger) (*sqlclause.ColumnMap, error) {
	if opts.Entity == "" {
		return nil, fmt.Errorf("no entity given, use --entity")
	}

	f, err := os.Open(opts.Mappings)
	if err != nil {
		return nil, fmt.Errorf("cannot read mappings: %w", err)
	}
	defer f.Close()

	registry, err := sqlclause.NewRegistryBuilder().LoadYAML(f).Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Mappings, err)
	}
	logger.Debug("loaded mappings", "file", opts.Mappings, "entities", registry.Entities())

	m, ok := registry.LookupName(opts.Entity)
	if !ok {
		return nil, fmt.Errorf("entity %q not found in %s", opts.Entity, opts.Mappings)
	}
	return m, nil
}
