// Package cli implements the sqlclause command line.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Mappings string
	Entity   string
}

// NewRootCommand creates the root command for the sqlclause CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlclause",
		Short: "Translate predicates into SQL clauses",
		Long: `Translate JSON predicates over an entity into SQL clause text.

Properties are resolved to columns with a YAML mappings file. Predicates are
Lisp-style JSON lists, for example:

  ["&&", ["=", "Author", "Tolkien"], [">", "PublicationDate", {"time": "1950-01-01T00:00:00Z"}]]`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&opts.Mappings, "mappings", "m", "mappings.yaml", "YAML mappings file")
	cmd.PersistentFlags().StringVarP(&opts.Entity, "entity", "e", "", "entity the predicate applies to")

	// Add subcommands
	cmd.AddCommand(NewWhereCommand(opts))
	cmd.AddCommand(NewOrderByCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))

	return cmd
}
