package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"
)

// NewWhereCommand creates the where command.
func NewWhereCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "where <predicate>",
		Short: "Translate a predicate into a WHERE clause",
		Long: `Translate a JSON predicate into a WHERE clause.

Comparisons on properties without a column are left out. Nothing is printed
when no condition is left.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhere(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runWhere(opts *RootOptions, cmd *cobra.Command, predicate string) error {
	logger := newLogger(opts, cmd.ErrOrStderr())
	m, err := loadColumnMap(opts, logger)
	if err != nil {
		return err
	}
	pred, err := ast.Decode([]byte(predicate))
	if err != nil {
		return err
	}
	logger.Debug("decoded predicate", "tree", pred.String())

	where, err := sqlclause.Where(m, pred)
	if err != nil {
		return err
	}
	if where == "" {
		logger.Info("predicate has no mapped condition")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), where)
	return nil
}
