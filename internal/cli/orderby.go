package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"
)

// NewOrderByCommand creates the order-by command.
func NewOrderByCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order-by <property>",
		Short: "Translate a property into an ORDER BY clause",
		Long: `Translate a property into an ORDER BY clause.

The property is either a bare name, such as Title, or a JSON selector.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderBy(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runOrderBy(opts *RootOptions, cmd *cobra.Command, selector string) error {
	logger := newLogger(opts, cmd.ErrOrStderr())
	m, err := loadColumnMap(opts, logger)
	if err != nil {
		return err
	}
	sel, err := decodeSelector(selector)
	if err != nil {
		return err
	}

	orderBy, err := sqlclause.OrderBy(m, sel)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), orderBy)
	return nil
}

func decodeSelector(selector string) (ast.Node, error) {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return nil, fmt.Errorf("empty selector")
	}
	switch trimmed[0] {
	case '"', '[', '{':
		return ast.Decode([]byte(trimmed))
	}
	return ast.Field(trimmed), nil
}
