package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/canonical/sqlclause"
	"github.com/canonical/sqlclause/ast"
)

// UpdateOptions holds the flags of the update command.
type UpdateOptions struct {
	Table string
	All   bool
	Patch string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{}

	cmd := &cobra.Command{
		Use:   "update --patch <patch> [predicate]",
		Short: "Build an UPDATE statement from a patch",
		Long: `Build an UPDATE statement setting the values of a patch on the rows
matching a predicate.

The patch is a JSON or YAML mapping of properties to values. Its order is the
order of the SET clause. Null and zero values are not changes, and nothing is
printed when the patch changes nothing, unless --all is given.

Unquoted YAML timestamps such as 2001-02-03 are dates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var predicate string
			if len(args) == 1 {
				predicate = args[0]
			}
			return runUpdate(rootOpts, opts, cmd, predicate)
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to update (default: the table of the entity)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "build the statement even when nothing changes")
	cmd.Flags().StringVarP(&opts.Patch, "patch", "p", "", "patch as a JSON or YAML mapping (required)")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}

func runUpdate(rootOpts *RootOptions, opts *UpdateOptions, cmd *cobra.Command, predicate string) error {
	logger := newLogger(rootOpts, cmd.ErrOrStderr())
	m, err := loadColumnMap(rootOpts, logger)
	if err != nil {
		return err
	}

	var pred ast.Node
	if predicate != "" {
		pred, err = ast.Decode([]byte(predicate))
		if err != nil {
			return err
		}
	}
	patch, err := decodePatch(opts.Patch)
	if err != nil {
		return err
	}

	table := opts.Table
	if table == "" {
		table = m.Table()
	}
	if table == "" {
		return fmt.Errorf("entity %q has no table, use --table", m.Entity())
	}

	stmt, err := sqlclause.Update(m, pred, patch, table, sqlclause.OnlyUpdatedProperties(!opts.All))
	if err != nil {
		return err
	}
	if stmt == "" {
		logger.Info("nothing to update")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), stmt)
	return nil
}

// decodePatch decodes a YAML mapping, which includes JSON objects, keeping
// the order of its keys.
func decodePatch(input string) (sqlclause.Patch, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("cannot decode patch: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("patch must be a mapping")
	}

	node := doc.Content[0]
	patch := make(sqlclause.Patch, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("patch value of %q must be a scalar", key.Value)
		}
		v, err := decodeScalar(value)
		if err != nil {
			return nil, fmt.Errorf("patch value of %q: %w", key.Value, err)
		}
		patch = append(patch, sqlclause.Field{Name: key.Value, Value: v})
	}
	return patch, nil
}

func decodeScalar(node *yaml.Node) (any, error) {
	if node.ShortTag() == "!!timestamp" {
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return nil, err
		}
		return t, nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
