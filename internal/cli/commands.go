package cli

import (
	"io"

	"github.com/specialistvlad/dagselect/internal/app"
	"github.com/specialistvlad/dagselect/internal/hcl"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/spf13/cobra"
)

// selectionOptions are the flags that describe which nodes a command
// operates on.
type selectionOptions struct {
	selects  []string
	models   []string
	excludes []string
	selector string
	indirect string
}

func (s *selectionOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&s.selects, "select", "s", nil, "Selection expression; repeat to union several.")
	f.StringArrayVar(&s.excludes, "exclude", nil, "Expression for nodes to remove from the selection.")
	f.StringVar(&s.selector, "selector", "", "Name of a selector defined in the selectors file.")
	f.StringVar(&s.indirect, "indirect-selection", "", "Policy for tests attached to selected nodes: eager, cautious, or empty.")
}

func (s *selectionOptions) query() app.Query {
	return app.Query{
		Select:            append(append([]string{}, s.selects...), s.models...),
		Exclude:           s.excludes,
		Selector:          s.selector,
		IndirectSelection: s.indirect,
	}
}

func openApp(cmd *cobra.Command, opts *globalOptions, outW, errW io.Writer) (*app.App, error) {
	cfg, err := opts.config(errW)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cmd.Context(), outW, errW, cfg, hcl.NewLoader(cfg.ProjectDir))
}

func newListCommand(opts *globalOptions, outW, errW io.Writer) *cobra.Command {
	sel := &selectionOptions{}
	var (
		resourceTypes []string
		output        string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the selected nodes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := sel.query()
			for _, raw := range resourceTypes {
				rt, err := node.ParseResourceType(raw)
				if err != nil {
					return &ExitError{Code: ExitUsage, Message: err.Error()}
				}
				q.ResourceTypes = append(q.ResourceTypes, rt)
			}

			a, err := openApp(cmd, opts, outW, errW)
			if err != nil {
				return err
			}
			return a.List(cmd.Context(), q, output)
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringArrayVar(&resourceTypes, "resource-type", nil, "Only list nodes of this resource type; repeatable.")
	cmd.Flags().StringVarP(&output, "output", "o", app.OutputID, "Output format: id, name, or path.")
	return cmd
}

func newRunCommand(opts *globalOptions, outW, errW io.Writer) *cobra.Command {
	sel := &selectionOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selected models, seeds, snapshots, and sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, outW, errW)
			if err != nil {
				return err
			}
			_, err = a.Run(cmd.Context(), sel.query())
			return err
		},
	}
	sel.bind(cmd)
	return cmd
}

func newTestCommand(opts *globalOptions, outW, errW io.Writer) *cobra.Command {
	sel := &selectionOptions{}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the selected tests and report their results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, outW, errW)
			if err != nil {
				return err
			}
			_, err = a.Test(cmd.Context(), sel.query())
			return err
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringArrayVarP(&sel.models, "models", "m", nil, "Alias of --select.")
	return cmd
}
