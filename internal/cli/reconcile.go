package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/geosect/geosect/pkg/io"
	"github.com/geosect/geosect/pkg/pipeline"
)

// reconcileCommand creates the reconcile command. It merges a fragments file
// produced by `geosect extract` into canonical borehole records.
func (c *CLI) reconcileCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "reconcile <fragments.json>",
		Short: "Merge extraction fragments into canonical borehole records",
		Long: `Reconcile groups fragments by borehole name, deduplicates layers and
SPT readings across pages, back-fills header fields from later pages, and
broadcasts project-level fields to every record. The output feeds
` + "`geosect layout`" + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReconcile(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runReconcile(cmd *cobra.Command, input, output string) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	frags, err := pkgio.ImportFragments(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded fragments", "path", input, "fragments", len(frags))

	prog := newProgress(logger)
	runner := pipeline.NewRunner(nil, nil, logger, nil)
	bhs, err := runner.ReconcileFragments(ctx, frags)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Reconciled %d boreholes", len(bhs)))

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := pkgio.WriteBoreholes(bhs, out); err != nil {
		return err
	}

	if output != "" {
		var layers, spt int
		for _, bh := range bhs {
			layers += len(bh.Layers)
			spt += len(bh.SPT)
		}
		printSuccess("Reconciled %d fragments into %d boreholes", len(frags), len(bhs))
		printStats(len(bhs), layers, spt, false)
		printFile(output)
		printNextStep("Compute the cross-section layout", fmt.Sprintf("geosect layout %s", output))
	}
	return nil
}
