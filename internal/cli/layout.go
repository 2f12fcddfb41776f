package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/geosect/geosect/pkg/io"
	"github.com/geosect/geosect/pkg/pipeline"
)

// layoutCommand creates the layout command. It computes the cross-section
// geometry for a boreholes file produced by `geosect reconcile`.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout <boreholes.json>",
		Short: "Compute the cross-section layout from borehole records",
		Long: `Layout places each borehole in its own column on a shared vertical
scale, choosing absolute elevations when the parsed surface elevations are
plausible and falling back to depth below surface otherwise. The output is
a pure geometric model that ` + "`geosect visualize`" + ` turns into artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	bhs, err := pkgio.ImportBoreholes(input)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	runner := pipeline.NewRunner(nil, nil, logger, nil)
	l, err := runner.BuildLayout(ctx, bhs)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d columns", len(l.Columns)))

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := pkgio.WriteLayout(l, out); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Computed %s layout: %d columns, %.0fx%.0f px", l.Scale.Mode, len(l.Columns), l.Width, l.Height)
		printFile(output)
		printNextStep("Render the cross-section", fmt.Sprintf("geosect visualize %s --boreholes %s", output, input))
	}
	return nil
}
