package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/report"
)

func addReport(topLevel *cobra.Command, e *env) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report recently published items by category.",
		Long: `Report groups the items published within the window by category and marks
the ones in your cart (c) or bookmarks (b).`,
		Example: `
shelf report
shelf report --within 1mo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := wo.GetWindow()
			if err != nil {
				return err
			}
			svc, err := e.service()
			if err != nil {
				return e.output.HandleError(err)
			}
			r := report.Report{
				Service: svc,
				Window:  window,
				Bundle:  e.bundle,
				JSON:    e.output.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return e.output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddWindowArgs(cmd, wo, "1w")

	topLevel.AddCommand(cmd)
}
