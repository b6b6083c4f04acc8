package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/timeutil"
)

// WindowOptions limits results to recently published items.
type WindowOptions struct {
	Within string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions, def string) {
	cmd.Flags().StringVar(&o.Within, "within", def,
		`Only items published within this window, example: --within=1w or --within=1mo2w.`)
}

// GetWindow parses Within. An empty window is zero, meaning no limit.
func (o *WindowOptions) GetWindow() (time.Duration, error) {
	d, _, err := timeutil.ParseWindow(o.Within)
	return d, err
}

// TemplateOptions pick the card template used to print items.
type TemplateOptions struct {
	Template string
	Name     string
}

func AddTemplateArgs(cmd *cobra.Command, o *TemplateOptions) {
	cmd.Flags().StringVar(&o.Template, "template", "",
		"Card template file (default is the built-in set, or template from config).")
	cmd.Flags().StringVar(&o.Name, "name", "",
		`Template to execute from the set (default "card").`)
}
