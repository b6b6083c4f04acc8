package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/ui"
	tuiapp "tableflip.dev/shelf/pkg/tui/app"
)

func addUI(topLevel *cobra.Command, e *env) {
	to := &options.TemplateOptions{}
	style := ""

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal user interface.",
		Long: `Open the terminal user interface. Views: 1 search, 2 cart, 3 bookmarks,
4 login. Press ? for keys. When stdout is not a terminal the catalog is
printed instead.`,
		Example: `
shelf ui
shelf ui --style light
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.search(to)
			if err != nil {
				return err
			}
			s.Out = cmd.OutOrStdout()
			opts := tuiapp.Options{
				Service:       s.Service,
				Href:          s.Href,
				Bundle:        s.Bundle,
				MarkdownStyle: style,
				Log:           e.log,
			}
			// Without a template choice the list views keep the built-in
			// one-line rows.
			if to.Template != "" || to.Name != "" || e.cfg.Template != "" {
				opts.Templates, opts.Name = s.Templates, s.Name
			}
			u := ui.UI{Options: opts, Fallback: s}
			return u.Do(cmd.Context())
		},
	}

	options.AddTemplateArgs(cmd, to)
	cmd.Flags().StringVar(&style, "style", "", `Markdown style for help and details: "dark", "light" or "notty".`)

	topLevel.AddCommand(cmd)
}
