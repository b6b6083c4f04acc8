package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/render"
	"tableflip.dev/shelf/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command, e *env) {
	wo := &options.WindowOptions{}
	to := &options.TemplateOptions{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by title.",
		Long: `Search prints every catalog item whose title contains the query,
ignoring case. Without a query every item is printed.`,
		Example: `
shelf search climate
shelf search --within 1w
shelf search tax --template ~/cards.tmpl --name compact
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := wo.GetWindow()
			if err != nil {
				return err
			}
			s, err := e.search(to)
			if err != nil {
				return e.output.HandleError(err)
			}
			s.Query = strings.Join(args, " ")
			s.Window = window
			s.Out = cmd.OutOrStdout()
			return e.output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddWindowArgs(cmd, wo, "")
	options.AddTemplateArgs(cmd, to)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, e *env) {
	to := &options.TemplateOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog item.",
		Example: `
shelf show 7
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := e.search(to)
			if err != nil {
				return e.output.HandleError(err)
			}
			s.Out = cmd.OutOrStdout()
			show := search.Show{Search: *s, ID: id}
			return e.output.HandleError(show.Do(cmd.Context()))
		},
		ValidArgsFunction: itemCompletions(e),
	}

	options.AddTemplateArgs(cmd, to)

	topLevel.AddCommand(cmd)
}

func (e *env) search(to *options.TemplateOptions) (*search.Search, error) {
	svc, err := e.service()
	if err != nil {
		return nil, err
	}
	tmpl, name, err := e.templates(to)
	if err != nil {
		return nil, err
	}
	return &search.Search{
		Service:   svc,
		Templates: tmpl,
		Name:      name,
		Href:      e.cfg.Href,
		Bundle:    e.bundle,
		JSON:      e.output.JSON,
	}, nil
}

// templates resolves the card template set from flags, then config, then the
// built-in set, and checks the chosen template up front.
func (e *env) templates(to *options.TemplateOptions) (*template.Template, string, error) {
	path := e.cfg.Template
	if to != nil && to.Template != "" {
		path = to.Template
	}
	name := render.DefaultName
	if to != nil && to.Name != "" {
		name = to.Name
	}

	tmpl := render.Default()
	if path != "" {
		var err error
		if tmpl, err = render.ParseFiles(path); err != nil {
			return nil, "", fmt.Errorf("loading template: %w", err)
		}
	}
	if err := render.New(tmpl, name).Check(); err != nil {
		return nil, "", err
	}
	return tmpl, name, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
