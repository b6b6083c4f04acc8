package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/serve"
)

func addServe(topLevel *cobra.Command, e *env) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a catalog over HTTP.",
		Long: `Serve exposes a catalog as JSON so another shelf can use it as its catalog:

  GET /items            every item, filtered by ?q= and ?within=
  GET /items/{id}       one item
  GET /healthz          liveness`,
		Example: `
shelf serve --addr :8080 --file ./catalog.json
SHELF_CATALOG=http://localhost:8080/items shelf search
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := so.File
			if loc == "" {
				loc = e.cfg.Catalog
			}
			store := catalog.NewStore(catalog.SourceFor(loc))
			if _, err := store.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d items on %s\n", len(store.Items()), so.Address)
			return serve.Run(cmd.Context(), serve.Config{
				Address: so.Address,
				Catalog: store,
				Log:     e.log,
			})
		},
	}

	options.AddServeArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
