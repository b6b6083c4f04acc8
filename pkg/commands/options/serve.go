package options

import (
	"github.com/spf13/cobra"
)

// ServeOptions configure the catalog HTTP server.
type ServeOptions struct {
	Address string
	File    string
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Address, "addr", ":8080",
		"Address to listen on.")
	cmd.Flags().StringVarP(&o.File, "file", "f", "",
		"Catalog to serve (default is the configured catalog, or the built-in sample).")
}
