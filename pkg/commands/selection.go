package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/runner/selection"
	lists "tableflip.dev/shelf/pkg/selection"
)

func addCart(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "List or add to the cart.",
		Example: `
shelf cart
shelf cart add 3 7
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.CartKey, selection.List, nil)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the cart.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.CartKey, selection.List, nil)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <id>...",
		Short: "Add catalog items to the cart.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.CartKey, selection.Add, args)
		},
		ValidArgsFunction: itemCompletions(e),
	})

	topLevel.AddCommand(cmd)
}

func addBookmarks(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bookmark", "bm"},
		Short:   "List, add, or remove bookmarks. Requires login.",
		Example: `
shelf login ada
shelf bookmarks add 12
shelf bookmarks
shelf bookmarks rm 12
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.BookmarksKey, selection.List, nil)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the bookmarks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.BookmarksKey, selection.List, nil)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <id>...",
		Short: "Bookmark catalog items.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.BookmarksKey, selection.Add, args)
		},
		ValidArgsFunction: itemCompletions(e),
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove bookmarks.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.selection(cmd, lists.BookmarksKey, selection.Remove, args)
		},
		ValidArgsFunction: bookmarkCompletions(e),
	})

	topLevel.AddCommand(cmd)
}

func (e *env) selection(cmd *cobra.Command, key string, action selection.Action, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	svc, err := e.service()
	if err != nil {
		return e.output.HandleError(err)
	}
	s := selection.Selection{
		Service: svc,
		Key:     key,
		Action:  action,
		IDs:     ids,
		Bundle:  e.bundle,
		JSON:    e.output.JSON,
		Out:     cmd.OutOrStdout(),
	}
	return e.output.HandleError(s.Do(cmd.Context()))
}
