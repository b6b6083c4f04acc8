package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/runner/session"
)

func addLogin(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in locally to unlock bookmarks.",
		Example: `
shelf login ada
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.session(cmd, strings.Join(args, " "), false)
		},
	}
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.session(cmd, "", true)
		},
	}
	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed in user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.session(cmd, "", false)
		},
	}
	topLevel.AddCommand(cmd)
}

func (e *env) session(cmd *cobra.Command, name string, logout bool) error {
	svc, err := e.service()
	if err != nil {
		return e.output.HandleError(err)
	}
	s := session.Session{
		Service: svc,
		Name:    name,
		Logout:  logout,
		Bundle:  e.bundle,
		JSON:    e.output.JSON,
		Out:     cmd.OutOrStdout(),
	}
	return e.output.HandleError(s.Do(cmd.Context()))
}
