// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/i18n"
)

// GlobalOptions are accepted by every command.
type GlobalOptions struct {
	ConfigFile string
	Verbose    bool
	NoColor    bool
	Locale     string
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"Config file (default is .shelf.yaml in the working directory or $HOME).")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log debug output.")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false,
		"Disable colored output.")
	cmd.PersistentFlags().StringVar(&o.Locale, "locale", "",
		"Message language, overriding the config file and $LANG.")
	_ = cmd.RegisterFlagCompletionFunc("locale", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return i18n.Supported(), cobra.ShellCompDirectiveNoFileComp
	})
}
