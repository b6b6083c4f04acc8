package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/selection"
)

func addCompletions(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(shelf completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(shelf completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return topLevel.GenBashCompletion(out)
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			default:
				return fmt.Errorf("unsupported shell %q", shell)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

// itemCompletions offers catalog ids whose id or title starts with
// toComplete, described by their title.
func itemCompletions(e *env) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		svc, err := e.service()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		items, err := svc.Load(context.Background())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		lower := strings.ToLower(toComplete)
		out := make([]string, 0, len(items))
		for _, it := range items {
			id := strconv.Itoa(it.ID)
			if strings.HasPrefix(id, toComplete) || strings.HasPrefix(strings.ToLower(it.Title), lower) {
				out = append(out, id+"\t"+it.Title)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// bookmarkCompletions offers the ids currently bookmarked.
func bookmarkCompletions(e *env) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		svc, err := e.service()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		entries, err := svc.BookmarkEntries(context.Background())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return entryIDs(entries, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func entryIDs(entries []selection.Entry, toComplete string) []string {
	seen := make(map[int]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, it := range entries {
		id := strconv.Itoa(it.ID)
		if seen[it.ID] || !strings.HasPrefix(id, toComplete) {
			continue
		}
		seen[it.ID] = true
		out = append(out, id+"\t"+it.Title)
	}
	return out
}
