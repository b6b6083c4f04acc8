package commands

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
)

func addUpgrade(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade shelf cli.",
		Example: `
shelf upgrade
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ex := exec.CommandContext(cmd.Context(), "go", "install", "tableflip.dev/shelf/cmd/shelf@latest")
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return e.output.HandleError(fmt.Errorf("%w: %s", err, bytes.TrimSpace(out.Bytes())))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ex.String())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
