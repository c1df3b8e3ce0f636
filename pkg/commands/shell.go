package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/commands/options"
	"tableflip.dev/resume/pkg/runner/shell"
)

func addShell(topLevel *cobra.Command) {
	po := &options.PreviewOptions{}
	var preview bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit the resume interactively, with undo.",
		Long: options.Wrap80("Open the document and read commands one per line. " +
			"Changes are saved as they are made and can be undone until the shell exits. Type help for the command list."),
		Example: `
resume shell
echo 'add-section Talks' | resume shell
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, e, err := openSession(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			sh := shell.Shell{
				Session: s,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
				Logger:  e.log,
				Width:   po.Width,
				Color:   po.Color(),
				Preview: preview,
			}
			if isatty.IsTerminal(os.Stdin.Fd()) {
				sh.Prompt = s.Name() + "> "
			}
			return oo.HandleError(sh.Do(cmd.Context()))
		},
	}
	options.AddPreviewArgs(cmd, po)
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the document after every change.")

	topLevel.AddCommand(cmd)
}
