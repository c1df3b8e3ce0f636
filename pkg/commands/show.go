package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/commands/options"
	"tableflip.dev/resume/pkg/printers"
	"tableflip.dev/resume/pkg/render"
)

func addShow(topLevel *cobra.Command) {
	po := &options.PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Preview the resume in the terminal.",
		Example: `
resume show
resume show --all --paths
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.Print(s.Tree())
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(s.Tree(), render.TerminalOptions{
				Width:      po.Width,
				ShowHidden: po.All,
				Color:      po.Color(),
				Paths:      po.Paths,
			}))
			return nil
		},
	}
	options.AddPreviewArgs(cmd, po)

	topLevel.AddCommand(cmd)
}

func addOutline(topLevel *cobra.Command) {
	var all bool

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "List every section, entry and bullet with the path that addresses it.",
		Example: `
resume outline
resume outline --all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			lines := render.Outline(s.Tree())
			if oo.JSON {
				return oo.Print(lines)
			}
			pp := printers.PrettyPrint{Out: cmd.OutOrStdout(), ShowHidden: all}
			pp.Title(s.Document().Header.Name)
			pp.Outline(lines)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", true, "Include hidden items.")

	topLevel.AddCommand(cmd)
}
