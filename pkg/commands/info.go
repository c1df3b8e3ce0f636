package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where the configuration and documents are stored.",
		Example: `
resume info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.Print(map[string]any{
					"path":      e.cfg.BasePath(),
					"document":  do.Resolve(e.cfg),
					"listen":    e.cfg.Listen(),
					"documents": e.store.Documents(cmd.Context()),
				})
			}
			s := info.Info{
				Config: e.cfg,
				Store:  e.store,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
