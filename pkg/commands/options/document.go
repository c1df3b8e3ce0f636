package options

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/store"
)

// DocumentOptions
type DocumentOptions struct {
	Name string
}

func AddDocumentArg(cmd *cobra.Command, o *DocumentOptions) {
	cmd.PersistentFlags().StringVarP(&o.Name, "document", "d", "",
		"Name of the stored document to edit, defaults to the configured one.")
	_ = cmd.RegisterFlagCompletionFunc("document", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return DocumentCompletions(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// Resolve returns the document name, falling back to cfg.
func (o *DocumentOptions) Resolve(cfg store.Config) string {
	if o.Name != "" {
		return o.Name
	}
	return cfg.Document()
}

// DocumentCompletions lists stored document names starting with prefix.
func DocumentCompletions(ctx context.Context, prefix string) []string {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil
	}
	var names []string
	for _, name := range st.List(ctx) {
		if len(prefix) <= len(name) && name[:len(prefix)] == prefix {
			names = append(names, name)
		}
	}
	return names
}
