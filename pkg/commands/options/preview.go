package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// PreviewOptions
type PreviewOptions struct {
	Width   int
	All     bool
	Paths   bool
	NoColor bool
}

func AddPreviewArgs(cmd *cobra.Command, o *PreviewOptions) {
	cmd.Flags().IntVarP(&o.Width, "width", "w", 80,
		"Wrap the preview at this many columns, 0 disables wrapping.")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include hidden items, drawn faint.")
	cmd.Flags().BoolVarP(&o.Paths, "paths", "p", false,
		"Prefix items with the path that addresses them.")
	cmd.Flags().BoolVar(&o.NoColor, "no-color", false,
		"Disable ANSI styling.")
}

// Color reports whether stdout is a terminal and styling was not disabled.
func (o *PreviewOptions) Color() bool {
	if o.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
