package options

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Verbose bool
	Quiet   bool
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log every change and fallback.")
	cmd.PersistentFlags().BoolVarP(&o.Quiet, "quiet", "q", false,
		"Only log errors.")
}

// Level maps the flags onto a slog level; warnings are shown by default.
func (o *LogOptions) Level() slog.Level {
	switch {
	case o.Verbose:
		return slog.LevelDebug
	case o.Quiet:
		return slog.LevelError
	}
	return slog.LevelWarn
}

// Logger builds a text logger writing to w.
func (o *LogOptions) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: o.Level()}))
}
