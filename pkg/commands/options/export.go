package options

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/codec"
)

// Export formats beyond the codec ones.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ExportOptions
type ExportOptions struct {
	Format   string
	Output   string
	Compress bool
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", "",
		"One of json, yaml, markdown, html or pdf. Defaults to the output file extension, then json.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		"File to write, stdout when empty.")
	cmd.Flags().BoolVar(&o.Compress, "compress", true,
		"Compress PDF streams.")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "markdown", FormatHTML, FormatPDF}, cobra.ShellCompDirectiveNoFileComp
	})
}

// Resolve picks the export format from the flag or the output file name.
func (o *ExportOptions) Resolve() (string, error) {
	raw := strings.ToLower(strings.TrimSpace(o.Format))
	if raw == "" && o.Output != "" {
		switch ext := strings.ToLower(filepath.Ext(o.Output)); ext {
		case ".html", ".htm":
			return FormatHTML, nil
		case ".pdf":
			return FormatPDF, nil
		default:
			if f, err := codec.FormatForPath(o.Output); err == nil {
				return string(f), nil
			}
		}
	}
	switch raw {
	case "":
		return string(codec.FormatJSON), nil
	case FormatHTML, "htm":
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	f, err := codec.ParseFormat(raw)
	if err != nil {
		return "", fmt.Errorf("unknown export format %q", o.Format)
	}
	return string(f), nil
}

// ImportOptions
type ImportOptions struct {
	Format string
}

func AddImportArgs(cmd *cobra.Command, o *ImportOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", "",
		"One of json, yaml or markdown. Defaults to the file extension.")
}

// Resolve picks the import format for path.
func (o *ImportOptions) Resolve(path string) (codec.Format, error) {
	if o.Format != "" {
		return codec.ParseFormat(o.Format)
	}
	if path == "" || path == "-" {
		return codec.FormatJSON, nil
	}
	return codec.FormatForPath(path)
}
