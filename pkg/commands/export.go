package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/commands/options"
	"tableflip.dev/resume/pkg/printer"
	"tableflip.dev/resume/pkg/printers"
	"tableflip.dev/resume/pkg/render"
)

func addExport(topLevel *cobra.Command) {
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the resume as JSON, YAML, markdown, HTML or PDF.",
		Long: options.Wrap80("Write the resume as JSON, YAML, markdown, HTML or PDF. " +
			"JSON and YAML keep hidden items; the other formats leave them out."),
		Example: `
resume export -o resume.pdf
resume export --format markdown
resume export -f yaml -o backup.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := eo.Resolve()
			if err != nil {
				return oo.HandleError(err)
			}
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}

			var out []byte
			switch format {
			case options.FormatPDF:
				var buf bytes.Buffer
				p := printer.NewPDF()
				p.Compress = eo.Compress
				if err := <-s.Export(cmd.Context(), p, &buf); err != nil {
					return oo.HandleError(err)
				}
				out = buf.Bytes()
			case options.FormatHTML:
				page, err := render.Page(s.Tree(), s.Document().Header.Name, render.HTMLOptions{Print: true})
				if err != nil {
					return oo.HandleError(err)
				}
				out = []byte(page)
			default:
				out, err = codec.Serialize(s.Document(), codec.Format(format))
				if err != nil {
					return oo.HandleError(err)
				}
			}

			if eo.Output == "" || eo.Output == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return oo.HandleError(err)
			}
			if err := os.WriteFile(eo.Output, out, 0o644); err != nil {
				return oo.HandleError(err)
			}
			pp := printers.PrettyPrint{Out: cmd.ErrOrStderr()}
			pp.Done("wrote %s (%s, %d bytes)", eo.Output, format, len(out))
			return nil
		},
	}
	options.AddExportArgs(cmd, eo)

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	ipo := &options.ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the resume with a JSON, YAML or markdown document.",
		Long: options.Wrap80("Replace the resume with a JSON, YAML or markdown document. " +
			"Documents saved by older versions are upgraded. Nothing changes when the input cannot be read."),
		Example: `
resume import backup.yaml
cat resume.md | resume import - --format markdown
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ipo.Resolve(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			if err := s.Import(cmd.Context(), data, f); err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return oo.Print(s.Document())
			}
			pp := printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Done("imported %s as %s", args[0], f)
			return nil
		},
	}
	options.AddImportArgs(cmd, ipo)

	topLevel.AddCommand(cmd)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return data, nil
}
