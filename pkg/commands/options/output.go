package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/undo"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
	Out  io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output results and errors as JSON.")
}

func (o *OutputOptions) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return color.Output
}

// Kind classifies err for JSON output.
func Kind(err error) string {
	switch {
	case errors.Is(err, document.ErrValidation):
		return "validation"
	case errors.Is(err, document.ErrIndex):
		return "index"
	case errors.Is(err, undo.ErrEmpty):
		return "empty"
	case errors.Is(err, session.ErrBusy):
		return "busy"
	case errors.Is(err, session.ErrSave):
		return "save"
	case errors.Is(err, codec.ErrFormat), errors.Is(err, document.ErrSchema):
		return "format"
	}
	return "internal"
}

// HandleError prints err as a JSON object and swallows it when --json is set.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
			"kind":  Kind(err),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(o.out(), string(b))
		return nil
	}
	return err
}

// Print writes v as indented JSON.
func (o *OutputOptions) Print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.out(), string(b))
	return err
}
