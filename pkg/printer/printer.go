// Package printer turns a projected resume into a printable file.
package printer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/resume/pkg/render"
)

// ErrExport reports a failed export.
var ErrExport = errors.New("printer: export failed")

// ExportError wraps the cause of a failed export. It matches ErrExport.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("printer: %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func (e *ExportError) Is(target error) bool {
	return target == ErrExport
}

// Printer writes a tree to w. Implementations skip hidden nodes.
type Printer interface {
	Print(ctx context.Context, t *render.Tree, w io.Writer) error
}
