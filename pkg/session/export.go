package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/resume/pkg/printer"
	"tableflip.dev/resume/pkg/render"
)

// Export prints a snapshot of the document to w in the background. The
// returned channel yields exactly one value, nil on success, and is then
// closed. While the export runs the session is busy and in print mode; both
// are restored however the printer returns.
func (s *Session) Export(ctx context.Context, p printer.Printer, w io.Writer) <-chan error {
	done := make(chan error, 1)
	if !s.busy.CompareAndSwap(false, true) {
		done <- ErrBusy
		close(done)
		return done
	}
	s.printing.Store(true)
	tree := render.Visible(render.Project(s.doc.Clone()))
	s.log.Debug("export started")

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = &printer.ExportError{Op: "print", Err: fmt.Errorf("panic: %v", r)}
			}
			s.printing.Store(false)
			s.busy.Store(false)
			if err != nil {
				s.log.Warn("export failed", "error", err)
			} else {
				s.log.Debug("export finished")
			}
			done <- err
			close(done)
		}()
		err = p.Print(ctx, tree, w)
		if err != nil && !errors.Is(err, printer.ErrExport) {
			err = &printer.ExportError{Op: "print", Err: err}
		}
	}()
	return done
}
