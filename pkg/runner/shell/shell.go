// Package shell runs an interactive editing session on one resume. Undo only
// makes sense inside a session, so this is where it lives for CLI users.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/resume/pkg/printers"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/session"
)

const (
	verbShow    = "show"
	verbOutline = "outline"
	verbHistory = "history"
	verbHelp    = "help"
	verbQuit    = "quit"
	verbExit    = "exit"
)

// Shell reads commands line by line and applies them to Session.
type Shell struct {
	Session *session.Session
	In      io.Reader
	Out     io.Writer
	Logger  *slog.Logger

	// Prompt is printed before each line; empty disables it.
	Prompt string
	// Width wraps the preview printed by show.
	Width int
	// Color styles the preview.
	Color bool
	// Preview prints the document after every change.
	Preview bool
}

// Do runs until quit, end of input or ctx is done.
func (s *Shell) Do(ctx context.Context) error {
	if s.Session == nil {
		return errors.New("shell: no session")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	pp := &printers.PrettyPrint{Out: out}

	scanner := bufio.NewScanner(s.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Prompt != "" {
			_, _ = fmt.Fprint(out, s.Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := Split(line)
		if err != nil {
			pp.Failed(err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch strings.ToLower(words[0]) {
		case verbQuit, verbExit:
			return nil
		case verbHelp:
			s.help(out)
			continue
		case verbShow:
			s.show(out, len(words) > 1 && words[1] == "--all")
			continue
		case verbOutline:
			pp.ShowHidden = true
			pp.Outline(render.Outline(s.Session.Tree()))
			pp.ShowHidden = false
			continue
		case verbHistory:
			pp.History(s.Session.History())
			continue
		case session.CmdUndo:
			a, err := s.Session.Undo(ctx)
			if err != nil && !errors.Is(err, session.ErrSave) {
				pp.Failed(err)
				continue
			}
			pp.Done("undid: %s", a)
			if err != nil {
				pp.Failed(err)
			}
			s.preview(out)
			continue
		}

		c, err := Parse(words)
		if err != nil {
			pp.Failed(err)
			continue
		}
		err = s.Session.Dispatch(ctx, c)
		if err != nil && !errors.Is(err, session.ErrSave) {
			log.Debug("command failed", "op", c.Op, "error", err)
			pp.Failed(err)
			continue
		}
		// An unsaved change still happened.
		pp.Done("%s", c.Op)
		if err != nil {
			pp.Failed(err)
		}
		s.preview(out)
	}
}

func (s *Shell) show(out io.Writer, all bool) {
	_, _ = fmt.Fprintln(out, render.Terminal(s.Session.Tree(), render.TerminalOptions{
		Width:      s.Width,
		ShowHidden: all,
		Color:      s.Color,
		Paths:      true,
	}))
}

func (s *Shell) preview(out io.Writer) {
	if s.Preview {
		s.show(out, true)
	}
}

func (s *Shell) help(out io.Writer) {
	_, _ = fmt.Fprintln(out, "Commands:")
	for _, usage := range session.Commands() {
		_, _ = fmt.Fprintf(out, "  %s\n", usage)
	}
	_, _ = fmt.Fprintln(out, "  show [--all]")
	_, _ = fmt.Fprintln(out, "  outline")
	_, _ = fmt.Fprintln(out, "  history")
	_, _ = fmt.Fprintln(out, "  help")
	_, _ = fmt.Fprintln(out, "  quit")
	_, _ = fmt.Fprintln(out, "Paths are zero based: 1 is a section, 1/0 an entry, 1/0/2 a bullet.")
}
