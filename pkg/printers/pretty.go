// Package printers writes colored CLI output.
package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/resume/pkg/edit"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/store"
)

// PrettyPrint renders outlines, document lists and status lines.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// ShowHidden includes hidden items in outlines.
	ShowHidden bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Outline prints one row per section, entry and bullet with the path that
// addresses it.
func (pp *PrettyPrint) Outline(lines []render.Line) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)
	y := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 72
	tbl.AddRow(bold.Sprint("Path"), bold.Sprint("Kind"), bold.Sprint("Text"))
	for _, l := range lines {
		if l.Hidden && !pp.ShowHidden {
			continue
		}
		text := strings.Repeat("  ", l.Depth) + l.Text
		if l.Hidden {
			text = faint.Sprint(text + " (hidden)")
		}
		tbl.AddRow(y.Sprint(l.Path), string(l.Kind), text)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Documents prints the stored documents, marking current.
func (pp *PrettyPrint) Documents(metas []store.Meta, current string) {
	if len(metas) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), "  none\n")
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(" "), bold.Sprint("Document"), bold.Sprint("Size"), bold.Sprint("Updated"))
	for _, m := range metas {
		mark := " "
		if m.Name == current {
			mark = "*"
		}
		updated := "-"
		if !m.Updated.IsZero() {
			updated = m.Updated.Local().Format(time.DateTime)
		}
		tbl.AddRow(mark, m.Name, fmt.Sprintf("%dB", m.Size), updated)
	}
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// History prints pending inverse actions, newest first.
func (pp *PrettyPrint) History(actions []edit.Action) {
	if len(actions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), "  nothing to undo\n")
		return
	}
	c := color.New(color.Faint)
	for i := len(actions) - 1; i >= 0; i-- {
		_, _ = c.Fprintf(pp.out(), "%3d  ", len(actions)-i)
		_, _ = fmt.Fprintln(pp.out(), actions[i].String())
	}
}

// Done reports a successful change.
func (pp *PrettyPrint) Done(format string, args ...any) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprint(pp.out(), "✓ ")
	_, _ = fmt.Fprintf(pp.out(), format+"\n", args...)
}

// Failed reports an error without exiting.
func (pp *PrettyPrint) Failed(err error) {
	r := color.New(color.FgRed)
	_, _ = r.Fprint(pp.out(), "✗ ")
	_, _ = fmt.Fprintln(pp.out(), err.Error())
}
