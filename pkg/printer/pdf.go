package printer

import (
	"context"
	"errors"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/format"
	"tableflip.dev/resume/pkg/render"
)

const (
	margin       = 50.0
	bulletIndent = 12.0
	textIndent   = 24.0
	baseSize     = 10.5
)

var families = map[document.Font]string{
	document.FontSans:  "Helvetica",
	document.FontSerif: "Times",
	document.FontMono:  "Courier",
}

var spacing = map[document.Density]float64{
	document.DensityCompact:     0.85,
	document.DensityStandard:    1,
	document.DensityComfortable: 1.2,
}

// PDF prints A4 pages with the core PDF fonts.
type PDF struct {
	// Compress deflates page streams.
	Compress bool
}

// NewPDF returns a PDF printer with compressed output.
func NewPDF() *PDF {
	return &PDF{Compress: true}
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	family string
	scale  float64
}

// Print renders the visible part of t as PDF.
func (p *PDF) Print(ctx context.Context, t *render.Tree, out io.Writer) error {
	if t == nil || t.Root == nil {
		return &ExportError{Op: "print", Err: errors.New("nothing to print")}
	}
	t = render.Visible(t)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(p.Compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("resume", true)

	w := pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		family: families[t.Settings.Font],
		scale:  spacing[t.Settings.Density],
	}
	if w.family == "" {
		w.family = families[document.FontSans]
	}
	if w.scale == 0 {
		w.scale = 1
	}

	pdf.AddPage()
	for _, n := range t.Root.Children {
		if err := ctx.Err(); err != nil {
			return &ExportError{Op: "print", Err: err}
		}
		switch n.Role {
		case render.RoleHeader:
			w.writeHeader(n)
		case render.RoleSection:
			w.writeSection(n)
		}
		if err := pdf.Error(); err != nil {
			return &ExportError{Op: "layout", Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return &ExportError{Op: "print", Err: err}
	}
	if err := pdf.Output(out); err != nil {
		return &ExportError{Op: "write", Err: err}
	}
	return nil
}

func (w *pdfWriter) lineHeight(size float64) float64 {
	return size * 1.3 * w.scale
}

func (w *pdfWriter) writeHeader(n *render.Node) {
	for _, c := range n.Children {
		switch c.Role {
		case render.RoleName:
			if c.Text.Empty() {
				continue
			}
			w.pdf.SetTitle(c.Text.Plain(), true)
			w.styled(c.Text, 22, "B", "")
			w.pdf.Ln(w.lineHeight(22))
		case render.RoleContact:
			if c.Text.Empty() {
				continue
			}
			w.pdf.SetTextColor(90, 90, 90)
			w.styled(c.Text, baseSize, "", "")
			w.pdf.SetTextColor(0, 0, 0)
			w.pdf.Ln(w.lineHeight(baseSize))
		}
	}
}

func (w *pdfWriter) writeSection(n *render.Node) {
	w.pdf.Ln(8 * w.scale)
	for _, c := range n.Children {
		switch c.Role {
		case render.RoleSectionTitle:
			w.styled(c.Text, 13, "B", "")
			w.pdf.Ln(w.lineHeight(13))
			w.rule()
		case render.RoleEntry:
			w.writeEntry(c)
		}
	}
}

func (w *pdfWriter) rule() {
	y := w.pdf.GetY()
	pageW, _ := w.pdf.GetPageSize()
	w.pdf.SetLineWidth(0.5)
	w.pdf.SetDrawColor(120, 120, 120)
	w.pdf.Line(margin, y, pageW-margin, y)
	w.pdf.SetY(y + 4*w.scale)
}

func (w *pdfWriter) writeEntry(n *render.Node) {
	stacked := false
	for _, c := range n.Classes {
		stacked = stacked || c == "entry-stacked"
	}
	lh := w.lineHeight(baseSize)
	for _, c := range n.Children {
		switch c.Role {
		case render.RoleEntryHeader:
			for _, h := range c.Children {
				switch h.Role {
				case render.RoleEntryTitle:
					w.styled(h.Text, baseSize+0.5, "B", "")
				case render.RoleEntryMeta:
					w.pdf.SetFont(w.family, "I", baseSize)
					if stacked {
						w.pdf.Ln(lh)
						w.styled(h.Text, baseSize, "I", "")
					} else {
						w.pdf.CellFormat(0, lh, w.tr(h.Text.Plain()), "", 0, "R", false, 0, "")
					}
				}
			}
			w.pdf.Ln(lh)
		case render.RoleBullets:
			for _, b := range c.Children {
				w.writeBullet(b, lh)
			}
			w.pdf.Ln(3 * w.scale)
		}
	}
}

func (w *pdfWriter) writeBullet(n *render.Node, lh float64) {
	w.pdf.SetFont(w.family, "", baseSize)
	w.pdf.SetX(margin + bulletIndent)
	w.pdf.Write(lh, w.tr("•"))
	w.pdf.SetLeftMargin(margin + textIndent)
	w.pdf.SetX(margin + textIndent)
	w.styled(n.Text, baseSize, "", "")
	w.pdf.Ln(lh)
	w.pdf.SetLeftMargin(margin)
}

// styled writes st in the flowing text position, nesting font styles.
func (w *pdfWriter) styled(st format.StyledText, size float64, style, link string) {
	lh := w.lineHeight(size)
	for _, n := range st {
		switch n.Kind {
		case format.Text:
			w.pdf.SetFont(w.family, style, size)
			w.pdf.WriteLinkString(lh, w.tr(n.Text), link)
		case format.Break:
			w.pdf.Ln(lh)
		case format.Link:
			r, g, b := w.pdf.GetTextColor()
			w.pdf.SetTextColor(20, 80, 170)
			w.styled(n.Children, size, withStyle(style, "U"), n.URL)
			w.pdf.SetTextColor(r, g, b)
		case format.Bold:
			w.styled(n.Children, size, withStyle(style, "B"), link)
		case format.Emphasis:
			w.styled(n.Children, size, withStyle(style, "I"), link)
		case format.Underline:
			w.styled(n.Children, size, withStyle(style, "U"), link)
		case format.Strike:
			w.styled(n.Children, size, withStyle(style, "S"), link)
		}
	}
}

func withStyle(style, s string) string {
	if strings.Contains(style, s) {
		return style
	}
	return style + s
}
