package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/resume/pkg/format"
)

// TerminalOptions control terminal output.
type TerminalOptions struct {
	// Width wraps lines; zero disables wrapping.
	Width int
	// ShowHidden draws hidden items faint instead of dropping them.
	ShowHidden bool
	// Color enables ANSI styling.
	Color bool
	// Paths prefixes sections, entries and bullets with their address.
	Paths bool
}

type terminalTheme struct {
	name    lipgloss.Style
	contact lipgloss.Style
	section lipgloss.Style
	title   lipgloss.Style
	meta    lipgloss.Style
	hidden  lipgloss.Style
	path    lipgloss.Style
	styles  map[format.NodeKind]lipgloss.Style
	link    lipgloss.Style
	on      bool
}

func newTerminalTheme(on bool) terminalTheme {
	return terminalTheme{
		name:    lipgloss.NewStyle().Bold(true).Underline(true),
		contact: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		title:   lipgloss.NewStyle().Bold(true),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		hidden:  lipgloss.NewStyle().Faint(true),
		path:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		link:    lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		styles: map[format.NodeKind]lipgloss.Style{
			format.Strike:    lipgloss.NewStyle().Strikethrough(true),
			format.Bold:      lipgloss.NewStyle().Bold(true),
			format.Underline: lipgloss.NewStyle().Underline(true),
			format.Emphasis:  lipgloss.NewStyle().Italic(true),
		},
		on: on,
	}
}

func (th terminalTheme) render(s lipgloss.Style, text string) string {
	if !th.on || text == "" {
		return text
	}
	return s.Render(text)
}

func (th terminalTheme) styled(st format.StyledText) string {
	if !th.on {
		return st.Plain()
	}
	var b strings.Builder
	for _, n := range st {
		switch n.Kind {
		case format.Text:
			b.WriteString(n.Text)
		case format.Break:
			b.WriteByte('\n')
		case format.Link:
			b.WriteString(th.render(th.link, format.StyledText(n.Children).Plain()))
		default:
			inner := th.styled(n.Children)
			if s, ok := th.styles[n.Kind]; ok {
				inner = s.Render(inner)
			}
			b.WriteString(inner)
		}
	}
	return b.String()
}

// Terminal draws the tree as text for a terminal preview.
func Terminal(t *Tree, opts TerminalOptions) string {
	if t == nil || t.Root == nil {
		return ""
	}
	th := newTerminalTheme(opts.Color)
	var b strings.Builder
	line := func(hidden bool, prefix, s string) {
		if hidden {
			s = th.render(th.hidden, s+" (hidden)")
		}
		width := ansi.PrintableRuneWidth(prefix)
		if opts.Width > 0 && opts.Width-width >= 10 {
			s = wordwrap.String(s, opts.Width-width)
		}
		s = strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", width))
		b.WriteString(prefix)
		b.WriteString(s)
		b.WriteByte('\n')
	}
	address := func(n *Node) string {
		if !opts.Paths || n.Kind == "" {
			return ""
		}
		return th.render(th.path, "["+n.Path.Format(n.Kind)+"] ")
	}

	Walk(t, func(n *Node, depth int, hidden bool) bool {
		if hidden && !opts.ShowHidden {
			return false
		}
		switch n.Role {
		case RoleName:
			line(false, "", th.render(th.name, th.styled(n.Text)))
		case RoleContact:
			if !n.Text.Empty() {
				line(false, "", th.render(th.contact, th.styled(n.Text)))
			}
		case RoleSection:
			b.WriteByte('\n')
			title := ""
			if len(n.Children) > 0 {
				title = strings.ToUpper(n.Children[0].Text.Plain())
			}
			line(n.Hidden, address(n), th.render(th.section, title))
		case RoleEntry:
			line(n.Hidden, "  "+address(n), entryLine(th, n))
		case RoleBullet:
			line(n.Hidden, "    • "+address(n), th.styled(n.Text))
		}
		return true
	})
	return b.String()
}

func entryLine(th terminalTheme, n *Node) string {
	var title, meta string
	stacked := false
	for _, c := range n.Classes {
		if c == "entry-stacked" {
			stacked = true
		}
	}
	if len(n.Children) > 0 {
		for _, c := range n.Children[0].Children {
			switch c.Role {
			case RoleEntryTitle:
				title = th.render(th.title, th.styled(c.Text))
			case RoleEntryMeta:
				meta = th.render(th.meta, th.styled(c.Text))
			}
		}
	}
	switch {
	case meta == "":
		return title
	case stacked:
		return title + "\n" + meta
	default:
		return title + " — " + meta
	}
}
