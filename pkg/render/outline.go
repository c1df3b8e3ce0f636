package render

import "tableflip.dev/resume/pkg/document"

// Line is one addressable item of the outline.
type Line struct {
	Kind   document.Kind `json:"kind"`
	Path   string        `json:"path"`
	Depth  int           `json:"depth"`
	Text   string        `json:"text"`
	Hidden bool          `json:"hidden,omitempty"`
}

// Outline lists sections, entries and bullets in document order with the
// path each command needs to address them. Hidden is inherited from ancestors.
func Outline(t *Tree) []Line {
	var lines []Line
	Walk(t, func(n *Node, _ int, hidden bool) bool {
		if n.Kind == "" {
			return true
		}
		l := Line{Kind: n.Kind, Path: n.Path.Format(n.Kind), Hidden: hidden}
		switch n.Kind {
		case document.KindSection:
			if len(n.Children) > 0 {
				l.Text = n.Children[0].Text.Plain()
			}
		case document.KindEntry:
			l.Depth = 1
			l.Text = entryTitle(n)
		case document.KindBullet:
			l.Depth = 2
			l.Text = n.Text.Plain()
		}
		lines = append(lines, l)
		return true
	})
	return lines
}

func entryTitle(n *Node) string {
	if len(n.Children) == 0 {
		return ""
	}
	title := ""
	for _, c := range n.Children[0].Children {
		switch c.Role {
		case RoleEntryTitle:
			title = c.Text.Plain()
		case RoleEntryMeta:
			title += " | " + c.Text.Plain()
		}
	}
	return title
}
