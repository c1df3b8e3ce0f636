// Package render projects a document into a visual tree and draws that tree
// for the terminal and the browser.
package render

import (
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/format"
)

// Role says what part of the resume a node draws.
type Role string

const (
	RoleResume       Role = "resume"
	RoleHeader       Role = "header"
	RoleName         Role = "name"
	RoleContact      Role = "contact"
	RoleSection      Role = "section"
	RoleSectionTitle Role = "section-title"
	RoleEntry        Role = "entry"
	RoleEntryHeader  Role = "entry-header"
	RoleEntryTitle   Role = "entry-title"
	RoleEntryMeta    Role = "entry-meta"
	RoleBullets      Role = "bullets"
	RoleBullet       Role = "bullet"
)

// Node is one element of the visual tree. Hidden items stay in the tree with
// Hidden set so their position is kept; targets decide whether to draw them.
type Node struct {
	Role     Role              `json:"role"`
	Classes  []string          `json:"classes,omitempty"`
	Hidden   bool              `json:"hidden,omitempty"`
	Kind     document.Kind     `json:"kind,omitempty"`
	Path     document.Path     `json:"path"`
	Text     format.StyledText `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Tree is the projection of a document.
type Tree struct {
	Root     *Node             `json:"root"`
	Settings document.Settings `json:"settings"`
}

// Project builds the visual tree for doc. It does not modify doc and always
// returns the same tree for the same document.
func Project(doc *document.Document) *Tree {
	settings := doc.Settings
	if settings.Density == "" || settings.Font == "" {
		settings = document.DefaultSettings()
	}
	root := &Node{
		Role:    RoleResume,
		Classes: RootClasses(settings),
	}
	root.Children = append(root.Children, &Node{
		Role:    RoleHeader,
		Classes: []string{"resume-header"},
		Children: []*Node{
			{Role: RoleName, Classes: []string{"name"}, Text: format.Format(doc.Header.Name, format.Inline)},
			{Role: RoleContact, Classes: []string{"contact"}, Text: format.Format(doc.Header.Contact, format.Block)},
		},
	})
	for i, s := range doc.Sections {
		root.Children = append(root.Children, projectSection(i, s))
	}
	return &Tree{Root: root, Settings: settings}
}

// RootClasses maps settings to the presentation classes of the root node.
func RootClasses(s document.Settings) []string {
	return []string{"resume", "density-" + s.Density.String(), "font-" + s.Font.String()}
}

func projectSection(i int, s document.Section) *Node {
	path := document.Path{Section: i}
	n := &Node{
		Role:    RoleSection,
		Classes: []string{"resume-section"},
		Hidden:  s.Hidden,
		Kind:    document.KindSection,
		Path:    path,
	}
	n.Children = append(n.Children, &Node{
		Role:    RoleSectionTitle,
		Classes: []string{"section-title"},
		Path:    path,
		Text:    format.Format(s.Title, format.Inline),
	})
	for j, e := range s.Entries {
		n.Children = append(n.Children, projectEntry(document.Path{Section: i, Entry: j}, e))
	}
	return n
}

func projectEntry(path document.Path, e document.Entry) *Node {
	classes := []string{"entry"}
	if e.Stacked {
		classes = append(classes, "entry-stacked")
	}
	header := &Node{
		Role:    RoleEntryHeader,
		Classes: []string{"entry-header"},
		Path:    path,
		Children: []*Node{{
			Role:    RoleEntryTitle,
			Classes: []string{"entry-title"},
			Path:    path,
			Text:    format.Format(e.Title, format.Inline),
		}},
	}
	if e.Meta != "" {
		header.Children = append(header.Children, &Node{
			Role:    RoleEntryMeta,
			Classes: []string{"entry-meta"},
			Path:    path,
			Text:    format.Format(e.Meta, format.Inline),
		})
	}
	bullets := &Node{
		Role:    RoleBullets,
		Classes: []string{"entry-bullets"},
		Path:    path,
	}
	for k, b := range e.Bullets {
		bullets.Children = append(bullets.Children, &Node{
			Role:   RoleBullet,
			Hidden: b.Hidden,
			Kind:   document.KindBullet,
			Path:   document.Path{Section: path.Section, Entry: path.Entry, Bullet: k},
			Text:   format.Format(b.Text, format.Inline),
		})
	}
	return &Node{
		Role:     RoleEntry,
		Classes:  classes,
		Hidden:   e.Hidden,
		Kind:     document.KindEntry,
		Path:     path,
		Children: []*Node{header, bullets},
	}
}

// Walk visits nodes depth first, pre-order. hidden reports whether the node
// or any ancestor is hidden. Returning false skips the node's children.
func Walk(t *Tree, fn func(n *Node, depth int, hidden bool) bool) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, 0, false, fn)
}

func walk(n *Node, depth int, hidden bool, fn func(*Node, int, bool) bool) {
	hidden = hidden || n.Hidden
	if !fn(n, depth, hidden) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, hidden, fn)
	}
}

// Visible returns a copy of the tree without hidden nodes, as printed.
func Visible(t *Tree) *Tree {
	if t == nil || t.Root == nil {
		return t
	}
	return &Tree{Root: prune(t.Root), Settings: t.Settings}
}

func prune(n *Node) *Node {
	cp := *n
	cp.Classes = append([]string(nil), n.Classes...)
	cp.Children = nil
	for _, c := range n.Children {
		if c.Hidden {
			continue
		}
		cp.Children = append(cp.Children, prune(c))
	}
	return &cp
}
