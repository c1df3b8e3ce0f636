package codec

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"tableflip.dev/resume/pkg/document"
)

// metaSeparator splits an entry heading into title and meta.
const metaSeparator = " | "

// toMarkdown writes the visible part of doc. Hidden items and settings have
// no markdown form and are left out.
func toMarkdown(doc *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	m := md.NewMarkdown(&buf).H1(doc.Header.Name)
	if c := strings.TrimSpace(doc.Header.Contact); c != "" {
		m.PlainText("").PlainText(c)
	}
	for _, s := range doc.Sections {
		if s.Hidden {
			continue
		}
		m.PlainText("").H2(s.Title)
		for _, e := range s.Entries {
			if e.Hidden {
				continue
			}
			heading := e.Title
			if e.Meta != "" && !e.Stacked {
				heading += metaSeparator + e.Meta
			}
			m.PlainText("").H3(heading)
			if e.Meta != "" && e.Stacked {
				m.PlainText("").PlainText(e.Meta)
			}
			var bullets []string
			for _, b := range e.Bullets {
				if !b.Hidden {
					bullets = append(bullets, b.Text)
				}
			}
			if len(bullets) > 0 {
				m.PlainText("").BulletList(bullets...)
			}
		}
	}
	if err := m.Build(); err != nil {
		return nil, fmt.Errorf("codec: markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// fromMarkdown reads the outline written by toMarkdown: the first level one
// heading is the name, the paragraph before any section is the contact, level
// two headings are sections, level three headings are entries and list items
// are bullets. A paragraph under an entry becomes stacked meta.
func fromMarkdown(src []byte) (*document.Document, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	doc := &document.Document{Sections: []document.Section{}}
	named := false
	var section *document.Section
	var entry *document.Entry

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := rawText(node, src)
			switch {
			case node.Level == 1 && !named:
				doc.Header.Name = title
				named = true
			case node.Level == 2:
				doc.Sections = append(doc.Sections, document.Section{Title: title, Entries: []document.Entry{}})
				section = &doc.Sections[len(doc.Sections)-1]
				entry = nil
			case node.Level >= 3:
				if section == nil {
					return nil, fmt.Errorf("%w: entry %q before any section", ErrFormat, title)
				}
				e := document.Entry{Bullets: []document.Bullet{}}
				e.Title, e.Meta, _ = strings.Cut(title, metaSeparator)
				section.Entries = append(section.Entries, e)
				entry = &section.Entries[len(section.Entries)-1]
			}
		case *ast.Paragraph:
			t := rawText(node, src)
			switch {
			case section == nil && doc.Header.Contact == "":
				doc.Header.Contact = t
			case entry != nil && entry.Meta == "" && len(entry.Bullets) == 0:
				entry.Meta = t
				entry.Stacked = true
			}
		case *ast.List:
			if entry == nil {
				return nil, fmt.Errorf("%w: list outside an entry", ErrFormat)
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				var parts []string
				for c := item.FirstChild(); c != nil; c = c.NextSibling() {
					if t := rawText(c, src); t != "" {
						parts = append(parts, t)
					}
				}
				entry.Bullets = append(entry.Bullets, document.Bullet{Text: strings.Join(parts, " ")})
			}
		}
	}

	if !named {
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%w: missing sections", ErrFormat)
	}
	out, err := document.MigrateValue(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out, nil
}

// rawText returns the source lines of a block with inline markup intact.
func rawText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if l := strings.TrimSpace(string(seg.Value(src))); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "\n")
}
