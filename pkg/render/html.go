package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tableflip.dev/resume/pkg/format"
)

//go:embed style.css
var stylesheet string

// HTMLOptions control HTML output.
type HTMLOptions struct {
	// Print drops hidden nodes instead of marking them.
	Print bool
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowDataAttributes()
	p.AllowElements("section", "header")
	return p
}

var roleElements = map[Role]atom.Atom{
	RoleResume:       atom.Div,
	RoleHeader:       atom.Header,
	RoleName:         atom.H1,
	RoleContact:      atom.P,
	RoleSection:      atom.Section,
	RoleSectionTitle: atom.H2,
	RoleEntry:        atom.Div,
	RoleEntryHeader:  atom.Div,
	RoleEntryTitle:   atom.Span,
	RoleEntryMeta:    atom.Span,
	RoleBullets:      atom.Ul,
	RoleBullet:       atom.Li,
}

var styleElements = map[format.NodeKind]atom.Atom{
	format.Strike:    atom.S,
	format.Bold:      atom.Strong,
	format.Underline: atom.U,
	format.Emphasis:  atom.Em,
}

// HTML renders the tree as a sanitized HTML fragment.
func HTML(t *Tree, opts HTMLOptions) (string, error) {
	if t == nil || t.Root == nil {
		return "", nil
	}
	if opts.Print {
		t = Visible(t)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, htmlNode(t.Root)); err != nil {
		return "", fmt.Errorf("render: html: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body{{if .Print}} class="print"{{end}}>
{{.Body}}
</body>
</html>
`))

// Page renders the tree as a complete HTML page with the built-in stylesheet.
func Page(t *Tree, title string, opts HTMLOptions) (string, error) {
	body, err := HTML(t, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Title string
		Style template.CSS
		Body  template.HTML
		Print bool
	}{
		Title: title,
		Style: template.CSS(stylesheet),
		Body:  template.HTML(body),
		Print: opts.Print,
	})
	if err != nil {
		return "", fmt.Errorf("render: page: %w", err)
	}
	return buf.String(), nil
}

func htmlNode(n *Node) *html.Node {
	a := roleElements[n.Role]
	el := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}

	classes := n.Classes
	if n.Hidden {
		classes = append(append([]string(nil), classes...), "is-hidden")
	}
	if len(classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	if n.Kind != "" {
		el.Attr = append(el.Attr,
			html.Attribute{Key: "data-kind", Val: n.Kind.String()},
			html.Attribute{Key: "data-path", Val: n.Path.Format(n.Kind)},
		)
	}

	appendStyled(el, n.Text)
	for _, c := range n.Children {
		el.AppendChild(htmlNode(c))
	}
	return el
}

func appendStyled(parent *html.Node, st []format.Node) {
	for _, s := range st {
		switch s.Kind {
		case format.Text:
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: s.Text})
		case format.Break:
			parent.AppendChild(&html.Node{Type: html.ElementNode, DataAtom: atom.Br, Data: "br"})
		case format.Link:
			a := &html.Node{
				Type:     html.ElementNode,
				DataAtom: atom.A,
				Data:     "a",
				Attr:     []html.Attribute{{Key: "href", Val: s.URL}},
			}
			appendStyled(a, s.Children)
			parent.AppendChild(a)
		default:
			tag, ok := styleElements[s.Kind]
			if !ok {
				appendStyled(parent, s.Children)
				continue
			}
			el := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
			appendStyled(el, s.Children)
			parent.AppendChild(el)
		}
	}
}
