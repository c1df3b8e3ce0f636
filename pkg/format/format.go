// Package format converts the small inline markup used in resume text into a
// styled node tree that any render target can walk.
package format

import (
	"regexp"
	"strings"
)

// NodeKind identifies a styled text node.
type NodeKind string

const (
	Text      NodeKind = "text"
	Break     NodeKind = "break"
	Link      NodeKind = "link"
	Strike    NodeKind = "strike"
	Bold      NodeKind = "bold"
	Underline NodeKind = "underline"
	Emphasis  NodeKind = "emphasis"
)

// Node is a run of text, a line break, or a styled container.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	URL      string   `json:"url,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// StyledText is the output of Format.
type StyledText []Node

// Options select the optional rules.
type Options struct {
	// Multiline turns newlines into Break nodes.
	Multiline bool
	// Underline enables __text__.
	Underline bool
}

var (
	// Inline is used for single line fields.
	Inline = Options{Underline: true}
	// Block is used for fields that may span lines, like the contact line.
	Block = Options{Multiline: true, Underline: true}
)

type rule struct {
	kind NodeKind
	re   *regexp.Regexp
	// wraps lets a match enclose nodes made by earlier rules.
	wraps bool
}

var (
	breakRule     = rule{kind: Break, re: regexp.MustCompile(`\r?\n`)}
	linkRule      = rule{kind: Link, re: regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)}
	strikeRule    = rule{kind: Strike, re: regexp.MustCompile(`~~(.+?)~~`), wraps: true}
	boldRule      = rule{kind: Bold, re: regexp.MustCompile(`\*\*(.+?)\*\*`), wraps: true}
	underlineRule = rule{kind: Underline, re: regexp.MustCompile(`__(.+?)__`), wraps: true}
	emphasisRule  = rule{kind: Emphasis, re: regexp.MustCompile(`\*(.+?)\*|_(.+?)_`), wraps: true}

	schemePattern = regexp.MustCompile(`(?i)^([a-z][a-z0-9+.-]*://|mailto:|tel:)`)
)

// Nodes made by earlier rules stand in the scanned text as private use
// runes, so a later pair of delimiters can enclose them without splitting one.
const (
	heldFirst = '\uE000'
	heldLast  = '\uF8FF'
)

// Format parses text. Rules run in a fixed order (breaks, links, strike,
// bold, underline, emphasis) and each one works on the output of the previous
// ones: a later pair of delimiters may enclose an earlier match, as in
// "**[site](a.io)**", but never pairs with a delimiter inside one. Unpaired
// delimiters stay literal.
func Format(text string, opts Options) StyledText {
	if text == "" {
		return nil
	}
	out := StyledText{{Kind: Text, Text: text}}
	rules := make([]rule, 0, 6)
	if opts.Multiline {
		rules = append(rules, breakRule)
	}
	rules = append(rules, linkRule, strikeRule, boldRule)
	if opts.Underline {
		rules = append(rules, underlineRule)
	}
	rules = append(rules, emphasisRule)

	for _, r := range rules {
		out = r.apply(out)
	}
	return out
}

func (r rule) apply(in []Node) []Node {
	nodes := make([]Node, len(in))
	for i, n := range in {
		if n.Kind != Text && len(n.Children) > 0 {
			n.Children = r.apply(n.Children)
		}
		nodes[i] = n
	}
	if r.wraps {
		if flat, held, ok := flatten(nodes); ok {
			return r.split(flat, held)
		}
	}
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == Text {
			out = append(out, r.split(n.Text, nil)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// flatten joins the text of nodes, replacing every other node with a held
// rune. It fails when the text already uses the private use area.
func flatten(nodes []Node) (string, []Node, bool) {
	var (
		b    strings.Builder
		held []Node
	)
	for _, n := range nodes {
		if n.Kind == Text {
			if strings.IndexFunc(n.Text, isHeld) >= 0 {
				return "", nil, false
			}
			b.WriteString(n.Text)
			continue
		}
		if heldFirst+rune(len(held)) > heldLast {
			return "", nil, false
		}
		b.WriteRune(heldFirst + rune(len(held)))
		held = append(held, n)
	}
	return b.String(), held, true
}

func isHeld(r rune) bool {
	return r >= heldFirst && r <= heldLast
}

// expand turns a scanned string back into nodes. Without held nodes every
// rune is text.
func expand(s string, held []Node) []Node {
	if len(held) == 0 {
		if s == "" {
			return nil
		}
		return []Node{{Kind: Text, Text: s}}
	}
	var (
		out  []Node
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Node{Kind: Text, Text: text.String()})
			text.Reset()
		}
	}
	for _, c := range s {
		if i := int(c - heldFirst); isHeld(c) && i < len(held) {
			flush()
			out = append(out, held[i])
			continue
		}
		text.WriteRune(c)
	}
	flush()
	return out
}

func (r rule) split(s string, held []Node) []Node {
	matches := r.re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return expand(s, held)
	}
	out := make([]Node, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		out = append(out, expand(s[last:m[0]], held)...)
		out = append(out, r.build(s, m, held))
		last = m[1]
	}
	return append(out, expand(s[last:], held)...)
}

func (r rule) build(s string, m []int, held []Node) Node {
	switch r.kind {
	case Break:
		return Node{Kind: Break}
	case Link:
		return Node{
			Kind:     Link,
			URL:      normalizeURL(s[m[4]:m[5]]),
			Children: expand(s[m[2]:m[3]], held),
		}
	}
	// The inner text is whichever capture group participated.
	inner := ""
	for g := 1; 2*g+1 < len(m); g++ {
		if m[2*g] >= 0 {
			inner = s[m[2*g]:m[2*g+1]]
			break
		}
	}
	return Node{Kind: r.kind, Children: expand(inner, held)}
}

func normalizeURL(u string) string {
	if schemePattern.MatchString(u) {
		return u
	}
	return "https://" + u
}

// Plain returns the text with all markup removed. Breaks become newlines.
func (st StyledText) Plain() string {
	var b strings.Builder
	writePlain(&b, st)
	return b.String()
}

func writePlain(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case Text:
			b.WriteString(n.Text)
		case Break:
			b.WriteByte('\n')
		default:
			writePlain(b, n.Children)
		}
	}
}

// Empty reports whether the styled text has no content.
func (st StyledText) Empty() bool {
	return len(st) == 0
}

// Walk visits every node depth first. Returning false skips a node's children.
func (st StyledText) Walk(fn func(n Node, depth int) bool) {
	walk(st, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}
