package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/format"
)

func hiddenDoc() *document.Document {
	d := document.Default()
	d.Settings = document.Settings{Density: document.DensityCompact, Font: document.FontSerif}
	d.Sections[0].Entries[0].Bullets[1].Hidden = true
	d.Sections = append(d.Sections, document.Section{
		Title:  "Secret",
		Hidden: true,
		Entries: []document.Entry{{
			Title:   "Side project",
			Stacked: true,
			Bullets: []document.Bullet{{Text: "Shipped it"}},
		}},
	})
	return d
}

func TestProjectShape(t *testing.T) {
	tree := Project(hiddenDoc())

	if diff := cmp.Diff([]string{"resume", "density-compact", "font-serif"}, tree.Root.Classes); diff != "" {
		t.Fatalf("unexpected root classes (-want +got):\n%s", diff)
	}

	var roles []Role
	var hidden []string
	Walk(tree, func(n *Node, depth int, inherited bool) bool {
		roles = append(roles, n.Role)
		if n.Hidden {
			hidden = append(hidden, string(n.Kind)+":"+n.Path.Format(n.Kind))
		}
		return true
	})
	want := []Role{
		RoleResume, RoleHeader, RoleName, RoleContact,
		RoleSection, RoleSectionTitle, RoleEntry, RoleEntryHeader, RoleEntryTitle, RoleEntryMeta, RoleBullets, RoleBullet, RoleBullet,
		RoleSection, RoleSectionTitle, RoleEntry, RoleEntryHeader, RoleEntryTitle, RoleBullets, RoleBullet,
	}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Fatalf("unexpected walk order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bullet:0/0/1", "section:1"}, hidden); diff != "" {
		t.Fatalf("hidden items must stay in the tree (-want +got):\n%s", diff)
	}
}

func TestProjectIsPureAndDeterministic(t *testing.T) {
	d := hiddenDoc()
	before := d.Clone()
	a, b := Project(d), Project(d)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("projection is not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, d); diff != "" {
		t.Fatalf("projection modified the document (-want +got):\n%s", diff)
	}
}

func TestProjectFormatsText(t *testing.T) {
	tree := Project(document.Default())
	bullet := tree.Root.Children[1].Children[1].Children[1].Children[0]
	if bullet.Role != RoleBullet {
		t.Fatalf("expected bullet, got %s", bullet.Role)
	}
	want := format.Format("Led the **frontend overhaul** using React", format.Inline)
	if diff := cmp.Diff(want, bullet.Text); diff != "" {
		t.Fatalf("unexpected bullet text (-want +got):\n%s", diff)
	}
}

func TestVisibleDropsHidden(t *testing.T) {
	tree := Visible(Project(hiddenDoc()))
	Walk(tree, func(n *Node, _ int, hidden bool) bool {
		if hidden {
			t.Fatalf("unexpected hidden node %s %s", n.Role, n.Path)
		}
		return true
	})
	if got := len(tree.Root.Children); got != 2 {
		t.Fatalf("expected header and one section, got %d children", got)
	}
}

func TestHTML(t *testing.T) {
	d := hiddenDoc()
	d.Header.Name = "<script>alert(1)</script>Jo"
	d.Header.Contact = "Berlin\n[site](example.com)"
	out, err := HTML(Project(d), HTMLOptions{})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{
		`class="resume density-compact font-serif"`,
		`<strong>frontend overhaul</strong>`,
		`is-hidden`,
		`Berlin`,
		`href="https://example.com"`,
		`data-path="0/0/1"`,
		`Side project`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script") {
		t.Fatalf("unsafe markup survived:\n%s", out)
	}
}

func TestHTMLPrintOmitsHidden(t *testing.T) {
	out, err := HTML(Project(hiddenDoc()), HTMLOptions{Print: true})
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if strings.Contains(out, "Side project") || strings.Contains(out, "is-hidden") {
		t.Fatalf("print output contains hidden content:\n%s", out)
	}
}

func TestPage(t *testing.T) {
	out, err := Page(Project(document.Default()), "Your Name", HTMLOptions{Print: true})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, "<title>Your Name</title>") || !strings.Contains(out, "@media print") {
		t.Fatalf("unexpected page:\n%s", out)
	}
}

func TestTerminalPlain(t *testing.T) {
	out := Terminal(Project(hiddenDoc()), TerminalOptions{})
	want := strings.Join([]string{
		"Your Name",
		document.ContactPlaceholder,
		"",
		"EXPERIENCE",
		"  Software Engineer, Company — 2021 – Present",
		"    • Led the frontend overhaul using React",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("unexpected terminal output:\n%q\nwant:\n%q", out, want)
	}
}

func TestTerminalShowHiddenWithPaths(t *testing.T) {
	out := Terminal(Project(hiddenDoc()), TerminalOptions{ShowHidden: true, Paths: true})
	for _, want := range []string{
		"[0/0/1] Cut build times by 40% with incremental caching (hidden)",
		"[1] SECRET (hidden)",
		"  [1/0] Side project",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestOutline(t *testing.T) {
	got := Outline(Project(hiddenDoc()))
	want := []Line{
		{Kind: document.KindSection, Path: "0", Text: "Experience"},
		{Kind: document.KindEntry, Path: "0/0", Depth: 1, Text: "Software Engineer, Company | 2021 – Present"},
		{Kind: document.KindBullet, Path: "0/0/0", Depth: 2, Text: "Led the frontend overhaul using React"},
		{Kind: document.KindBullet, Path: "0/0/1", Depth: 2, Text: "Cut build times by 40% with incremental caching", Hidden: true},
		{Kind: document.KindSection, Path: "1", Text: "Secret", Hidden: true},
		{Kind: document.KindEntry, Path: "1/0", Depth: 1, Text: "Side project", Hidden: true},
		{Kind: document.KindBullet, Path: "1/0/0", Depth: 2, Text: "Shipped it", Hidden: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected outline (-want +got):\n%s", diff)
	}
}
