package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"tableflip.dev/resume/pkg/document"
)

func TestRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		t.Run(f.String(), func(t *testing.T) {
			want := document.Default()
			raw, err := Serialize(want, f)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			got, err := Deserialize(raw, f)
			if err != nil {
				t.Fatalf("deserialize: %v\n%s", err, raw)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round trip changed the document (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeserializeRejects(t *testing.T) {
	tests := map[string]struct {
		data   string
		format Format
	}{
		"empty object":   {data: `{}`, format: FormatJSON},
		"no header":      {data: `{"sections":[]}`, format: FormatJSON},
		"null sections":  {data: `{"header":{},"sections":null}`, format: FormatJSON},
		"not an object":  {data: `[1,2]`, format: FormatJSON},
		"garbage":        {data: `{"header":`, format: FormatJSON},
		"yaml no header": {data: "sections: []\n", format: FormatYAML},
		"md no name":     {data: "## Experience\n", format: FormatMarkdown},
		"md no sections": {data: "# Jo\n\nBerlin\n", format: FormatMarkdown},
		"md stray entry": {data: "# Jo\n\n### Engineer\n", format: FormatMarkdown},
		"unknown format": {data: `{}`, format: Format("toml")},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Deserialize([]byte(tc.data), tc.format); !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestDeserializeMigratesLegacyYAML(t *testing.T) {
	data := `
header:
  name: Jo
sections:
  - title: Skills
    entries:
      - title: Languages
        bullets:
          - Go
          - text: Rust
            hidden: true
`
	got, err := Deserialize([]byte(data), FormatYAML)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	want := &document.Document{
		Version:  document.CurrentSchema,
		Header:   document.Header{Name: "Jo"},
		Settings: document.DefaultSettings(),
		Sections: []document.Section{{
			Title: "Skills",
			Entries: []document.Entry{{
				Title:   "Languages",
				Bullets: []document.Bullet{{Text: "Go"}, {Text: "Rust", Hidden: true}},
			}},
		}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestMarkdownExport(t *testing.T) {
	doc := document.Default()
	doc.Sections[0].Entries[0].Bullets[1].Hidden = true
	doc.Sections = append(doc.Sections,
		document.Section{Title: "Hidden", Hidden: true},
		document.Section{Title: "Education", Entries: []document.Entry{{Title: "BSc", Meta: "2015", Stacked: true}}},
	)
	raw, err := Serialize(doc, FormatMarkdown)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	out := string(raw)
	for _, want := range []string{
		"# Your Name",
		"## Experience",
		"### Software Engineer, Company | 2021 – Present",
		"- Led the **frontend overhaul** using React",
		"### BSc\n\n2015",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	for _, hidden := range []string{"Cut build times", "## Hidden"} {
		if strings.Contains(out, hidden) {
			t.Fatalf("hidden item %q exported:\n%s", hidden, out)
		}
	}

	back, err := Deserialize(raw, FormatMarkdown)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	e := back.Sections[1].Entries[0]
	if e.Title != "BSc" || e.Meta != "2015" || !e.Stacked {
		t.Fatalf("stacked entry not restored: %+v", e)
	}
}

func TestMarkdownImport(t *testing.T) {
	src := `# Jo Doe

Berlin | jo@example.com
[site](jo.dev)

## Experience

### Staff Engineer | 2020 – now

* Built *things*
* Ran the on-call rotation
`
	doc, err := Deserialize([]byte(src), FormatMarkdown)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if doc.Header.Name != "Jo Doe" {
		t.Fatalf("unexpected name %q", doc.Header.Name)
	}
	if doc.Header.Contact != "Berlin | jo@example.com\n[site](jo.dev)" {
		t.Fatalf("unexpected contact %q", doc.Header.Contact)
	}
	e := doc.Sections[0].Entries[0]
	if e.Title != "Staff Engineer" || e.Meta != "2020 – now" || e.Stacked {
		t.Fatalf("unexpected entry %+v", e)
	}
	want := []document.Bullet{{Text: "Built *things*"}, {Text: "Ran the on-call rotation"}}
	if diff := cmp.Diff(want, e.Bullets); diff != "" {
		t.Fatalf("unexpected bullets (-want +got):\n%s", diff)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"resume.json":     FormatJSON,
		"resume.YAML":     FormatYAML,
		"dir/resume.yml":  FormatYAML,
		"resume.md":       FormatMarkdown,
		"resume.markdown": FormatMarkdown,
	}
	for path, want := range tests {
		got, err := FormatForPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v; want %q", path, got, err, want)
		}
	}
	for _, path := range []string{"resume", "resume.pdf"} {
		if _, err := FormatForPath(path); !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: expected ErrFormat, got %v", path, err)
		}
	}
}
