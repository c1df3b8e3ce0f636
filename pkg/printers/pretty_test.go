package printers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/edit"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/store"
)

func init() {
	color.NoColor = true
}

func TestOutlineSkipsHidden(t *testing.T) {
	doc := document.Default()
	doc.Sections[0].Entries[0].Bullets[1].Hidden = true
	lines := render.Outline(render.Project(doc))

	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Outline(lines)
	out := buf.String()
	if !strings.Contains(out, "0/0/0") {
		t.Fatalf("missing visible bullet:\n%s", out)
	}
	if strings.Contains(out, "0/0/1") {
		t.Fatalf("hidden bullet printed:\n%s", out)
	}

	buf.Reset()
	pp.ShowHidden = true
	pp.Outline(lines)
	if !strings.Contains(buf.String(), "(hidden)") {
		t.Fatalf("hidden bullet not marked:\n%s", buf.String())
	}
}

func TestDocuments(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Documents(nil, "resume")
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("empty list = %q", buf.String())
	}

	buf.Reset()
	pp.Documents([]store.Meta{
		{Name: "resume", Size: 120, Updated: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Name: "cv-de", Size: 80},
	}, "resume")
	out := buf.String()
	for _, want := range []string{"* ", "resume", "cv-de", "120B"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	doc := document.Default()
	first, err := edit.AddSection(doc, "One")
	if err != nil {
		t.Fatal(err)
	}
	second, err := edit.ChangeSetting(doc, "density", "compact")
	if err != nil {
		t.Fatal(err)
	}
	pp.History([]edit.Action{first, second})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], second.String()) || !strings.HasSuffix(lines[1], first.String()) {
		t.Fatalf("newest action is not first:\n%s", buf.String())
	}
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Done("added %q", "Education")
	pp.Failed(errors.New("boom"))
	if got, want := buf.String(), "✓ added \"Education\"\n✗ boom\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
