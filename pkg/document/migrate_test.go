package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const legacyV1 = `{
  "header": {"name": "Ada Lovelace", "contact": "London"},
  "sections": [
    {
      "title": "Experience",
      "entries": [
        {"title": "Analyst", "meta": "1843", "bullets": ["Wrote notes", {"text": "First program"}]}
      ]
    }
  ]
}`

func TestMigrateLegacyDocument(t *testing.T) {
	d, err := Migrate([]byte(legacyV1))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	want := &Document{
		Version: CurrentSchema,
		Header:  Header{Name: "Ada Lovelace", Contact: "London"},
		Sections: []Section{{
			Title: "Experience",
			Entries: []Entry{{
				Title: "Analyst",
				Meta:  "1843",
				Bullets: []Bullet{
					{Text: "Wrote notes"},
					{Text: "First program"},
				},
			}},
		}},
		Settings: DefaultSettings(),
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	inputs := []string{
		legacyV1,
		`{"sections": []}`,
		`{"sections": [{"title": "Skills", "hidden": true, "entries": []}], "settings": {"density": "compact"}}`,
		`{"header": {"name": "x"}, "sections": [{"title": "A", "entries": [{"title": "B", "bullets": ["c", {"text": "d", "hidden": true}]}]}], "settings": {"font": "serif", "density": "bogus"}}`,
	}
	for _, in := range inputs {
		once, err := Migrate([]byte(in))
		if err != nil {
			t.Fatalf("migrate %s: %v", in, err)
		}
		raw, err := Marshal(once)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		twice, err := Migrate(raw)
		if err != nil {
			t.Fatalf("re-migrate: %v", err)
		}
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("migration not idempotent for %s (-once +twice):\n%s", in, diff)
		}
	}
}

func TestMigrateDefaultsSettings(t *testing.T) {
	d, err := Migrate([]byte(`{"sections": [], "settings": {"font": "mono", "density": "huge"}}`))
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if d.Settings.Font != FontMono {
		t.Fatalf("expected mono font, got %q", d.Settings.Font)
	}
	if d.Settings.Density != DensityStandard {
		t.Fatalf("expected invalid density to default, got %q", d.Settings.Density)
	}
}

func TestMigrateRejectsMissingSections(t *testing.T) {
	for _, in := range []string{`{}`, `{"header": {"name": "x"}}`, `{"sections": null}`, `[]`, `"text"`, `not json`} {
		if _, err := Migrate([]byte(in)); !errors.Is(err, ErrSchema) {
			t.Fatalf("expected ErrSchema for %s, got %v", in, err)
		}
	}
}

func TestMigrateRejectsBadBullet(t *testing.T) {
	in := `{"sections": [{"title": "A", "entries": [{"title": "B", "bullets": [42]}]}]}`
	if _, err := Migrate([]byte(in)); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	d, ok := Load([]byte(`{"header": {}}`))
	if ok {
		t.Fatal("expected fallback")
	}
	if diff := cmp.Diff(Default(), d); diff != "" {
		t.Fatalf("expected default document (-want +got):\n%s", diff)
	}
}

func TestMigrateValue(t *testing.T) {
	v := map[string]any{
		"sections": []any{
			map[string]any{"title": "Education", "entries": []any{
				map[string]any{"title": "BSc", "bullets": []any{"Graduated"}},
			}},
		},
	}
	d, err := MigrateValue(v)
	if err != nil {
		t.Fatalf("migrate value: %v", err)
	}
	if got := d.Sections[0].Entries[0].Bullets[0]; got != (Bullet{Text: "Graduated"}) {
		t.Fatalf("unexpected bullet %+v", got)
	}
	if _, err := MigrateValue(nil); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for nil, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := Default()
	cp := d.Clone()
	cp.Sections[0].Entries[0].Bullets[0].Text = "changed"
	cp.Sections[0].Title = "changed"
	if d.Sections[0].Title == "changed" || d.Sections[0].Entries[0].Bullets[0].Text == "changed" {
		t.Fatal("clone shares state with original")
	}
}
