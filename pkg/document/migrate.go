package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Migrate upgrades a persisted document of any known shape to the current
// schema. It fails with ErrSchema when raw is not an object or has no
// sections. Migration only adds what is missing, so running it on its own
// output changes nothing.
func Migrate(raw []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: not an object", ErrSchema)
	}
	if sections, ok := top["sections"]; !ok || isNull(sections) {
		return nil, fmt.Errorf("%w: missing sections", ErrSchema)
	}

	var in rawDocument
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return in.upgrade(), nil
}

// MigrateValue migrates an already decoded value, e.g. a map produced by a
// YAML or JSON decoder.
func MigrateValue(v any) (*Document, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: empty value", ErrSchema)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return Migrate(raw)
}

// Load migrates raw and falls back to Default when raw is unusable. The
// boolean reports whether raw was used.
func Load(raw []byte) (*Document, bool) {
	d, err := Migrate(raw)
	if err != nil {
		return Default(), false
	}
	return d, true
}

// Marshal encodes the document in its canonical persisted form.
func Marshal(d *Document) ([]byte, error) {
	cp := d.Clone()
	cp.normalize()
	return json.MarshalIndent(cp, "", "  ")
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// normalize replaces nil sequences with empty ones so the encoded form never
// carries null where a list is expected.
func (d *Document) normalize() {
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.Entries == nil {
			s.Entries = []Entry{}
		}
		for j := range s.Entries {
			if s.Entries[j].Bullets == nil {
				s.Entries[j].Bullets = []Bullet{}
			}
		}
	}
}

type rawDocument struct {
	Version  int          `json:"version"`
	Header   *Header      `json:"header"`
	Sections []rawSection `json:"sections"`
	Settings *rawSettings `json:"settings"`
}

type rawSettings struct {
	Density string `json:"density"`
	Font    string `json:"font"`
}

type rawSection struct {
	Title   string     `json:"title"`
	Hidden  bool       `json:"hidden"`
	Entries []rawEntry `json:"entries"`
}

type rawEntry struct {
	Title   string      `json:"title"`
	Meta    string      `json:"meta"`
	Stacked bool        `json:"stacked"`
	Hidden  bool        `json:"hidden"`
	Bullets []rawBullet `json:"bullets"`
}

// rawBullet resolves the two persisted bullet shapes: a bare string (schema 1)
// and an object with text and hidden.
type rawBullet struct {
	Bullet
}

func (b *rawBullet) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		b.Bullet = Bullet{Text: text}
		return nil
	}
	var obj struct {
		Text   string `json:"text"`
		Hidden bool   `json:"hidden"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("bullet must be a string or an object: %w", err)
	}
	b.Bullet = Bullet{Text: obj.Text, Hidden: obj.Hidden}
	return nil
}

func (in *rawDocument) upgrade() *Document {
	d := &Document{
		Version:  CurrentSchema,
		Sections: make([]Section, 0, len(in.Sections)),
		Settings: DefaultSettings(),
	}
	if in.Header != nil {
		d.Header = *in.Header
	}
	if in.Settings != nil {
		if density, err := ParseDensity(in.Settings.Density); err == nil {
			d.Settings.Density = density
		}
		if font, err := ParseFont(in.Settings.Font); err == nil {
			d.Settings.Font = font
		}
	}
	for _, rs := range in.Sections {
		s := Section{
			Title:   rs.Title,
			Hidden:  rs.Hidden,
			Entries: make([]Entry, 0, len(rs.Entries)),
		}
		for _, re := range rs.Entries {
			e := Entry{
				Title:   re.Title,
				Meta:    re.Meta,
				Stacked: re.Stacked,
				Hidden:  re.Hidden,
				Bullets: make([]Bullet, 0, len(re.Bullets)),
			}
			for _, rb := range re.Bullets {
				e.Bullets = append(e.Bullets, rb.Bullet)
			}
			s.Entries = append(s.Entries, e)
		}
		d.Sections = append(d.Sections, s)
	}
	return d
}
