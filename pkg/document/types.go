// Package document defines the resume document tree and its schema migration.
package document

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentSchema is the schema version written by Migrate.
const CurrentSchema = 2

// ContactPlaceholder is the contact line of the built-in document.
const ContactPlaceholder = "Location | Email | Phone | Website"

// Density controls vertical spacing of the rendered resume.
type Density string

const (
	DensityStandard    Density = "standard"
	DensityCompact     Density = "compact"
	DensityComfortable Density = "comfortable"
)

// AllDensities returns the supported densities in display order.
func AllDensities() []Density {
	return []Density{DensityStandard, DensityCompact, DensityComfortable}
}

// ParseDensity converts a string to a Density. Empty input yields the default.
func ParseDensity(raw string) (Density, error) {
	d := Density(strings.ToLower(strings.TrimSpace(raw)))
	if d == "" {
		return DensityStandard, nil
	}
	for _, candidate := range AllDensities() {
		if candidate == d {
			return candidate, nil
		}
	}
	return DensityStandard, fmt.Errorf("document: unknown density %q", raw)
}

func (d Density) String() string {
	return string(d)
}

// Font selects the typeface family of the rendered resume.
type Font string

const (
	FontSans  Font = "sans"
	FontSerif Font = "serif"
	FontMono  Font = "mono"
)

// AllFonts returns the supported fonts in display order.
func AllFonts() []Font {
	return []Font{FontSans, FontSerif, FontMono}
}

// ParseFont converts a string to a Font. Empty input yields the default.
func ParseFont(raw string) (Font, error) {
	f := Font(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FontSans, nil
	}
	for _, candidate := range AllFonts() {
		if candidate == f {
			return candidate, nil
		}
	}
	return FontSans, fmt.Errorf("document: unknown font %q", raw)
}

func (f Font) String() string {
	return string(f)
}

// Kind names the level of the tree an item lives on.
type Kind string

const (
	KindSection Kind = "section"
	KindEntry   Kind = "entry"
	KindBullet  Kind = "bullet"
)

// ParseKind converts a string to a Kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindSection, KindEntry, KindBullet:
		return k, nil
	case "sections":
		return KindSection, nil
	case "entries":
		return KindEntry, nil
	case "bullets":
		return KindBullet, nil
	}
	return "", fmt.Errorf("document: unknown kind %q", raw)
}

func (k Kind) String() string {
	return string(k)
}

// Path addresses an item in the tree. Fields deeper than the addressed kind are
// ignored, so a section path only reads Section.
type Path struct {
	Section int `json:"section"`
	Entry   int `json:"entry,omitempty"`
	Bullet  int `json:"bullet,omitempty"`
}

func (p Path) String() string {
	return fmt.Sprintf("%d/%d/%d", p.Section, p.Entry, p.Bullet)
}

// Format renders the path truncated to the given kind, e.g. "0/1" for an entry.
func (p Path) Format(k Kind) string {
	switch k {
	case KindSection:
		return fmt.Sprintf("%d", p.Section)
	case KindEntry:
		return fmt.Sprintf("%d/%d", p.Section, p.Entry)
	default:
		return p.String()
	}
}

// ParsePath reads a path written by Format and returns it with the kind its
// depth implies: "2" is a section, "2/0" an entry and "2/0/1" a bullet.
func ParsePath(raw string) (Path, Kind, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) > 3 {
		return Path{}, "", &ValidationError{Field: "path", Reason: fmt.Sprintf("has too many parts: %q", raw)}
	}
	var idx [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return Path{}, "", &ValidationError{Field: "path", Reason: fmt.Sprintf("is not an index path: %q", raw)}
		}
		idx[i] = n
	}
	kinds := [...]Kind{KindSection, KindEntry, KindBullet}
	return Path{Section: idx[0], Entry: idx[1], Bullet: idx[2]}, kinds[len(parts)-1], nil
}

// Document is the root of a resume.
type Document struct {
	Version  int       `json:"version"`
	Header   Header    `json:"header"`
	Sections []Section `json:"sections"`
	Settings Settings  `json:"settings"`
}

// Header holds the name line and the contact line.
type Header struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Settings are presentation choices applied to the whole document.
type Settings struct {
	Density Density `json:"density"`
	Font    Font    `json:"font"`
}

// DefaultSettings returns the settings used when a document has none.
func DefaultSettings() Settings {
	return Settings{Density: DensityStandard, Font: FontSans}
}

// Section is a titled group of entries, e.g. "Experience".
type Section struct {
	Title   string  `json:"title"`
	Hidden  bool    `json:"hidden"`
	Entries []Entry `json:"entries"`
}

// Entry is a title line with optional meta (dates, link) and bullets.
type Entry struct {
	Title   string   `json:"title"`
	Meta    string   `json:"meta"`
	Stacked bool     `json:"stacked"`
	Hidden  bool     `json:"hidden"`
	Bullets []Bullet `json:"bullets"`
}

// Bullet is a single line under an entry.
type Bullet struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
}

// Default returns the built-in document used for new sessions and as the
// fallback for unreadable storage.
func Default() *Document {
	return &Document{
		Version: CurrentSchema,
		Header: Header{
			Name:    "Your Name",
			Contact: ContactPlaceholder,
		},
		Sections: []Section{{
			Title: "Experience",
			Entries: []Entry{{
				Title: "Software Engineer, Company",
				Meta:  "2021 – Present",
				Bullets: []Bullet{
					{Text: "Led the **frontend overhaul** using React"},
					{Text: "Cut build times by 40% with incremental caching"},
				},
			}},
		}},
		Settings: DefaultSettings(),
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Sections = cloneSections(d.Sections)
	return &cp
}

// Clone returns a deep copy of the section and its subtree.
func (s Section) Clone() Section {
	cp := s
	if s.Entries == nil {
		return cp
	}
	cp.Entries = make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		cp.Entries[i] = e.Clone()
	}
	return cp
}

// Clone returns a deep copy of the entry and its bullets.
func (e Entry) Clone() Entry {
	cp := e
	if e.Bullets != nil {
		cp.Bullets = append(make([]Bullet, 0, len(e.Bullets)), e.Bullets...)
	}
	return cp
}

func cloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
