package edit

import (
	"errors"
	"strings"

	"github.com/go-playground/validator"

	"tableflip.dev/resume/pkg/document"
)

var validate = validator.New()

type sectionRequest struct {
	Title string `validate:"required"`
}

type entryRequest struct {
	Title string `validate:"required"`
	Meta  string
}

type bulletRequest struct {
	Text string `validate:"required"`
}

type headerRequest struct {
	Name    string `validate:"required"`
	Contact string
}

type contactRequest struct {
	Contact string `validate:"required"`
}

// check runs the struct tags and converts the first failure into a
// document.ValidationError naming the field.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &document.ValidationError{Field: strings.ToLower(verrs[0].Field())}
	}
	return err
}

// AddSection appends a new, empty section.
func AddSection(doc *document.Document, title string) (Action, error) {
	req := sectionRequest{Title: strings.TrimSpace(title)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{
		Op:      OpAppend,
		Kind:    document.KindSection,
		Section: &document.Section{Title: req.Title, Entries: []document.Entry{}},
	})
}

// AddEntry appends an entry to the section at sec.
func AddEntry(doc *document.Document, sec int, title, meta string, stacked bool) (Action, error) {
	if _, err := doc.SectionAt(sec); err != nil {
		return Action{}, err
	}
	req := entryRequest{Title: strings.TrimSpace(title), Meta: strings.TrimSpace(meta)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{
		Op:   OpAppend,
		Kind: document.KindEntry,
		Path: document.Path{Section: sec},
		Entry: &document.Entry{
			Title:   req.Title,
			Meta:    req.Meta,
			Stacked: stacked,
			Bullets: []document.Bullet{},
		},
	})
}

// AddBullet appends a bullet to the entry at sec/entry.
func AddBullet(doc *document.Document, sec, entry int, text string) (Action, error) {
	p := document.Path{Section: sec, Entry: entry}
	if _, err := doc.EntryAt(p); err != nil {
		return Action{}, err
	}
	req := bulletRequest{Text: strings.TrimSpace(text)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{
		Op:     OpAppend,
		Kind:   document.KindBullet,
		Path:   p,
		Bullet: &document.Bullet{Text: req.Text},
	})
}

// EditHeader replaces the name and the contact line. The contact line is
// stored as given; use AppendContact to extend it.
func EditHeader(doc *document.Document, name, contact string) (Action, error) {
	req := headerRequest{Name: strings.TrimSpace(name), Contact: strings.TrimSpace(contact)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{
		Op:     OpSetHeader,
		Header: &document.Header{Name: req.Name, Contact: req.Contact},
	})
}

// ContactSeparator joins contact parts added with AppendContact.
const ContactSeparator = " | "

// AppendContact adds part to the contact line. An empty or placeholder
// contact line is replaced instead.
func AppendContact(doc *document.Document, part string) (Action, error) {
	req := contactRequest{Contact: strings.TrimSpace(part)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	h := doc.Header
	switch current := strings.TrimSpace(h.Contact); current {
	case "", document.ContactPlaceholder:
		h.Contact = req.Contact
	default:
		h.Contact = h.Contact + ContactSeparator + req.Contact
	}
	return Apply(doc, Action{Op: OpSetHeader, Header: &h})
}

// EditSection renames the section at sec.
func EditSection(doc *document.Document, sec int, title string) (Action, error) {
	if _, err := doc.SectionAt(sec); err != nil {
		return Action{}, err
	}
	req := sectionRequest{Title: strings.TrimSpace(title)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{
		Op:      OpSetSection,
		Path:    document.Path{Section: sec},
		Section: &document.Section{Title: req.Title},
	})
}

// EntryFields are the editable fields of an entry. A nil Stacked keeps the
// current layout.
type EntryFields struct {
	Title   string
	Meta    string
	Stacked *bool
}

// EditEntry replaces the title line of the entry at p.
func EditEntry(doc *document.Document, p document.Path, f EntryFields) (Action, error) {
	e, err := doc.EntryAt(p)
	if err != nil {
		return Action{}, err
	}
	req := entryRequest{Title: strings.TrimSpace(f.Title), Meta: strings.TrimSpace(f.Meta)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	stacked := e.Stacked
	if f.Stacked != nil {
		stacked = *f.Stacked
	}
	return Apply(doc, Action{
		Op:    OpSetEntry,
		Path:  p,
		Entry: &document.Entry{Title: req.Title, Meta: req.Meta, Stacked: stacked},
	})
}

// EditBullet replaces the text of the bullet at p.
func EditBullet(doc *document.Document, p document.Path, text string) (Action, error) {
	if _, err := doc.BulletAt(p); err != nil {
		return Action{}, err
	}
	req := bulletRequest{Text: strings.TrimSpace(text)}
	if err := check(req); err != nil {
		return Action{}, err
	}
	return Apply(doc, Action{Op: OpSetBullet, Path: p, Bullet: &document.Bullet{Text: req.Text}})
}

// ToggleHidden flips the hidden flag of the item at p.
func ToggleHidden(doc *document.Document, k document.Kind, p document.Path) (Action, error) {
	return Apply(doc, Action{Op: OpToggle, Kind: k, Path: p})
}

// Move swaps the item at p with its neighbour in direction dir (-1 or +1).
// Moving past either end leaves the sequence unchanged.
func Move(doc *document.Document, k document.Kind, p document.Path, dir int) (Action, error) {
	if dir != -1 && dir != 1 {
		return Action{}, &document.ValidationError{Field: "direction", Reason: "must be -1 or +1"}
	}
	return Apply(doc, Action{Op: OpMove, Kind: k, Path: p, Direction: dir})
}

// Delete removes the item at p together with its subtree.
func Delete(doc *document.Document, k document.Kind, p document.Path) (Action, error) {
	return Apply(doc, Action{Op: OpRemove, Kind: k, Path: p})
}

// ChangeSettings replaces the presentation settings.
func ChangeSettings(doc *document.Document, s document.Settings) (Action, error) {
	if _, err := document.ParseDensity(string(s.Density)); err != nil {
		return Action{}, &document.ValidationError{Field: "density", Reason: "is unknown: " + string(s.Density)}
	}
	if _, err := document.ParseFont(string(s.Font)); err != nil {
		return Action{}, &document.ValidationError{Field: "font", Reason: "is unknown: " + string(s.Font)}
	}
	if s.Density == "" {
		s.Density = document.DensityStandard
	}
	if s.Font == "" {
		s.Font = document.FontSans
	}
	return Apply(doc, Action{Op: OpSetSettings, Settings: &s})
}

// ChangeSetting updates a single setting by name ("density" or "font").
func ChangeSetting(doc *document.Document, key, value string) (Action, error) {
	s := doc.Settings
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "density":
		d, err := document.ParseDensity(value)
		if err != nil {
			return Action{}, &document.ValidationError{Field: "density", Reason: "is unknown: " + value}
		}
		s.Density = d
	case "font":
		f, err := document.ParseFont(value)
		if err != nil {
			return Action{}, &document.ValidationError{Field: "font", Reason: "is unknown: " + value}
		}
		s.Font = f
	default:
		return Action{}, &document.ValidationError{Field: "setting", Reason: "is unknown: " + key}
	}
	return ChangeSettings(doc, s)
}

// Replace swaps in a whole new document, e.g. after an import.
func Replace(doc *document.Document, next *document.Document) (Action, error) {
	return Apply(doc, Action{Op: OpReplace, Document: next})
}
