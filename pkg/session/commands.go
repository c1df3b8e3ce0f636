package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/edit"
)

func (s *Session) AddSection(ctx context.Context, title string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.AddSection(d, title)
	})
}

func (s *Session) AddEntry(ctx context.Context, sec int, title, meta string, stacked bool) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.AddEntry(d, sec, title, meta, stacked)
	})
}

func (s *Session) AddBullet(ctx context.Context, sec, entry int, text string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.AddBullet(d, sec, entry, text)
	})
}

func (s *Session) EditHeader(ctx context.Context, name, contact string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.EditHeader(d, name, contact)
	})
}

func (s *Session) AppendContact(ctx context.Context, part string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.AppendContact(d, part)
	})
}

func (s *Session) EditSection(ctx context.Context, sec int, title string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.EditSection(d, sec, title)
	})
}

func (s *Session) EditEntry(ctx context.Context, p document.Path, f edit.EntryFields) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.EditEntry(d, p, f)
	})
}

func (s *Session) EditBullet(ctx context.Context, p document.Path, text string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.EditBullet(d, p, text)
	})
}

func (s *Session) ToggleHidden(ctx context.Context, k document.Kind, p document.Path) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.ToggleHidden(d, k, p)
	})
}

func (s *Session) Move(ctx context.Context, k document.Kind, p document.Path, dir int) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.Move(d, k, p, dir)
	})
}

func (s *Session) Delete(ctx context.Context, k document.Kind, p document.Path) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.Delete(d, k, p)
	})
}

// ChangeSetting sets "density" or "font".
func (s *Session) ChangeSetting(ctx context.Context, key, value string) error {
	return s.mutate(ctx, func(d *document.Document) (edit.Action, error) {
		return edit.ChangeSetting(d, key, value)
	})
}

// Command names accepted by Dispatch.
const (
	CmdAddSection    = "add-section"
	CmdAddEntry      = "add-entry"
	CmdAddBullet     = "add-bullet"
	CmdEditHeader    = "edit-header"
	CmdAppendContact = "append-contact"
	CmdEditSection   = "edit-section"
	CmdEditEntry     = "edit-entry"
	CmdEditBullet    = "edit-bullet"
	CmdToggle        = "toggle"
	CmdMove          = "move"
	CmdDelete        = "delete"
	CmdSet           = "set"
	CmdUndo          = "undo"
	CmdReset         = "reset"
)

var commandHelp = map[string]string{
	CmdAddSection:    "add-section <title>",
	CmdAddEntry:      "add-entry <section> <title> [meta] [--stacked]",
	CmdAddBullet:     "add-bullet <section> <entry> <text>",
	CmdEditHeader:    "edit-header <name> [contact]",
	CmdAppendContact: "append-contact <part>",
	CmdEditSection:   "edit-section <section> <title>",
	CmdEditEntry:     "edit-entry <section> <entry> <title> [meta] [--stacked|--inline]",
	CmdEditBullet:    "edit-bullet <section> <entry> <bullet> <text>",
	CmdToggle:        "toggle <kind> <path>",
	CmdMove:          "move <kind> <path> up|down",
	CmdDelete:        "delete <kind> <path>",
	CmdSet:           "set density|font <value>",
	CmdUndo:          "undo",
	CmdReset:         "reset",
}

// Commands lists the usage line of every command, sorted by name.
func Commands() []string {
	names := make([]string, 0, len(commandHelp))
	for name := range commandHelp {
		names = append(names, name)
	}
	sort.Strings(names)
	usage := make([]string, len(names))
	for i, name := range names {
		usage[i] = commandHelp[name]
	}
	return usage
}

// Command is the serializable form of a call on the command surface. Only the
// fields the Op reads are set. Contact and Meta are pointers so an edit can
// leave them untouched.
type Command struct {
	Op        string        `json:"op"`
	Kind      string        `json:"kind,omitempty"`
	Path      document.Path `json:"path"`
	Direction int           `json:"direction,omitempty"`
	Title     string        `json:"title,omitempty"`
	Meta      *string       `json:"meta,omitempty"`
	Text      string        `json:"text,omitempty"`
	Name      string        `json:"name,omitempty"`
	Contact   *string       `json:"contact,omitempty"`
	Stacked   *bool         `json:"stacked,omitempty"`
	Key       string        `json:"key,omitempty"`
	Value     string        `json:"value,omitempty"`
}

// Dispatch runs c against the session.
func (s *Session) Dispatch(ctx context.Context, c Command) error {
	op := strings.ToLower(strings.TrimSpace(c.Op))
	switch op {
	case CmdAddSection:
		return s.AddSection(ctx, c.Title)
	case CmdAddEntry:
		return s.AddEntry(ctx, c.Path.Section, c.Title, deref(c.Meta), c.Stacked != nil && *c.Stacked)
	case CmdAddBullet:
		return s.AddBullet(ctx, c.Path.Section, c.Path.Entry, c.Text)
	case CmdEditHeader:
		contact := s.doc.Header.Contact
		if c.Contact != nil {
			contact = *c.Contact
		}
		return s.EditHeader(ctx, c.Name, contact)
	case CmdAppendContact:
		return s.AppendContact(ctx, c.Text)
	case CmdEditSection:
		return s.EditSection(ctx, c.Path.Section, c.Title)
	case CmdEditEntry:
		e, err := s.doc.EntryAt(c.Path)
		if err != nil {
			return err
		}
		meta := e.Meta
		if c.Meta != nil {
			meta = *c.Meta
		}
		return s.EditEntry(ctx, c.Path, edit.EntryFields{Title: c.Title, Meta: meta, Stacked: c.Stacked})
	case CmdEditBullet:
		return s.EditBullet(ctx, c.Path, c.Text)
	case CmdToggle, CmdMove, CmdDelete:
		k, err := parseKind(c.Kind)
		if err != nil {
			return err
		}
		switch op {
		case CmdToggle:
			return s.ToggleHidden(ctx, k, c.Path)
		case CmdMove:
			return s.Move(ctx, k, c.Path, c.Direction)
		}
		return s.Delete(ctx, k, c.Path)
	case CmdSet:
		return s.ChangeSetting(ctx, c.Key, c.Value)
	case CmdUndo:
		_, err := s.Undo(ctx)
		return err
	case CmdReset:
		return s.Reset(ctx)
	}
	return &document.ValidationError{Field: "op", Reason: fmt.Sprintf("is unknown: %q", c.Op)}
}

func parseKind(raw string) (document.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &document.ValidationError{Field: "kind"}
	}
	k, err := document.ParseKind(raw)
	if err != nil {
		return "", &document.ValidationError{Field: "kind", Reason: "is unknown: " + raw}
	}
	return k, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
