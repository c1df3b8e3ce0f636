package edit

import (
	"tableflip.dev/resume/pkg/document"
)

// Apply performs a on doc in place and returns the action that reverts it.
// References are checked against the current shape of doc; an invalid one
// fails with document.ErrIndex and leaves doc untouched.
func Apply(doc *document.Document, a Action) (Action, error) {
	switch a.Op {
	case OpAppend:
		return appendItem(doc, a)
	case OpRemoveLast:
		return removeLast(doc, a)
	case OpInsert:
		return insertItem(doc, a)
	case OpRemove:
		return removeItem(doc, a)
	case OpSetHeader:
		return setHeader(doc, a)
	case OpSetSection:
		return setSection(doc, a)
	case OpSetEntry:
		return setEntry(doc, a)
	case OpSetBullet:
		return setBullet(doc, a)
	case OpSetSettings:
		return setSettings(doc, a)
	case OpToggle:
		return toggle(doc, a)
	case OpMove:
		return move(doc, a)
	case OpReplace:
		return replace(doc, a)
	}
	return Action{}, &document.ValidationError{Field: "op", Reason: "is unknown: " + string(a.Op)}
}

func missing(field string) error {
	return &document.ValidationError{Field: field, Reason: "payload is missing"}
}

func appendItem(doc *document.Document, a Action) (Action, error) {
	inverse := Action{Op: OpRemoveLast, Kind: a.Kind, Path: a.Path}
	switch a.Kind {
	case document.KindSection:
		if a.Section == nil {
			return Action{}, missing("section")
		}
		doc.Sections = append(doc.Sections, a.Section.Clone())
		inverse.Path = document.Path{}
	case document.KindEntry:
		if a.Entry == nil {
			return Action{}, missing("entry")
		}
		s, err := doc.SectionAt(a.Path.Section)
		if err != nil {
			return Action{}, err
		}
		s.Entries = append(s.Entries, a.Entry.Clone())
		inverse.Path = document.Path{Section: a.Path.Section}
	case document.KindBullet:
		if a.Bullet == nil {
			return Action{}, missing("bullet")
		}
		e, err := doc.EntryAt(a.Path)
		if err != nil {
			return Action{}, err
		}
		e.Bullets = append(e.Bullets, *a.Bullet)
		inverse.Path = document.Path{Section: a.Path.Section, Entry: a.Path.Entry}
	default:
		return Action{}, unknownKind(a.Kind)
	}
	return inverse, nil
}

func removeLast(doc *document.Document, a Action) (Action, error) {
	n, err := doc.Len(a.Kind, a.Path)
	if err != nil {
		return Action{}, err
	}
	if n == 0 {
		return Action{}, &document.IndexError{Kind: a.Kind, Index: -1, Len: 0}
	}
	last := a.Path.WithIndex(a.Kind, n-1)
	removed, err := removeItem(doc, Action{Op: OpRemove, Kind: a.Kind, Path: last})
	if err != nil {
		return Action{}, err
	}
	removed.Op = OpAppend
	removed.Path = a.Path
	return removed, nil
}

func insertItem(doc *document.Document, a Action) (Action, error) {
	n, err := doc.Len(a.Kind, a.Path)
	if err != nil {
		return Action{}, err
	}
	i := a.Path.Index(a.Kind)
	// Inserting at n appends.
	if i < 0 || i > n {
		return Action{}, &document.IndexError{Kind: a.Kind, Index: i, Len: n + 1}
	}
	switch a.Kind {
	case document.KindSection:
		if a.Section == nil {
			return Action{}, missing("section")
		}
		doc.Sections = insertAt(doc.Sections, i, a.Section.Clone())
	case document.KindEntry:
		if a.Entry == nil {
			return Action{}, missing("entry")
		}
		s := &doc.Sections[a.Path.Section]
		s.Entries = insertAt(s.Entries, i, a.Entry.Clone())
	case document.KindBullet:
		if a.Bullet == nil {
			return Action{}, missing("bullet")
		}
		e := &doc.Sections[a.Path.Section].Entries[a.Path.Entry]
		e.Bullets = insertAt(e.Bullets, i, *a.Bullet)
	}
	return Action{Op: OpRemove, Kind: a.Kind, Path: a.Path}, nil
}

func removeItem(doc *document.Document, a Action) (Action, error) {
	inverse := Action{Op: OpInsert, Kind: a.Kind, Path: a.Path}
	switch a.Kind {
	case document.KindSection:
		if _, err := doc.SectionAt(a.Path.Section); err != nil {
			return Action{}, err
		}
		var removed document.Section
		doc.Sections, removed = removeAt(doc.Sections, a.Path.Section)
		inverse.Section = &removed
	case document.KindEntry:
		if _, err := doc.EntryAt(a.Path); err != nil {
			return Action{}, err
		}
		s := &doc.Sections[a.Path.Section]
		var removed document.Entry
		s.Entries, removed = removeAt(s.Entries, a.Path.Entry)
		inverse.Entry = &removed
	case document.KindBullet:
		if _, err := doc.BulletAt(a.Path); err != nil {
			return Action{}, err
		}
		e := &doc.Sections[a.Path.Section].Entries[a.Path.Entry]
		var removed document.Bullet
		e.Bullets, removed = removeAt(e.Bullets, a.Path.Bullet)
		inverse.Bullet = &removed
	default:
		return Action{}, unknownKind(a.Kind)
	}
	return inverse, nil
}

func setHeader(doc *document.Document, a Action) (Action, error) {
	if a.Header == nil {
		return Action{}, missing("header")
	}
	prev := doc.Header
	doc.Header = *a.Header
	return Action{Op: OpSetHeader, Header: &prev}, nil
}

func setSection(doc *document.Document, a Action) (Action, error) {
	if a.Section == nil {
		return Action{}, missing("section")
	}
	s, err := doc.SectionAt(a.Path.Section)
	if err != nil {
		return Action{}, err
	}
	prev := document.Section{Title: s.Title}
	s.Title = a.Section.Title
	return Action{Op: OpSetSection, Path: document.Path{Section: a.Path.Section}, Section: &prev}, nil
}

func setEntry(doc *document.Document, a Action) (Action, error) {
	if a.Entry == nil {
		return Action{}, missing("entry")
	}
	e, err := doc.EntryAt(a.Path)
	if err != nil {
		return Action{}, err
	}
	prev := document.Entry{Title: e.Title, Meta: e.Meta, Stacked: e.Stacked}
	e.Title, e.Meta, e.Stacked = a.Entry.Title, a.Entry.Meta, a.Entry.Stacked
	return Action{
		Op:    OpSetEntry,
		Path:  document.Path{Section: a.Path.Section, Entry: a.Path.Entry},
		Entry: &prev,
	}, nil
}

func setBullet(doc *document.Document, a Action) (Action, error) {
	if a.Bullet == nil {
		return Action{}, missing("bullet")
	}
	b, err := doc.BulletAt(a.Path)
	if err != nil {
		return Action{}, err
	}
	prev := document.Bullet{Text: b.Text}
	b.Text = a.Bullet.Text
	return Action{Op: OpSetBullet, Path: a.Path, Bullet: &prev}, nil
}

func setSettings(doc *document.Document, a Action) (Action, error) {
	if a.Settings == nil {
		return Action{}, missing("settings")
	}
	prev := doc.Settings
	doc.Settings = *a.Settings
	return Action{Op: OpSetSettings, Settings: &prev}, nil
}

func toggle(doc *document.Document, a Action) (Action, error) {
	switch a.Kind {
	case document.KindSection:
		s, err := doc.SectionAt(a.Path.Section)
		if err != nil {
			return Action{}, err
		}
		s.Hidden = !s.Hidden
	case document.KindEntry:
		e, err := doc.EntryAt(a.Path)
		if err != nil {
			return Action{}, err
		}
		e.Hidden = !e.Hidden
	case document.KindBullet:
		b, err := doc.BulletAt(a.Path)
		if err != nil {
			return Action{}, err
		}
		b.Hidden = !b.Hidden
	default:
		return Action{}, unknownKind(a.Kind)
	}
	return Action{Op: OpToggle, Kind: a.Kind, Path: a.Path}, nil
}

func move(doc *document.Document, a Action) (Action, error) {
	switch a.Direction {
	case -1, 0, 1:
	default:
		return Action{}, &document.ValidationError{Field: "direction", Reason: "must be -1 or +1"}
	}
	n, err := doc.Len(a.Kind, a.Path)
	if err != nil {
		return Action{}, err
	}
	i := a.Path.Index(a.Kind)
	if i < 0 || i >= n {
		return Action{}, &document.IndexError{Kind: a.Kind, Index: i, Len: n}
	}
	j := i + a.Direction
	if a.Direction == 0 || j < 0 || j >= n {
		return Action{Op: OpMove, Kind: a.Kind, Path: a.Path}, nil
	}
	switch a.Kind {
	case document.KindSection:
		doc.Sections[i], doc.Sections[j] = doc.Sections[j], doc.Sections[i]
	case document.KindEntry:
		es := doc.Sections[a.Path.Section].Entries
		es[i], es[j] = es[j], es[i]
	case document.KindBullet:
		bs := doc.Sections[a.Path.Section].Entries[a.Path.Entry].Bullets
		bs[i], bs[j] = bs[j], bs[i]
	}
	return Action{Op: OpMove, Kind: a.Kind, Path: a.Path.WithIndex(a.Kind, j), Direction: -a.Direction}, nil
}

func replace(doc *document.Document, a Action) (Action, error) {
	if a.Document == nil {
		return Action{}, missing("document")
	}
	prev := doc.Clone()
	*doc = *a.Document.Clone()
	return Action{Op: OpReplace, Document: prev}, nil
}

func unknownKind(k document.Kind) error {
	return &document.ValidationError{Field: "kind", Reason: "is unknown: " + string(k)}
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) ([]T, T) {
	removed := s[i]
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1], removed
}
