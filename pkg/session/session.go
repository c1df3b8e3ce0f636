// Package session holds one open resume: the document, its undo log and the
// store it is saved to. Every change goes through a Session so the document
// is re-projected and persisted after it.
//
// A Session is not safe for concurrent use; callers serialize access. Export
// is the only operation that runs in the background, and while it does every
// mutation fails with ErrBusy.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/edit"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/store"
	"tableflip.dev/resume/pkg/undo"
)

// ErrBusy reports a change attempted while an export is running.
var ErrBusy = errors.New("session: export in progress")

// ErrSave matches a SaveError with errors.Is.
var ErrSave = errors.New("session: save")

// SaveError reports that a change was applied but could not be persisted.
// The change stands: the document holds it and its inverse is on the undo
// log. The next successful save persists it.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "session: save: " + e.Err.Error()
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}

// Options configure Open.
type Options struct {
	// Store persists the document. A nil Store keeps it in memory.
	Store store.Store
	// Name of the document in the store.
	Name string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// OnRender is called with the new projection after every change.
	OnRender func(*render.Tree)
}

// Session is an open document.
type Session struct {
	store    store.Store
	name     string
	log      *slog.Logger
	onRender func(*render.Tree)

	doc     *document.Document
	history *undo.Log
	saved   []byte

	busy     atomic.Bool
	printing atomic.Bool
}

// Open loads the named document once. A document that was never saved starts
// from the default; one that cannot be migrated is replaced by the default
// with a warning.
func Open(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{
		store:    opts.Store,
		name:     opts.Name,
		log:      opts.Logger,
		onRender: opts.OnRender,
		history:  undo.New(),
	}
	if s.name == "" {
		s.name = store.DefaultDocument
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("document", s.name)

	doc, raw, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.doc, s.saved = doc, raw
	s.emit()
	return s, nil
}

func (s *Session) load(ctx context.Context) (*document.Document, []byte, error) {
	if s.store == nil {
		return document.Default(), nil, nil
	}
	raw, err := s.store.Load(ctx, s.name)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Debug("starting from the default document")
		return document.Default(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("session: load: %w", err)
	}
	doc, ok := document.Load(raw)
	if !ok {
		s.log.Warn("stored document is malformed, using the default")
	}
	return doc, raw, nil
}

// Name returns the document name.
func (s *Session) Name() string {
	return s.name
}

// Document returns a copy of the current document.
func (s *Session) Document() *document.Document {
	return s.doc.Clone()
}

// Tree projects the current document. While an export runs the tree is in
// print mode, without hidden items.
func (s *Session) Tree() *render.Tree {
	t := render.Project(s.doc)
	if s.printing.Load() {
		return render.Visible(t)
	}
	return t
}

// History returns the pending inverse actions, oldest first.
func (s *Session) History() []edit.Action {
	return s.history.Actions()
}

// Busy reports whether an export is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

func (s *Session) emit() {
	if s.onRender != nil {
		s.onRender(s.Tree())
	}
}

func (s *Session) save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	raw, err := s.store.Save(ctx, s.name, s.doc)
	if raw != nil {
		s.saved = raw
	}
	if err != nil {
		s.log.Warn("change applied but not saved", "error", err)
		return &SaveError{Err: err}
	}
	return nil
}

// mutate runs one forward change, records its inverse and persists. A
// *SaveError means the change was applied.
func (s *Session) mutate(ctx context.Context, fn func(*document.Document) (edit.Action, error)) error {
	if s.busy.Load() {
		return ErrBusy
	}
	inverse, err := fn(s.doc)
	if err != nil {
		s.log.Debug("change declined", "error", err)
		return err
	}
	s.history.Push(inverse)
	s.log.Debug("applied change", "inverse", inverse.String(), "undo", s.history.Len())
	s.emit()
	return s.save(ctx)
}

// Undo reverts the most recent change. It returns the action that was
// applied, or undo.ErrEmpty.
func (s *Session) Undo(ctx context.Context) (edit.Action, error) {
	if s.busy.Load() {
		return edit.Action{}, ErrBusy
	}
	inverse, err := s.history.Pop()
	if err != nil {
		return edit.Action{}, err
	}
	if _, err := edit.Apply(s.doc, inverse); err != nil {
		// The log only holds inverses of changes that succeeded, so this is a
		// broken invariant rather than bad input.
		return edit.Action{}, fmt.Errorf("session: undo %s: %w", inverse, err)
	}
	s.log.Debug("undid change", "action", inverse.String(), "undo", s.history.Len())
	s.emit()
	return inverse, s.save(ctx)
}

// Reset replaces the document with the default and clears the undo log.
func (s *Session) Reset(ctx context.Context) error {
	if s.busy.Load() {
		return ErrBusy
	}
	s.doc = document.Default()
	s.history.Reset()
	s.log.Info("reset to the default document")
	s.emit()
	return s.save(ctx)
}

// Import replaces the document with one decoded from data. On any decoding
// error the document is left as it was. The replacement can be undone.
func (s *Session) Import(ctx context.Context, data []byte, f codec.Format) error {
	if s.busy.Load() {
		return ErrBusy
	}
	next, err := codec.Deserialize(data, f)
	if err != nil {
		s.log.Warn("import rejected", "format", f, "error", err)
		return err
	}
	return s.mutate(ctx, func(doc *document.Document) (edit.Action, error) {
		return edit.Replace(doc, next)
	})
}

// Sync reloads the document when the stored copy differs from what this
// session last wrote, e.g. after an edit from another process. The undo log
// is cleared because its actions describe the replaced document.
func (s *Session) Sync(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	if s.busy.Load() {
		return false, ErrBusy
	}
	raw, err := s.store.Load(ctx, s.name)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: sync: %w", err)
	}
	if bytes.Equal(raw, s.saved) {
		return false, nil
	}
	doc, err := document.Migrate(raw)
	if err != nil {
		s.log.Warn("ignoring malformed external change", "error", err)
		return false, err
	}
	s.doc, s.saved = doc, raw
	s.history.Reset()
	s.log.Info("reloaded after external change")
	s.emit()
	return true, nil
}
