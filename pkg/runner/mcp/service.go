// Package mcp provides the Model Context Protocol server integration for resume.
package mcp

import (
	"context"
	"errors"
	"sync"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/edit"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/session"
)

// ErrNoSession is returned when the service has no session to work on.
var ErrNoSession = errors.New("mcp: session is not configured")

// Service serializes tool calls onto one session.
type Service struct {
	mu      sync.Mutex
	Session *session.Session
}

// DocumentDTO is the state returned by every tool that reads or changes the
// document.
type DocumentDTO struct {
	Name     string             `json:"name"`
	Document *document.Document `json:"document"`
	Outline  []render.Line      `json:"outline"`
	Undo     int                `json:"undo"`
	// Warning is set when the change was applied but not saved.
	Warning string `json:"warning,omitempty"`
}

// UndoDTO reports what an undo reverted.
type UndoDTO struct {
	Reverted string `json:"reverted"`
	DocumentDTO
}

// NewService builds a service around s.
func NewService(s *session.Session) *Service {
	return &Service{Session: s}
}

func (s *Service) state() DocumentDTO {
	return DocumentDTO{
		Name:     s.Session.Name(),
		Document: s.Session.Document(),
		Outline:  render.Outline(s.Session.Tree()),
		Undo:     len(s.Session.History()),
	}
}

// changed reports the state after a change. A failed save keeps the change,
// so it becomes a warning instead of a tool error.
func (s *Service) changed(err error) (DocumentDTO, error) {
	if err != nil && !errors.Is(err, session.ErrSave) {
		return DocumentDTO{}, err
	}
	dto := s.state()
	if err != nil {
		dto.Warning = err.Error()
	}
	return dto, nil
}

// Document returns the current document with its outline.
func (s *Service) Document(ctx context.Context) (DocumentDTO, error) {
	if s.Session == nil {
		return DocumentDTO{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

// Apply dispatches one command.
func (s *Service) Apply(ctx context.Context, c session.Command) (DocumentDTO, error) {
	if s.Session == nil {
		return DocumentDTO{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed(s.Session.Dispatch(ctx, c))
}

// Undo reverts the most recent change.
func (s *Service) Undo(ctx context.Context) (UndoDTO, error) {
	if s.Session == nil {
		return UndoDTO{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.Session.Undo(ctx)
	dto, err := s.changed(err)
	if err != nil {
		return UndoDTO{}, err
	}
	return UndoDTO{Reverted: a.String(), DocumentDTO: dto}, nil
}

// History returns the pending inverse actions, oldest first.
func (s *Service) History(ctx context.Context) ([]edit.Action, error) {
	if s.Session == nil {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.Session.History()
	if h == nil {
		h = []edit.Action{}
	}
	return h, nil
}

// Import replaces the document with one decoded from data.
func (s *Service) Import(ctx context.Context, data string, f codec.Format) (DocumentDTO, error) {
	if s.Session == nil {
		return DocumentDTO{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed(s.Session.Import(ctx, []byte(data), f))
}

// Export encodes the document.
func (s *Service) Export(ctx context.Context, f codec.Format) (string, error) {
	if s.Session == nil {
		return "", ErrNoSession
	}
	s.mu.Lock()
	doc := s.Session.Document()
	s.mu.Unlock()
	out, err := codec.Serialize(doc, f)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
