package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/store"
	"tableflip.dev/resume/pkg/undo"
)

type readOnlyStore struct {
	store.Store
}

func (readOnlyStore) Save(context.Context, string, *document.Document) ([]byte, error) {
	return nil, errors.New("read-only file system")
}

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := session.Open(context.Background(), session.Options{Name: "cv"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return NewService(s)
}

func strPtr(s string) *string { return &s }

func TestServiceDocumentOutline(t *testing.T) {
	svc := newService(t)
	dto, err := svc.Document(context.Background())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if dto.Name != "cv" {
		t.Fatalf("name = %q", dto.Name)
	}
	if dto.Undo != 0 {
		t.Fatalf("undo = %d, want 0", dto.Undo)
	}
	var found bool
	for _, l := range dto.Outline {
		if l.Kind == "bullet" && l.Path == "0/0/1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("outline has no bullet 0/0/1: %+v", dto.Outline)
	}
}

func TestServiceApplyAndUndo(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	dto, err := svc.Apply(ctx, session.Command{Op: session.CmdAddSection, Title: "Education"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(dto.Document.Sections); got != 2 {
		t.Fatalf("sections = %d, want 2", got)
	}
	if dto.Undo != 1 {
		t.Fatalf("undo = %d, want 1", dto.Undo)
	}

	u, err := svc.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := len(u.Document.Sections); got != 1 {
		t.Fatalf("sections after undo = %d, want 1", got)
	}
	if u.Reverted == "" {
		t.Fatalf("reverted action is empty")
	}

	if _, err := svc.Undo(ctx); !errors.Is(err, undo.ErrEmpty) {
		t.Fatalf("second undo err = %v, want ErrEmpty", err)
	}
}

func TestServiceApplyRejectsBadPath(t *testing.T) {
	svc := newService(t)
	_, err := svc.Apply(context.Background(), session.Command{
		Op:   session.CmdEditBullet,
		Path: document.Path{Section: 0, Entry: 0, Bullet: 9},
		Text: "x",
	})
	if !errors.Is(err, document.ErrIndex) {
		t.Fatalf("err = %v, want ErrIndex", err)
	}
	dto, _ := svc.Document(context.Background())
	if dto.Undo != 0 {
		t.Fatalf("failed command was recorded: undo = %d", dto.Undo)
	}
}

func TestServiceEditHeaderKeepsContact(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	if _, err := svc.Apply(ctx, session.Command{Op: session.CmdEditHeader, Name: "Ada", Contact: strPtr("ada@example.com")}); err != nil {
		t.Fatalf("edit header: %v", err)
	}
	dto, err := svc.Apply(ctx, session.Command{Op: session.CmdEditHeader, Name: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("edit header: %v", err)
	}
	if dto.Document.Header.Contact != "ada@example.com" {
		t.Fatalf("contact = %q", dto.Document.Header.Contact)
	}
}

func TestServiceExportAndImport(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	md, err := svc.Export(ctx, codec.FormatMarkdown)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(md, "# Your Name") {
		t.Fatalf("markdown missing name:\n%s", md)
	}

	in := "# Grace Hopper\n\n## Navy\n\n### Rear Admiral | 1983\n\n- Wrote COBOL\n"
	dto, err := svc.Import(ctx, in, codec.FormatMarkdown)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if dto.Document.Header.Name != "Grace Hopper" {
		t.Fatalf("name = %q", dto.Document.Header.Name)
	}
	if dto.Undo != 1 {
		t.Fatalf("import is not undoable: undo = %d", dto.Undo)
	}

	if _, err := svc.Import(ctx, "{", codec.FormatJSON); !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("bad import err = %v, want ErrFormat", err)
	}
	dto, _ = svc.Document(ctx)
	if dto.Document.Header.Name != "Grace Hopper" {
		t.Fatalf("failed import changed the document")
	}
}

func TestServiceHistory(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	h, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if h == nil || len(h) != 0 {
		t.Fatalf("history = %#v, want empty slice", h)
	}
	if _, err := svc.Apply(ctx, session.Command{Op: session.CmdSet, Key: "density", Value: "compact"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	h, _ = svc.History(ctx)
	if len(h) != 1 {
		t.Fatalf("history len = %d, want 1", len(h))
	}
}

func TestServiceReportsUnsavedChange(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(store.NewConfig(t.TempDir(), "cv"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	sess, err := session.Open(ctx, session.Options{Store: readOnlyStore{st}, Name: "cv"})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	svc := NewService(sess)

	dto, err := svc.Apply(ctx, session.Command{Op: "add-section", Title: "Awards"})
	if err != nil {
		t.Fatalf("apply should keep the change, got %v", err)
	}
	if dto.Warning != "session: save: read-only file system" {
		t.Fatalf("warning = %q", dto.Warning)
	}
	if dto.Undo != 1 || dto.Document.Sections[len(dto.Document.Sections)-1].Title != "Awards" {
		t.Fatalf("change missing from state: undo=%d", dto.Undo)
	}

	u, err := svc.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if u.Warning == "" || u.Undo != 0 || u.Reverted == "" {
		t.Fatalf("unexpected undo result: %+v", u)
	}

	if _, err := svc.Apply(ctx, session.Command{Op: "add-section", Title: " "}); !errors.Is(err, document.ErrValidation) {
		t.Fatalf("declined change must stay an error, got %v", err)
	}
}

func TestServiceWithoutSession(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Document(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestParseTransport(t *testing.T) {
	for raw, want := range map[string]Transport{"": TransportStdio, "stdio": TransportStdio, "HTTP": TransportHTTP} {
		got, err := ParseTransport(raw)
		if err != nil || got != want {
			t.Fatalf("ParseTransport(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseTransport("carrier-pigeon"); err == nil {
		t.Fatalf("expected error")
	}
}
