package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/printer"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/store"
	"tableflip.dev/resume/pkg/undo"
)

// readOnlyStore loads from a real store and refuses every save.
type readOnlyStore struct {
	store.Store
}

func (readOnlyStore) Save(context.Context, string, *document.Document) ([]byte, error) {
	return nil, errors.New("read-only file system")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess, err := session.Open(context.Background(), session.Options{Name: "cv"})
	require.NoError(t, err)
	return New(sess, Options{Metrics: true})
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func command(t *testing.T, s *Server, c session.Command) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	return do(t, s, http.MethodPost, "/api/commands", bytes.NewReader(raw))
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) state {
	t.Helper()
	var st state
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	return st
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCommandsAndUndo(t *testing.T) {
	s := newTestServer(t)

	rec := command(t, s, session.Command{Op: "add-section", Title: "Projects"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decodeState(t, rec)
	require.Len(t, st.Document.Sections, 2)
	assert.Equal(t, "Projects", st.Document.Sections[1].Title)
	assert.Equal(t, 1, st.Undo)

	rec = do(t, s, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"op":"remove-last"`)

	rec = do(t, s, http.MethodPost, "/api/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st = decodeState(t, rec)
	assert.Len(t, st.Document.Sections, 1)
	assert.Zero(t, st.Undo)

	rec = do(t, s, http.MethodGet, "/api/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, document.Default(), decodeState(t, rec).Document)
}

func TestErrorStatus(t *testing.T) {
	s := newTestServer(t)

	rec := command(t, s, session.Command{Op: "add-section", Title: " "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = command(t, s, session.Command{Op: "delete", Kind: "section", Path: document.Path{Section: 4}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/undo", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/commands", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestUnsavedChangeIsWarning(t *testing.T) {
	st, err := store.Open(store.NewConfig(t.TempDir(), "cv"))
	require.NoError(t, err)
	sess, err := session.Open(context.Background(), session.Options{Store: readOnlyStore{st}, Name: "cv"})
	require.NoError(t, err)
	s := New(sess, Options{Metrics: true})

	rec := command(t, s, session.Command{Op: "add-section", Title: "Awards"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeState(t, rec)
	assert.Equal(t, "session: save: read-only file system", got.Warning)
	require.Len(t, got.Document.Sections, 2)
	assert.Equal(t, "Awards", got.Document.Sections[1].Title)
	assert.Equal(t, 1, got.Undo)

	rec = do(t, s, http.MethodPost, "/api/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeState(t, rec)
	assert.NotEmpty(t, got.Warning)
	assert.Zero(t, got.Undo)

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="save"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&document.ValidationError{Field: "title"}, http.StatusUnprocessableEntity},
		{&document.IndexError{Kind: document.KindSection, Index: 3}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", codec.ErrFormat), http.StatusBadRequest},
		{undo.ErrEmpty, http.StatusConflict},
		{session.ErrBusy, http.StatusLocked},
		{&printer.ExportError{Op: "print", Err: io.ErrShortWrite}, http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestImport(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/import", strings.NewReader("{}"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/document", nil)
	assert.Equal(t, document.Default(), decodeState(t, rec).Document)

	md := "# Jo\n\nBerlin\n\n## Skills\n\n### Go\n\n- generics\n"
	rec = do(t, s, http.MethodPost, "/api/import?format=md", strings.NewReader(md))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decodeState(t, rec)
	assert.Equal(t, "Jo", st.Document.Header.Name)
	assert.Equal(t, 1, st.Undo)

	rec = do(t, s, http.MethodPost, "/api/import?format=toml", strings.NewReader(md))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, command(t, s, session.Command{
		Op: "toggle", Kind: "bullet", Path: document.Path{Bullet: 1},
	}).Code)

	rec := do(t, s, http.MethodGet, "/api/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "name: Your Name")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="cv.yaml"`)

	rec = do(t, s, http.MethodGet, "/api/export?format=markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "## Experience")
	assert.NotContains(t, rec.Body.String(), "Cut build times")

	rec = do(t, s, http.MethodGet, "/api/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(t, s, http.MethodGet, "/api/export?format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Cut build times")

	rec = do(t, s, http.MethodGet, "/api/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, command(t, s, session.Command{
		Op: "toggle", Kind: "bullet", Path: document.Path{Bullet: 1},
	}).Code)

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>frontend overhaul</strong>")
	assert.Contains(t, rec.Body.String(), "is-hidden")

	rec = do(t, s, http.MethodGet, "/print", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Cut build times")
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	command(t, s, session.Command{Op: "add-section", Title: "Projects"})
	command(t, s, session.Command{Op: "add-section"})

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `resume_commands_total{op="add-section",result="ok"} 1`)
	assert.Contains(t, body, `resume_commands_total{op="add-section",result="validation"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	sess, err := session.Open(context.Background(), session.Options{})
	require.NoError(t, err)
	rec := do(t, New(sess, Options{}), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
