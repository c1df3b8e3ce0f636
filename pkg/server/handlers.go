package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/edit"
	"tableflip.dev/resume/pkg/render"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/undo"
)

const maxImportSize = 1 << 20

// state is the response body of every API call that reads or changes the
// document.
type state struct {
	Document *document.Document `json:"document"`
	Undo     int                `json:"undo"`
	Busy     bool               `json:"busy"`
	// Warning is set when the change was applied but not saved.
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.page(w, render.HTMLOptions{})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	s.page(w, render.HTMLOptions{Print: true})
}

func (s *Server) page(w http.ResponseWriter, opts render.HTMLOptions) {
	s.mu.Lock()
	tree := s.session.Tree()
	title := s.session.Document().Header.Name
	s.mu.Unlock()

	out, err := render.Page(tree, title, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, out)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	history := s.session.History()
	s.mu.Unlock()
	if history == nil {
		history = []edit.Action{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var c session.Command
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		jsonError(w, "invalid command: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.session.Dispatch(r.Context(), c)
	s.metrics.observe(strings.ToLower(c.Op), err)
	s.changed(w, err)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.session.Undo(r.Context())
	s.metrics.observe(session.CmdUndo, err)
	s.changed(w, err)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	f, err := codec.ParseFormat(formatParam(r, "json"))
	if err != nil {
		s.fail(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		jsonError(w, "read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.session.Import(r.Context(), data, f)
	s.metrics.observe("import", err)
	s.changed(w, err)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := formatParam(r, "json")
	start := time.Now()
	defer func() {
		s.metrics.exports.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	switch format {
	case "pdf":
		s.exportPDF(w, r)
		return
	case "html":
		s.mu.Lock()
		tree := s.session.Tree()
		title := s.session.Document().Header.Name
		s.mu.Unlock()
		out, err := render.Page(tree, title, render.HTMLOptions{Print: true})
		if err != nil {
			s.fail(w, err)
			return
		}
		download(w, "text/html; charset=utf-8", s.session.Name()+".html", []byte(out))
		return
	}

	f, err := codec.ParseFormat(format)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.mu.Lock()
	doc := s.session.Document()
	s.mu.Unlock()
	out, err := codec.Serialize(doc, f)
	if err != nil {
		s.fail(w, err)
		return
	}
	download(w, contentTypes[f], s.session.Name()+extensions[f], out)
}

// exportPDF starts the export under the lock and waits for it without the
// lock, so concurrent changes see the session busy.
func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	s.mu.Lock()
	done := s.session.Export(r.Context(), s.printer, &buf)
	s.mu.Unlock()

	err := <-done
	s.metrics.observe("export", err)
	if err != nil {
		s.fail(w, err)
		return
	}
	download(w, "application/pdf", s.session.Name()+".pdf", buf.Bytes())
}

var contentTypes = map[codec.Format]string{
	codec.FormatJSON:     "application/json",
	codec.FormatYAML:     "application/yaml",
	codec.FormatMarkdown: "text/markdown; charset=utf-8",
}

var extensions = map[codec.Format]string{
	codec.FormatJSON:     ".json",
	codec.FormatYAML:     ".yaml",
	codec.FormatMarkdown: ".md",
}

func formatParam(r *http.Request, def string) string {
	if f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))); f != "" {
		return f
	}
	return def
}

func download(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(body)
}

func (s *Server) writeState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) state() state {
	return state{
		Document: s.session.Document(),
		Undo:     len(s.session.History()),
		Busy:     s.session.Busy(),
	}
}

// changed answers a request that changed the document. A failed save leaves
// the change applied, so it is reported as a warning on the new state.
func (s *Server) changed(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		s.writeState(w)
	case errors.Is(err, session.ErrSave):
		s.log.Warn("change not saved", "error", err)
		st := s.state()
		st.Warning = err.Error()
		writeJSON(w, http.StatusOK, st)
	default:
		s.fail(w, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	jsonError(w, err.Error(), code)
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, document.ErrIndex), errors.Is(err, codec.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, undo.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, session.ErrBusy):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
