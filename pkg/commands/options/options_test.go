package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/undo"
)

func TestExportResolve(t *testing.T) {
	tests := []struct {
		opts ExportOptions
		want string
	}{
		{ExportOptions{}, "json"},
		{ExportOptions{Output: "cv.pdf"}, FormatPDF},
		{ExportOptions{Output: "cv.HTML"}, FormatHTML},
		{ExportOptions{Output: "cv.yml"}, "yaml"},
		{ExportOptions{Output: "cv"}, "json"},
		{ExportOptions{Format: "md", Output: "cv.pdf"}, "markdown"},
	}
	for _, tt := range tests {
		got, err := tt.opts.Resolve()
		if err != nil {
			t.Fatalf("Resolve(%+v): %v", tt.opts, err)
		}
		if got != tt.want {
			t.Fatalf("Resolve(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
	if _, err := (&ExportOptions{Format: "docx"}).Resolve(); err == nil {
		t.Fatalf("expected error for docx")
	}
}

func TestImportResolve(t *testing.T) {
	o := &ImportOptions{}
	if f, err := o.Resolve("-"); err != nil || f != codec.FormatJSON {
		t.Fatalf("stdin = %q, %v", f, err)
	}
	if f, err := o.Resolve("cv.md"); err != nil || f != codec.FormatMarkdown {
		t.Fatalf("cv.md = %q, %v", f, err)
	}
	if _, err := o.Resolve("cv"); !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("no extension err = %v", err)
	}
}

func TestEntryLayout(t *testing.T) {
	if l, err := (&EntryOptions{}).Layout(); err != nil || l != nil {
		t.Fatalf("default layout = %v, %v", l, err)
	}
	if l, _ := (&EntryOptions{Stacked: true}).Layout(); l == nil || !*l {
		t.Fatalf("stacked layout = %v", l)
	}
	if _, err := (&EntryOptions{Stacked: true, Inline: true}).Layout(); err == nil {
		t.Fatalf("expected error for both layouts")
	}
}

func TestLogLevel(t *testing.T) {
	if got := (&LogOptions{}).Level(); got != slog.LevelWarn {
		t.Fatalf("default level = %v", got)
	}
	if got := (&LogOptions{Verbose: true, Quiet: true}).Level(); got != slog.LevelDebug {
		t.Fatalf("verbose level = %v", got)
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	o := &OutputOptions{JSON: true, Out: &buf}
	err := fmt.Errorf("wrapped: %w", undo.ErrEmpty)
	if got := o.HandleError(err); got != nil {
		t.Fatalf("HandleError returned %v with --json", got)
	}
	if want := `{"error":"wrapped: undo: nothing to undo","kind":"empty"}`; strings.TrimSpace(buf.String()) != want {
		t.Fatalf("got %s, want %s", buf.String(), want)
	}

	o.JSON = false
	if got := o.HandleError(err); got != err {
		t.Fatalf("HandleError = %v, want passthrough", got)
	}
	if got := Kind(&document.IndexError{Kind: document.KindBullet}); got != "index" {
		t.Fatalf("kind = %q", got)
	}
	if got := Kind(&session.SaveError{Err: io.ErrShortWrite}); got != "save" {
		t.Fatalf("kind = %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("one two   three four", 9)
	if got != "one two\nthree\nfour" {
		t.Fatalf("Wrap = %q", got)
	}
}
