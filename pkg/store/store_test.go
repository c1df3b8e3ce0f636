package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"tableflip.dev/resume/pkg/document"
)

func openTemp(t *testing.T) Store {
	t.Helper()
	s, err := Open(NewConfig(t.TempDir(), ""))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	want := document.Default()
	want.Header.Name = "Jo"
	written, err := s.Save(ctx, "jo/backend", want)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := s.Load(ctx, "jo/backend")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(written) != string(raw) {
		t.Fatalf("save returned %q, load returned %q", written, raw)
	}
	got, err := document.Migrate(raw)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Load(context.Background(), "  "); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestListDocumentsDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	for _, name := range []string{"zeta", "alpha", "mid dle"} {
		if _, err := s.Save(ctx, name, document.Default()); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	if diff := cmp.Diff([]string{"alpha", "mid dle", "zeta"}, s.List(ctx)); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}

	metas := s.Documents(ctx)
	if len(metas) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(metas))
	}
	for _, m := range metas {
		if m.Updated.IsZero() || m.Size == 0 {
			t.Fatalf("missing metadata for %q: %+v", m.Name, m)
		}
	}

	if err := s.Delete(ctx, "mid dle"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "zeta"}, s.List(ctx)); diff != "" {
		t.Fatalf("unexpected list after delete (-want +got):\n%s", diff)
	}
	if got := len(s.Documents(ctx)); got != 2 {
		t.Fatalf("expected 2 documents after delete, got %d", got)
	}
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfgFile := "path: " + filepath.Join(dir, "data") + "\ndocument: cv\n"
	if err := os.WriteFile(filepath.Join(dir, ".resume.yaml"), []byte(cfgFile), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RESUME_CONFIG_PATH", dir)
	t.Setenv("RESUME_LISTEN", "127.0.0.1:9999")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "data") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.Document() != "cv" {
		t.Fatalf("unexpected document %q", cfg.Document())
	}
	if cfg.Listen() != "127.0.0.1:9999" {
		t.Fatalf("unexpected listen address %q", cfg.Listen())
	}
	if !cfg.Metrics() {
		t.Fatal("metrics should default to on")
	}
}
