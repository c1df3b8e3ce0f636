package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/store"
)

func TestInfoListsDocuments(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	cfg := store.NewConfig(t.TempDir(), "cv")
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := st.Save(ctx, "cv", document.Default()); err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	i := &Info{Config: cfg, Store: st, Out: &buf}
	if err := i.Do(ctx); err != nil {
		t.Fatalf("do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Config.path: " + cfg.BasePath(), "Config.document: cv", "* ", "cv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoRequiresStore(t *testing.T) {
	i := &Info{Config: store.NewConfig(t.TempDir(), ""), Out: &bytes.Buffer{}}
	if err := i.Do(context.Background()); err == nil {
		t.Fatalf("expected error without a store")
	}
}
