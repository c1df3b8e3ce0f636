package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/printers"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/store"
)

// env is what every command that touches a document needs.
type env struct {
	cfg   store.Config
	store store.Store
	log   *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	log := lo.Logger(os.Stderr)
	slog.SetDefault(log)
	return &env{cfg: cfg, store: st, log: log}, nil
}

func (e *env) open(ctx context.Context) (*session.Session, error) {
	return session.Open(ctx, session.Options{
		Store:  e.store,
		Name:   do.Resolve(e.cfg),
		Logger: e.log,
	})
}

func openSession(ctx context.Context) (*session.Session, *env, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	s, err := e.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, e, nil
}

// dispatch opens the document, runs c and reports the result.
func dispatch(cmd *cobra.Command, c session.Command, done string) error {
	ctx := cmd.Context()
	s, _, err := openSession(ctx)
	if err != nil {
		return oo.HandleError(err)
	}
	if err := s.Dispatch(ctx, c); err != nil {
		return oo.HandleError(err)
	}
	if oo.JSON {
		return oo.Print(s.Document())
	}
	pp := printers.PrettyPrint{Out: cmd.OutOrStdout()}
	pp.Done("%s", done)
	return nil
}
