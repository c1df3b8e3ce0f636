// Package info reports where resume keeps its configuration and documents.
package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"tableflip.dev/resume/pkg/printers"
	"tableflip.dev/resume/pkg/store"
)

// Info prints the resolved configuration and the stored documents.
type Info struct {
	Config store.Config
	Store  store.Store
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("RESUME_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "RESUME_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "RESUME_CONFIG_PATH env var not set")
	}
	if used := viper.ConfigFileUsed(); used != "" {
		_, _ = fmt.Fprintln(out, "Config file:", used)
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.document:", n.Config.Document())
	_, _ = fmt.Fprintln(out, "Config.listen:", n.Config.Listen())

	if n.Store == nil {
		return errors.New("info: no store")
	}

	_, _ = fmt.Fprintln(out, "Documents:")
	pp := printers.PrettyPrint{Out: out}
	pp.Documents(n.Store.Documents(ctx), n.Config.Document())
	return nil
}
