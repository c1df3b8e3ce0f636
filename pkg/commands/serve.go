package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/resume/pkg/server"
)

func addServe(topLevel *cobra.Command) {
	var (
		listen string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live HTML preview and a JSON editing API.",
		Example: `
resume serve
resume serve --listen :9000 --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, e, err := openSession(ctx)
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = e.cfg.Listen()
			}

			srv := server.New(s, server.Options{
				Logger:  e.log,
				Metrics: e.cfg.Metrics(),
			})

			if watch {
				events, err := e.store.Watch(ctx)
				if err != nil {
					return err
				}
				go srv.Follow(ctx, events)
			}

			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on, defaults to the configured one.")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the document when it changes on disk.")

	topLevel.AddCommand(cmd)
}
