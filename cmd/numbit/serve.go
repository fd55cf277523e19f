package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/server"
	"github.com/example/numbit/internal/store"
)

type serveCmd struct {
	*root
	fs      *flag.FlagSet
	addr    string
	persist bool
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.addr, "addr", r.config.Server.Addr, "listen address")
	fs.BoolVar(&s.persist, "persist", false, "store every session under <key>-<session id>")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

// factory builds sessions from the configured defaults. With a store each
// session is saved under its own key.
func (s *serveCmd) factory(ctx context.Context, st store.Store) (server.Factory, error) {
	opts, err := s.editorOptions()
	if err != nil {
		return nil, err
	}
	log := s.logger()
	return func(id string) *editor.Editor {
		if st != nil {
			e, err := s.openEditor(ctx, st, s.storeKey+"-"+id)
			if err == nil {
				return e
			}
			log.WithError(err).WithField("session", id).Warn("session will not be saved")
		}
		sessionOpts := append([]editor.Option{}, opts...)
		return editor.New(append(sessionOpts, editor.WithLogger(log.WithField("session", id)))...)
	}, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if s.persist {
		opened, closeStore, err := s.openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()
		st = opened
	}
	factory, err := s.factory(ctx, st)
	if err != nil {
		return err
	}
	srv := server.New(factory,
		server.WithLogger(s.logger().WithField("component", "server")),
		server.WithExportOptions(export.Options{
			Scale:     s.config.Export.Scale,
			GridLines: s.config.Export.GridLines,
		}),
	)
	return srv.Run(ctx, s.addr)
}
