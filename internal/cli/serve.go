package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cubicleview/pkg/server"
	"github.com/matzehuels/cubicleview/pkg/session"
	"github.com/matzehuels/cubicleview/pkg/watch"
)

type serveOpts struct {
	addr    string
	watch   bool
	ttl     time.Duration
	noCache bool
}

// serveCommand serves viewing sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file.dot]",
		Short: "Serve viewing sessions over HTTP",
		Long: `Serve starts the HTTP viewer. Clients create sessions by uploading DOT
text to /api/sessions.

Given a file, serve also opens a session for it and prints its URL. With
--watch that session reloads whenever the file changes, so a running
Cubicle search can be followed live.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the file's session when it changes")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", session.DefaultTTL, "close sessions idle for this long")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, opts serveOpts) error {
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sessions := session.NewManager(opts.ttl)
	srv := server.New(runner, sessions, c.Config.View, c.Logger)

	if len(args) == 1 {
		if err := c.openSession(ctx, sessions, runner, args, addr, opts.watch); err != nil {
			return err
		}
	}
	return srv.ListenAndServe(ctx, addr)
}

// openSession loads the file given on the command line into a new session,
// and keeps it in sync with the file when watching.
func (c *CLI) openSession(ctx context.Context, sessions *session.Manager, runner session.Runner, args []string, addr string, follow bool) error {
	path, data, err := readGraph(args)
	if err != nil {
		return err
	}
	sess := session.New(runner, session.Config{View: c.Config.View, Logger: c.Logger})
	sessions.Add(sess)
	if err := sess.Load(ctx, path, data); err != nil {
		sessions.Delete(sess.ID())
		return err
	}
	printSuccess("Opened %s", path)
	printKeyValue("session", sess.ID())
	printNextStep("Snapshot", "curl http://"+addr+"/api/sessions/"+sess.ID())

	if !follow {
		return nil
	}
	w, err := watch.New(path, watch.NewDebouncer(c.Config.Watch.Debounce), c.Logger)
	if err != nil {
		return err
	}
	go func() {
		_ = w.Run(ctx, func(data []byte) {
			if err := sess.Load(ctx, path, data); err != nil {
				c.Logger.Warn("reload failed", "path", path, "error", err)
				return
			}
			c.Logger.Info("reloaded", "path", path)
		})
	}()
	printInfo("Watching %s", w.Path())
	return nil
}
