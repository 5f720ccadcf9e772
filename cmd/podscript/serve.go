package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/phrazzld/podscript/internal/api"
	"github.com/phrazzld/podscript/internal/task"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests and queued jobs may finish.
const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the script generation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != 0 {
				root.cfg.Server.Port = port
			}

			app, err := newApplication(cmd.Context(), root.cfg, root.logger)
			if err != nil {
				return err
			}

			store, release, err := app.openJobStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			ln, err := net.Listen("tcp", fmt.Sprintf(":%d", root.cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}
			return app.serve(cmd.Context(), ln, store)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: server.port)")
	return cmd
}

// serve runs the API on ln until ctx is cancelled, then shuts the server and
// the job runner down gracefully.
func (app *application) serve(ctx context.Context, ln net.Listener, store task.JobStore) error {
	runner := task.NewTaskRunner(
		store,
		task.RunnerConfig(app.config.Jobs),
		app.logger.With("component", "task_runner"),
	)
	runner.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Warn("job failed", "job_id", t.ID(), "type", t.Type(), "error", err)
	})
	runner.Start()

	renderers := func(speechModel string) api.AudioRenderer {
		return app.renderer(speechModel)
	}
	scripts := api.NewScriptHandler(app.scripts, renderers, app.logger)
	jobs := api.NewJobHandler(app.scripts, runner, app.logger)

	server := &http.Server{
		Handler:           api.NewRouter(scripts, jobs, app.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	go func() {
		app.logger.Info("Starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	app.logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	if err := runner.Stop(shutdownCtx); err != nil {
		app.logger.Error("Job runner shutdown failed", "error", err)
		errs = append(errs, fmt.Errorf("job runner shutdown failed: %w", err))
	}

	app.logger.Info("Server shutdown completed")
	return errors.Join(errs...)
}
