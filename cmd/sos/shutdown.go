package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// run serves requests until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, app *application) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.server.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			app.config.Server.ShutdownTimeout.Duration())
		defer cancel()

		err := app.server.Stop(shutdownCtx)
		err = errors.Join(err, app.shutdown(shutdownCtx))
		if err == nil {
			app.logger.Info("sos stopped")
		}
		return err
	})

	return g.Wait()
}
