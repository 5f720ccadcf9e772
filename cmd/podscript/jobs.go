package main

import (
	"context"
	"fmt"

	"github.com/phrazzld/podscript/internal/platform/postgres"
	"github.com/phrazzld/podscript/internal/task"
)

// openJobStore returns the PostgreSQL store when jobs.database_url is set and
// an in-memory store otherwise. The returned func releases the store.
func (app *application) openJobStore(ctx context.Context) (task.JobStore, func(), error) {
	url := app.config.Jobs.DatabaseURL
	if url == "" {
		app.logger.Info("Keeping job records in memory")
		return task.NewMemoryJobStore(), func() {}, nil
	}

	log := app.logger.With("component", "database")
	db, err := postgres.Open(ctx, url, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}

	if err := postgres.Migrate(ctx, db, log); err != nil {
		closeDB()
		return nil, nil, err
	}

	store := postgres.NewJobStore(db)
	if _, err := store.FailInterrupted(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to recover job records: %w", err)
	}
	return store, closeDB, nil
}
