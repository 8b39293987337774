//go:build integration

// Package testdb starts a throwaway Postgres with the schema applied.
package testdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type DBHandle struct {
	Pool   *pgxpool.Pool
	URL    string
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start runs postgres:16-alpine and applies ./migrations from the module root.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("credits"),
		postgres.WithUsername("credits"),
		postgres.WithPassword("credits"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	fail := func(err error) (*DBHandle, error) {
		_ = pg.Terminate(context.Background())
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root, err := repoRoot()
	if err != nil {
		return fail(err)
	}
	if err := database.RunMigrations(uri, "file://"+filepath.Join(root, "migrations"), logger); err != nil {
		return fail(err)
	}

	pool, err := database.NewPgxPool(ctx, uri, logger)
	if err != nil {
		return fail(err)
	}

	return &DBHandle{
		Pool:   pool,
		URL:    uri,
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}

// Truncate empties every table between tests.
func (h *DBHandle) Truncate(ctx context.Context) error {
	_, err := h.Pool.Exec(ctx, `TRUNCATE academic_ledger_entries, credit_requests, students`)
	return err
}

func repoRoot() (string, error) {
	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found from %s", wd)
}
