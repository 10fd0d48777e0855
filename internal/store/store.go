// Package store persists the load catalogue and the run history behind a
// driver-neutral interface with SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/freightlink/match-cli/internal/model"
)

// LoadFilter specifies criteria for listing catalogue loads.
type LoadFilter struct {
	Status       model.LoadStatus `json:"status,omitempty"`
	FromLocation string           `json:"from_location,omitempty"`
	ToLocation   string           `json:"to_location,omitempty"`
	TruckType    string           `json:"truck_type,omitempty"`
	Limit        int              `json:"limit,omitempty"`
	Offset       int              `json:"offset,omitempty"`
}

// RunFilter specifies criteria for listing processing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	TranscriptID string          `json:"transcript_id,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines persistence for the matching pipeline.
type Store interface {
	// Loads
	SaveLoad(ctx context.Context, load *model.Load) error
	SaveLoads(ctx context.Context, loads []*model.Load) (int, error)
	GetLoad(ctx context.Context, id string) (*model.Load, error)
	ListLoads(ctx context.Context, filter LoadFilter) ([]model.Load, error)
	AssignLoad(ctx context.Context, id, assignee string) error

	// Runs
	CreateRun(ctx context.Context, transcript model.Transcript) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool the Postgres store uses, kept as an
// interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}
