package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/freightlink/match-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_load":          `SELECT id, booking_office, posted_at, from_location, to_location, truck_type, truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to FROM loads WHERE id = $1`,
	"insert_run":        `INSERT INTO runs (id, transcript_id, transcript, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"update_run_status": `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"update_run_result": `UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_run":           `SELECT id, transcript_id, transcript, status, result, created_at, updated_at FROM runs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS loads (
	id             TEXT PRIMARY KEY,
	booking_office TEXT NOT NULL DEFAULT '',
	posted_at      TIMESTAMPTZ,
	from_location  TEXT NOT NULL,
	to_location    TEXT NOT NULL,
	truck_type     TEXT NOT NULL DEFAULT '',
	truck_length   TEXT NOT NULL DEFAULT '',
	tonnage        TEXT NOT NULL DEFAULT '',
	product        TEXT NOT NULL DEFAULT '',
	price          DOUBLE PRECISION,
	num_trucks     INTEGER NOT NULL DEFAULT 1,
	eta            TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'available',
	assigned_to    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	transcript_id TEXT NOT NULL,
	transcript    JSONB NOT NULL,
	status        TEXT NOT NULL DEFAULT 'queued',
	result        JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_loads_status ON loads(status);
CREATE INDEX IF NOT EXISTS idx_loads_from ON loads(from_location);
CREATE INDEX IF NOT EXISTS idx_loads_to ON loads(to_location);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_transcript ON runs(transcript_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveLoad(ctx context.Context, load *model.Load) error {
	if load.ID == "" {
		load.ID = uuid.New().String()
	}
	if load.Status == "" {
		load.Status = model.LoadStatusAvailable
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO loads (id, booking_office, posted_at, from_location, to_location,
			truck_type, truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
			booking_office = EXCLUDED.booking_office,
			posted_at      = EXCLUDED.posted_at,
			from_location  = EXCLUDED.from_location,
			to_location    = EXCLUDED.to_location,
			truck_type     = EXCLUDED.truck_type,
			truck_length   = EXCLUDED.truck_length,
			tonnage        = EXCLUDED.tonnage,
			product        = EXCLUDED.product,
			price          = EXCLUDED.price,
			num_trucks     = EXCLUDED.num_trucks,
			eta            = EXCLUDED.eta,
			status         = EXCLUDED.status,
			assigned_to    = EXCLUDED.assigned_to`,
		load.ID, load.BookingOffice, load.PostedAt, load.FromLocation, load.ToLocation,
		load.TruckType, load.TruckLength, load.Tonnage, load.Product, load.Price,
		load.NumTrucks, load.ETA, string(load.Status), load.AssignedTo,
	)
	return eris.Wrapf(err, "postgres: save load %s", load.ID)
}

func (s *PostgresStore) SaveLoads(ctx context.Context, loads []*model.Load) (int, error) {
	saved := 0
	for _, l := range loads {
		if err := s.SaveLoad(ctx, l); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func (s *PostgresStore) GetLoad(ctx context.Context, id string) (*model.Load, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, booking_office, posted_at, from_location, to_location, truck_type,
			truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to
		 FROM loads WHERE id = $1`,
		id,
	)
	return scanPgLoad(row)
}

func (s *PostgresStore) ListLoads(ctx context.Context, filter LoadFilter) ([]model.Load, error) {
	query := `SELECT id, booking_office, posted_at, from_location, to_location, truck_type,
		truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to
		FROM loads WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.FromLocation != "" {
		query += ` AND from_location = ` + arg(filter.FromLocation)
	}
	if filter.ToLocation != "" {
		query += ` AND to_location = ` + arg(filter.ToLocation)
	}
	if filter.TruckType != "" {
		query += ` AND truck_type = ` + arg(filter.TruckType)
	}
	query += ` ORDER BY posted_at ASC, id ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ` + arg(limit)

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list loads")
	}
	defer rows.Close()

	var loads []model.Load
	for rows.Next() {
		l, err := scanPgLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, *l)
	}
	return loads, eris.Wrap(rows.Err(), "postgres: list loads iterate")
}

func (s *PostgresStore) AssignLoad(ctx context.Context, id, assignee string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE loads SET status = $1, assigned_to = $2 WHERE id = $3 AND status = $4`,
		string(model.LoadStatusAssigned), assignee, id, string(model.LoadStatusAvailable),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: assign load %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("available load not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, transcript model.Transcript) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal transcript")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, transcript_id, transcript, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, transcript.ID, transcriptJSON, string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:           id,
		TranscriptID: transcript.ID,
		Transcript:   transcript,
		Status:       model.RunStatusQueued,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run result %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var transcriptJSON []byte
	var resultJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, transcript_id, transcript, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.TranscriptID, &transcriptJSON, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if err := json.Unmarshal(transcriptJSON, &r.Transcript); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal transcript")
	}
	if len(resultJSON) > 0 {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, transcript_id, transcript, status, result, created_at, updated_at FROM runs WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.TranscriptID != "" {
		query += ` AND transcript_id = ` + arg(filter.TranscriptID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var transcriptJSON, resultJSON []byte
		if err := rows.Scan(&r.ID, &r.TranscriptID, &transcriptJSON, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(transcriptJSON, &r.Transcript); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal transcript")
		}
		if len(resultJSON) > 0 {
			r.Result = &model.RunResult{}
			if err := json.Unmarshal(resultJSON, r.Result); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal result")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// helpers

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func scanPgLoad(row pgx.Row) (*model.Load, error) {
	var l model.Load
	var postedAt *time.Time
	var price *float64
	var status string

	err := row.Scan(&l.ID, &l.BookingOffice, &postedAt, &l.FromLocation, &l.ToLocation,
		&l.TruckType, &l.TruckLength, &l.Tonnage, &l.Product, &price, &l.NumTrucks,
		&l.ETA, &status, &l.AssignedTo)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan load")
	}

	if postedAt != nil {
		l.PostedAt = *postedAt
	}
	l.Price = price
	l.Status = model.LoadStatus(status)
	return &l, nil
}
