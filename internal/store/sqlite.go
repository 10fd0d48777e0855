package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/freightlink/match-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS loads (
	id             TEXT PRIMARY KEY,
	booking_office TEXT NOT NULL DEFAULT '',
	posted_at      DATETIME,
	from_location  TEXT NOT NULL,
	to_location    TEXT NOT NULL,
	truck_type     TEXT NOT NULL DEFAULT '',
	truck_length   TEXT NOT NULL DEFAULT '',
	tonnage        TEXT NOT NULL DEFAULT '',
	product        TEXT NOT NULL DEFAULT '',
	price          REAL,
	num_trucks     INTEGER NOT NULL DEFAULT 1,
	eta            TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'available',
	assigned_to    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	transcript_id TEXT NOT NULL,
	transcript    TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'queued',
	result        TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_loads_status ON loads(status);
CREATE INDEX IF NOT EXISTS idx_loads_from ON loads(from_location);
CREATE INDEX IF NOT EXISTS idx_loads_to ON loads(to_location);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_transcript ON runs(transcript_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLoad(ctx context.Context, load *model.Load) error {
	if load.ID == "" {
		load.ID = uuid.New().String()
	}
	if load.Status == "" {
		load.Status = model.LoadStatusAvailable
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO loads (id, booking_office, posted_at, from_location, to_location,
			truck_type, truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			booking_office = excluded.booking_office,
			posted_at      = excluded.posted_at,
			from_location  = excluded.from_location,
			to_location    = excluded.to_location,
			truck_type     = excluded.truck_type,
			truck_length   = excluded.truck_length,
			tonnage        = excluded.tonnage,
			product        = excluded.product,
			price          = excluded.price,
			num_trucks     = excluded.num_trucks,
			eta            = excluded.eta,
			status         = excluded.status,
			assigned_to    = excluded.assigned_to`,
		load.ID, load.BookingOffice, load.PostedAt, load.FromLocation, load.ToLocation,
		load.TruckType, load.TruckLength, load.Tonnage, load.Product, load.Price,
		load.NumTrucks, load.ETA, string(load.Status), load.AssignedTo,
	)
	return eris.Wrapf(err, "sqlite: save load %s", load.ID)
}

func (s *SQLiteStore) SaveLoads(ctx context.Context, loads []*model.Load) (int, error) {
	saved := 0
	for _, l := range loads {
		if err := s.SaveLoad(ctx, l); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func (s *SQLiteStore) GetLoad(ctx context.Context, id string) (*model.Load, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, booking_office, posted_at, from_location, to_location, truck_type,
			truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to
		 FROM loads WHERE id = ?`,
		id,
	)
	return scanLoad(row)
}

func (s *SQLiteStore) ListLoads(ctx context.Context, filter LoadFilter) ([]model.Load, error) {
	query := `SELECT id, booking_office, posted_at, from_location, to_location, truck_type,
		truck_length, tonnage, product, price, num_trucks, eta, status, assigned_to
		FROM loads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.FromLocation != "" {
		query += ` AND from_location = ?`
		args = append(args, filter.FromLocation)
	}
	if filter.ToLocation != "" {
		query += ` AND to_location = ?`
		args = append(args, filter.ToLocation)
	}
	if filter.TruckType != "" {
		query += ` AND truck_type = ?`
		args = append(args, filter.TruckType)
	}
	query += ` ORDER BY posted_at ASC, id ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list loads")
	}
	defer rows.Close()

	var loads []model.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, *l)
	}
	return loads, eris.Wrap(rows.Err(), "sqlite: list loads iterate")
}

func (s *SQLiteStore) AssignLoad(ctx context.Context, id, assignee string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE loads SET status = ?, assigned_to = ? WHERE id = ? AND status = ?`,
		string(model.LoadStatusAssigned), assignee, id, string(model.LoadStatusAvailable),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: assign load %s", id)
	}
	return checkRowsAffected(res, "available load", id)
}

func (s *SQLiteStore) CreateRun(ctx context.Context, transcript model.Transcript) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal transcript")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, transcript_id, transcript, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, transcript.ID, string(transcriptJSON), string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
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

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run result %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, transcript_id, transcript, status, result, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, transcript_id, transcript, status, result, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.TranscriptID != "" {
		query += ` AND transcript_id = ?`
		args = append(args, filter.TranscriptID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLoad(row scannable) (*model.Load, error) {
	var l model.Load
	var postedAt sql.NullTime
	var price sql.NullFloat64
	var status string

	err := row.Scan(&l.ID, &l.BookingOffice, &postedAt, &l.FromLocation, &l.ToLocation,
		&l.TruckType, &l.TruckLength, &l.Tonnage, &l.Product, &price, &l.NumTrucks,
		&l.ETA, &status, &l.AssignedTo)
	if err == sql.ErrNoRows {
		return nil, eris.New("load not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan load")
	}

	if postedAt.Valid {
		l.PostedAt = postedAt.Time
	}
	if price.Valid {
		l.Price = &price.Float64
	}
	l.Status = model.LoadStatus(status)
	return &l, nil
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var transcriptJSON string
	var resultJSON sql.NullString

	err := row.Scan(&r.ID, &r.TranscriptID, &transcriptJSON, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(transcriptJSON), &r.Transcript); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal transcript")
	}
	if resultJSON.Valid {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), r.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	return &r, nil
}
