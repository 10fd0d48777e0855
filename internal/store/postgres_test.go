package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightlink/match-cli/internal/model"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func pgLoadRows(loads ...*model.Load) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "booking_office", "posted_at", "from_location", "to_location",
		"truck_type", "truck_length", "tonnage", "product", "price",
		"num_trucks", "eta", "status", "assigned_to",
	})
	for _, l := range loads {
		postedAt := l.PostedAt
		rows.AddRow(l.ID, l.BookingOffice, &postedAt, l.FromLocation, l.ToLocation,
			l.TruckType, l.TruckLength, l.Tonnage, l.Product, l.Price,
			l.NumTrucks, l.ETA, string(l.Status), l.AssignedTo)
	}
	return rows
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS loads`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveLoad(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO loads`).
		WithArgs(anyArgs(14)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	load := testLoad("L003")
	require.NoError(t, s.SaveLoad(context.Background(), load))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveLoadGeneratesID(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO loads`).
		WithArgs(anyArgs(14)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	load := testLoad("")
	require.NoError(t, s.SaveLoad(context.Background(), load))
	assert.NotEmpty(t, load.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLoad(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	want := testLoad("L003")
	mock.ExpectQuery(`SELECT (.+) FROM loads WHERE id`).
		WithArgs("L003").
		WillReturnRows(pgLoadRows(want))

	got, err := s.GetLoad(context.Background(), "L003")
	require.NoError(t, err)
	assert.Equal(t, "L003", got.ID)
	assert.Equal(t, "Tumakuru", got.FromLocation)
	assert.Equal(t, model.LoadStatusAvailable, got.Status)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 22000, *got.Price, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLoadNotFound(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM loads WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLoad(context.Background(), "missing")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListLoads(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	a := testLoad("L001")
	b := testLoad("L003")
	mock.ExpectQuery(`SELECT (.+) FROM loads WHERE 1=1 AND status = (.+) ORDER BY posted_at ASC`).
		WithArgs("available", 500).
		WillReturnRows(pgLoadRows(a, b))

	loads, err := s.ListLoads(context.Background(), LoadFilter{Status: model.LoadStatusAvailable})
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, "L001", loads[0].ID)
	assert.Equal(t, "L003", loads[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAssignLoad(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE loads SET status`).
		WithArgs("assigned", "9876543210", "L003", "available").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.AssignLoad(context.Background(), "L003", "9876543210"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAssignLoadNotAvailable(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE loads SET status`).
		WithArgs("assigned", "9876543210", "L003", "available").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.AssignLoad(context.Background(), "L003", "9876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), testTranscript("call-001"))
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "call-001", run.TranscriptID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatusNotFound(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs(anyArgs(3)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunResult(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET result`).
		WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result := &model.RunResult{
		Entities: &model.ExtractedEntities{TruckType: model.TruckTypeOpen},
	}
	require.NoError(t, s.UpdateRunResult(context.Background(), "run-1", result))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRun(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	now := time.Now().UTC()
	transcriptJSON := []byte(`{"id":"call-001","turns":[{"speaker":"Agent","text":"Load available"}]}`)
	resultJSON := []byte(`{"entities":{"truck_type":"open","available_immediately":true,"did_pitch_load":true,"was_price_discussed":false,"did_say_no_load":false,"was_number_exchanged":false}}`)

	rows := pgxmock.NewRows([]string{
		"id", "transcript_id", "transcript", "status", "result", "created_at", "updated_at",
	}).AddRow("run-1", "call-001", transcriptJSON, "complete", resultJSON, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM runs WHERE id`).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatus("complete"), run.Status)
	assert.Equal(t, "call-001", run.Transcript.ID)
	require.NotNil(t, run.Result)
	assert.Equal(t, model.TruckTypeOpen, run.Result.Entities.TruckType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRunNotFound(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM runs WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRuns(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	now := time.Now().UTC()
	transcriptJSON := []byte(`{"id":"call-001","turns":[]}`)
	rows := pgxmock.NewRows([]string{
		"id", "transcript_id", "transcript", "status", "result", "created_at", "updated_at",
	}).
		AddRow("run-2", "call-001", transcriptJSON, "queued", []byte(nil), now, now).
		AddRow("run-1", "call-001", transcriptJSON, "complete", []byte(`{}`), now.Add(-time.Minute), now)

	mock.ExpectQuery(`SELECT (.+) FROM runs WHERE 1=1 AND transcript_id = (.+) ORDER BY created_at DESC`).
		WithArgs("call-001", 100).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{TranscriptID: "call-001"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].Result)
	require.NotNil(t, runs[1].Result)
	require.NoError(t, mock.ExpectationsWereMet())
}
