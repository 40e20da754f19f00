package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/frontier/internal/sim"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("run not found")

// ErrRunExists is returned when inserting a record whose batch already holds
// that session index.
var ErrRunExists = errors.New("run already recorded for this batch and session")

// RunRepository provides run record persistence operations.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a RunRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, batch_id, session_index, seed, policy, budget,
	       ticks_used, steps, areas_found, locations_found, connections_found,
	       bonuses_earned, luck_z, luck_percentile, luck_verdict, stop_reason,
	       created_at`

// Create inserts a run record and returns it with the insert timestamp set.
//
// Precondition: rec.ID and rec.BatchID must be non-nil UUIDs.
// Postcondition: Returns the stored record with CreatedAt set, or ErrRunExists
// when the batch already holds rec.SessionIndex.
func (r *RunRepository) Create(ctx context.Context, rec sim.RunRecord) (sim.RunRecord, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO runs
			(id, batch_id, session_index, seed, policy, budget,
			 ticks_used, steps, areas_found, locations_found, connections_found,
			 bonuses_earned, luck_z, luck_percentile, luck_verdict, stop_reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING `+runColumns,
		rec.ID, rec.BatchID, rec.SessionIndex, rec.Seed, rec.Policy, rec.Budget,
		rec.TicksUsed, rec.Steps, rec.AreasFound, rec.LocationsFound, rec.ConnectionsFound,
		rec.BonusesEarned, rec.LuckZ, rec.LuckPercentile, rec.LuckVerdict, rec.StopReason,
	)
	out, err := scanRun(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return sim.RunRecord{}, ErrRunExists
		}
		return sim.RunRecord{}, fmt.Errorf("inserting run: %w", err)
	}
	return out, nil
}

// GetByID retrieves a run record by its primary key.
//
// Postcondition: Returns the record or ErrRunNotFound.
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (sim.RunRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM runs WHERE id = $1`,
		id,
	)
	out, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sim.RunRecord{}, ErrRunNotFound
		}
		return sim.RunRecord{}, fmt.Errorf("querying run: %w", err)
	}
	return out, nil
}

// ListByBatch returns every record of one batch in session order.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RunRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]sim.RunRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM runs WHERE batch_id = $1 ORDER BY session_index ASC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing batch runs: %w", err)
	}
	defer rows.Close()

	records := make([]sim.RunRecord, 0)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRecent returns the newest records across all batches, newest first.
//
// Precondition: limit must be > 0.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]sim.RunRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM runs ORDER BY created_at DESC, session_index DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent runs: %w", err)
	}
	defer rows.Close()

	records := make([]sim.RunRecord, 0)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRun(row pgx.Row) (sim.RunRecord, error) {
	var rec sim.RunRecord
	err := row.Scan(
		&rec.ID, &rec.BatchID, &rec.SessionIndex, &rec.Seed, &rec.Policy, &rec.Budget,
		&rec.TicksUsed, &rec.Steps, &rec.AreasFound, &rec.LocationsFound, &rec.ConnectionsFound,
		&rec.BonusesEarned, &rec.LuckZ, &rec.LuckPercentile, &rec.LuckVerdict, &rec.StopReason,
		&rec.CreatedAt,
	)
	return rec, err
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
