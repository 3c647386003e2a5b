package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Superpose/internal/domain"
)

const defaultQueryLimit = 100

// ObservationRepo — Postgres-реализация metrics.Store.
//
// Observations append-only; истёкшие записи отфильтровываются
// в запросе (tombstone на чтении), физически удаляются DeleteExpired
// из maintenance scheduler'а.
//
// Schema:
//
//	CREATE TABLE observations (
//	    id          UUID PRIMARY KEY,
//	    path_name   TEXT NOT NULL,
//	    request_id  UUID NOT NULL,
//	    latency_ms  BIGINT NOT NULL,
//	    success     BOOLEAN NOT NULL,
//	    strategy    TEXT NOT NULL DEFAULT '',
//	    ts          TIMESTAMPTZ NOT NULL,
//	    expires_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX observations_path_ts_idx ON observations (path_name, ts DESC);
type ObservationRepo struct {
	pool *pgxpool.Pool
}

// NewObservationRepo создаёт новый ObservationRepo.
func NewObservationRepo(pool *pgxpool.Pool) *ObservationRepo {
	return &ObservationRepo{pool: pool}
}

// Record добавляет observation.
func (r *ObservationRepo) Record(ctx context.Context, obs domain.ExecutionObservation) error {
	query := `
		INSERT INTO observations (id, path_name, request_id, latency_ms, success, strategy, ts, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		obs.ID,
		obs.PathName,
		obs.RequestID,
		obs.LatencyMs,
		obs.Success,
		obs.Strategy,
		obs.Timestamp,
		obs.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

// Query возвращает неистёкшие observations пути не старше since,
// от новых к старым, не более limit.
func (r *ObservationRepo) Query(ctx context.Context, pathName string, since time.Time, limit int) ([]domain.ExecutionObservation, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	query := `
		SELECT id, path_name, request_id, latency_ms, success, strategy, ts, expires_at
		FROM observations
		WHERE path_name = $1 AND ts >= $2 AND expires_at > now()
		ORDER BY ts DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, pathName, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var observations []domain.ExecutionObservation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// Compact физически удаляет истёкшие observations.
func (r *ObservationRepo) Compact(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM observations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired observations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// scanObservation читает observation из строки результата.
func scanObservation(rows pgx.Rows) (domain.ExecutionObservation, error) {
	var obs domain.ExecutionObservation
	err := rows.Scan(
		&obs.ID,
		&obs.PathName,
		&obs.RequestID,
		&obs.LatencyMs,
		&obs.Success,
		&obs.Strategy,
		&obs.Timestamp,
		&obs.ExpiresAt,
	)
	if err != nil {
		return domain.ExecutionObservation{}, fmt.Errorf("scan observation: %w", err)
	}
	return obs, nil
}
