package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pumpwatch/internal/types"
)

// postgresBatchSize bounds one round trip.
const postgresBatchSize = 500

// PostgresSink upserts flattened rows straight into Postgres, for
// deployments that talk to the database without the REST layer in
// between. Same conflict target as the REST path: (station_name,
// address).
type PostgresSink struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewPostgresSink connects to the database and verifies the connection.
func NewPostgresSink(ctx context.Context, dsn, table string, logger *slog.Logger) (*PostgresSink, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required: %w", types.ErrSinkNotConfigured)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &PostgresSink{
		pool:   pool,
		table:  table,
		logger: logger.With("component", "postgres_sink"),
	}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Write(ctx context.Context, rows []*types.FlatRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_timestamp, run_label, city, station_id, station_name, station_url, address,
	regular, regular_updated, midgrade, midgrade_updated, premium, premium_updated, diesel, diesel_updated, scrape_error)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (station_name, address) DO UPDATE
SET run_timestamp = EXCLUDED.run_timestamp,
    run_label = EXCLUDED.run_label,
    city = EXCLUDED.city,
    station_id = EXCLUDED.station_id,
    station_url = EXCLUDED.station_url,
    regular = EXCLUDED.regular,
    regular_updated = EXCLUDED.regular_updated,
    midgrade = EXCLUDED.midgrade,
    midgrade_updated = EXCLUDED.midgrade_updated,
    premium = EXCLUDED.premium,
    premium_updated = EXCLUDED.premium_updated,
    diesel = EXCLUDED.diesel,
    diesel_updated = EXCLUDED.diesel_updated,
    scrape_error = EXCLUDED.scrape_error`, pgx.Identifier{s.table}.Sanitize())

	for start := 0; start < len(rows); start += postgresBatchSize {
		end := start + postgresBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := &pgx.Batch{}
		for _, r := range rows[start:end] {
			batch.Queue(query,
				r.RunTimestamp, r.RunLabel, r.City, r.StationID, r.StationName, r.StationURL, r.Address,
				r.Regular, r.RegularUpdated, r.Midgrade, r.MidgradeUpdated,
				r.Premium, r.PremiumUpdated, r.Diesel, r.DieselUpdated, r.ScrapeError)
		}

		if err := s.sendBatch(ctx, batch); err != nil {
			return &types.SinkError{Sink: s.Name(), Err: err}
		}
		s.logger.Debug("batch upserted", "rows", end-start)
	}

	s.logger.Info("postgres upsert complete", "table", s.table, "rows", len(rows))
	return nil
}

func (s *PostgresSink) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
