package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"pumpwatch/internal/types"
)

// supabaseBatchSize bounds one upsert request.
const supabaseBatchSize = 500

// SupabaseSink upserts flattened rows into a Supabase table through the
// PostgREST interface. Conflicts on (station_name, address) merge into
// the existing row, so repeated runs keep one row per station while the
// run stamp columns advance.
type SupabaseSink struct {
	client *resty.Client
	table  string
	logger *slog.Logger
}

// NewSupabaseSink builds the sink. The project URL and service key are
// required; the table falls back to config before reaching here.
func NewSupabaseSink(rawURL, key, table string, logger *slog.Logger) (*SupabaseSink, error) {
	if rawURL == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required: %w", types.ErrSinkNotConfigured)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(rawURL, "/")).
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Content-Type", "application/json")

	return &SupabaseSink{
		client: client,
		table:  table,
		logger: logger.With("component", "supabase_sink"),
	}, nil
}

func (s *SupabaseSink) Name() string { return "supabase" }

func (s *SupabaseSink) Write(ctx context.Context, rows []*types.FlatRow) error {
	for start := 0; start < len(rows); start += supabaseBatchSize {
		end := start + supabaseBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("on_conflict", "station_name,address").
			SetHeader("Prefer", "resolution=merge-duplicates").
			SetBody(batch).
			Post("/rest/v1/" + s.table)
		if err != nil {
			return &types.SinkError{Sink: s.Name(), Err: err}
		}
		if resp.IsError() {
			return &types.SinkError{
				Sink: s.Name(),
				Err:  fmt.Errorf("upsert rows %d-%d: status %d: %s", start, end, resp.StatusCode(), bodySnippet(resp.String())),
			}
		}

		s.logger.Debug("batch upserted", "rows", len(batch), "status", resp.StatusCode())
	}

	s.logger.Info("supabase upsert complete", "table", s.table, "rows", len(rows))
	return nil
}

func (s *SupabaseSink) Close() error { return nil }

// bodySnippet trims a response body down to something loggable.
func bodySnippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 200 {
		return body[:200] + "..."
	}
	return body
}
