package dedup_repo

import (
	"context"
	"fmt"
	"time"

	"payhook/internal/webhook"
	"payhook/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// PgDedupStore is the durable delivery membership store.
// MarkSeen relies on ON CONFLICT DO NOTHING against the (source, event_id)
// unique constraint, so check-and-insert is a single atomic statement.
type PgDedupStore struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ webhook.DedupStore = (*PgDedupStore)(nil)

func NewPgDedupStore(pg *postgres.Postgres) *PgDedupStore {
	return &PgDedupStore{
		db:      pg.Pool,
		builder: pg.Builder,
	}
}

// MarkSeen inserts the delivery identifier if absent. Returns true iff the
// row was inserted, i.e. this is the first delivery with that identifier.
func (r *PgDedupStore) MarkSeen(ctx context.Context, source webhook.Source, eventID string) (bool, error) {
	query, args, err := r.builder.Insert("webhook_deliveries").
		Columns("id", "source", "event_id", "received_at").
		Values(uuid.New().String(), string(source), eventID, time.Now().UTC()).
		Suffix("ON CONFLICT (source, event_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark delivery seen: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
