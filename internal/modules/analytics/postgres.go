package analytics

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL analytics repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ApplyOrder claims the ingestion marker and upserts every bucket in one
// transaction. The marker insert is the dedup gate; the bucket upserts are
// pure increments so concurrent ingests of different orders never lose
// updates to the same bucket.
func (r *postgresRepo) ApplyOrder(ctx context.Context, orderID uuid.UUID, increments []BucketIncrement) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO analytics_ingestions (order_id) VALUES ($1)
		ON CONFLICT (order_id) DO NOTHING`, orderID)
	if err != nil {
		return false, fmt.Errorf("claim ingestion marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil // already ingested
	}

	for _, inc := range increments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO analytics_buckets
			  (actor_id, role, period_kind, period_key, orders, accumulated_paise)
			VALUES ($1,$2,$3,$4,1,$5)
			ON CONFLICT (actor_id, role, period_kind, period_key) DO UPDATE SET
			  orders = analytics_buckets.orders + 1,
			  accumulated_paise = analytics_buckets.accumulated_paise + EXCLUDED.accumulated_paise`,
			inc.ActorID, inc.Role, inc.Kind, inc.PeriodKey, int64(inc.Amount))
		if err != nil {
			return false, fmt.Errorf("upsert bucket %s/%s: %w", inc.Kind, inc.PeriodKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *postgresRepo) ListBuckets(ctx context.Context, actorID string, role user.Role) ([]*Bucket, error) {
	uid, err := uuid.Parse(actorID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT actor_id, role, period_kind, period_key, orders, accumulated_paise
		FROM analytics_buckets
		WHERE actor_id=$1 AND role=$2
		ORDER BY period_kind, period_key`, uid, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*Bucket
	for rows.Next() {
		b := &Bucket{}
		var accumulated int64
		if err := rows.Scan(&b.ActorID, &b.Role, &b.Kind, &b.PeriodKey, &b.Orders, &accumulated); err != nil {
			return nil, err
		}
		b.Accumulated = pricing.Paise(accumulated)
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
