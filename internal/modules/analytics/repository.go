package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// BucketIncrement is one commutative bucket update: +1 order, +Amount money.
type BucketIncrement struct {
	ActorID   uuid.UUID
	Role      user.Role
	Kind      PeriodKind
	PeriodKey string
	Amount    pricing.Paise
}

// Repository defines data access for analytics rollups.
type Repository interface {
	// ApplyOrder records the ingestion marker for orderID and applies every
	// increment, atomically. Returns (false, nil) without touching any bucket
	// when the order was already ingested. The at-most-once accounting
	// guarantee lives here.
	ApplyOrder(ctx context.Context, orderID uuid.UUID, increments []BucketIncrement) (bool, error)

	// ListBuckets returns all buckets of all period kinds for one actor.
	ListBuckets(ctx context.Context, actorID string, role user.Role) ([]*Bucket, error)
}
