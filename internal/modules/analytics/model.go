package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// PeriodKind is a calendar granularity for rollups.
type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
)

// Bucket is an additive accumulator of order count and money for one actor,
// one period kind, one period key. Buckets are derived state: replaying the
// order ledger must always reproduce them.
type Bucket struct {
	ActorID     uuid.UUID     `json:"actor_id"`
	Role        user.Role     `json:"role"`
	Kind        PeriodKind    `json:"period_kind"`
	PeriodKey   string        `json:"period_key"`
	Orders      int           `json:"orders"`
	Accumulated pricing.Paise `json:"accumulated"`
}

// BucketValue is one bucket's accumulated figures, keyed by period in a Report.
type BucketValue struct {
	Orders      int           `json:"orders"`
	Accumulated pricing.Paise `json:"accumulated"`
}

// Report is the read model for one actor: all buckets of the three period
// kinds plus summary figures computed at read time.
type Report struct {
	Daily   map[string]BucketValue `json:"daily"`
	Weekly  map[string]BucketValue `json:"weekly"`
	Monthly map[string]BucketValue `json:"monthly"`

	TotalAccumulated pricing.Paise `json:"total_accumulated"`
	TotalOrders      int           `json:"total_orders"`
	ActiveMonths     int           `json:"active_months"`
}

// PeriodKeys derives the three calendar keys an order timestamp falls into:
// ISO date, ISO year-week, and year-month.
func PeriodKeys(t time.Time) (daily, weekly, monthly string) {
	t = t.UTC()
	isoYear, isoWeek := t.ISOWeek()
	return t.Format("2006-01-02"),
		fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
		t.Format("2006-01")
}
