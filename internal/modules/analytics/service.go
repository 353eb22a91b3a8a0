package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/order"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// ErrAlreadyIngested reports an accounting conflict: the order had already
// been counted. It never reaches an end user; ingestion is simply skipped.
var ErrAlreadyIngested = errors.New("order already ingested")

// Service defines the analytics aggregator.
type Service interface {
	// Ingest folds one committed order into the vendor's spend and the
	// supplier's revenue rollups. Safe to call more than once per order: a
	// redelivery is detected via the ingestion marker and dropped.
	Ingest(ctx context.Context, o *order.Order) error

	// Query returns the actor's full read model across all period kinds.
	Query(ctx context.Context, actorID string, role user.Role) (*Report, error)
}

type service struct {
	repo Repository
}

// NewService creates a new analytics service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Ingest(ctx context.Context, o *order.Order) error {
	// Vendor spend and supplier revenue both come from Order.Total; they are
	// identical by construction, and the pricing invariant backs that up.
	if o.Subtotal+o.Tax != o.Total {
		return fmt.Errorf("order %s violates total = subtotal + tax; refusing to ingest", o.ID)
	}

	daily, weekly, monthly := PeriodKeys(o.CreatedAt)
	increments := make([]BucketIncrement, 0, 6)
	for _, actor := range []struct {
		id   uuid.UUID
		role user.Role
	}{
		{o.VendorID, user.RoleVendor},
		{o.SupplierID, user.RoleSupplier},
	} {
		for kind, key := range map[PeriodKind]string{
			PeriodDaily:   daily,
			PeriodWeekly:  weekly,
			PeriodMonthly: monthly,
		} {
			increments = append(increments, BucketIncrement{
				ActorID:   actor.id,
				Role:      actor.role,
				Kind:      kind,
				PeriodKey: key,
				Amount:    o.Total,
			})
		}
	}

	applied, err := s.applyWithRetry(ctx, o, increments)
	if err != nil {
		return err
	}
	if !applied {
		// Accounting conflict: a retried handoff raced an earlier ingest.
		// Dropping it is the correct outcome; double-counting is not.
		log.Printf("analytics: order %s already ingested, skipping", o.ID)
	}
	return nil
}

// applyWithRetry retries transient storage failures with bounded backoff.
// ApplyOrder is idempotent via the ingestion marker, so retrying after an
// ambiguous failure cannot double-count.
func (s *service) applyWithRetry(ctx context.Context, o *order.Order, increments []BucketIncrement) (bool, error) {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		var applied bool
		applied, err = s.repo.ApplyOrder(ctx, o.ID, increments)
		if err == nil {
			return applied, nil
		}
	}
	return false, fmt.Errorf("apply order %s to rollups: %w", o.ID, err)
}

func (s *service) Query(ctx context.Context, actorID string, role user.Role) (*Report, error) {
	buckets, err := s.repo.ListBuckets(ctx, actorID, role)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Daily:   map[string]BucketValue{},
		Weekly:  map[string]BucketValue{},
		Monthly: map[string]BucketValue{},
	}
	for _, b := range buckets {
		v := BucketValue{Orders: b.Orders, Accumulated: b.Accumulated}
		switch b.Kind {
		case PeriodDaily:
			report.Daily[b.PeriodKey] = v
		case PeriodWeekly:
			report.Weekly[b.PeriodKey] = v
		case PeriodMonthly:
			report.Monthly[b.PeriodKey] = v
		}
	}

	// Summary figures are derived at read time from one period kind; the
	// three kinds cover the same orders, so daily is as good as any.
	for _, v := range report.Daily {
		report.TotalAccumulated += v.Accumulated
		report.TotalOrders += v.Orders
	}
	report.ActiveMonths = len(report.Monthly)
	return report, nil
}
