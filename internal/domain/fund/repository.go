package fund

import (
	"context"

	"github.com/google/uuid"

	"github.com/fundsight/backend/internal/domain/shared"
)

// Repository provides persistence for fund aggregates
type Repository interface {
	shared.Repository[Fund]
	FindByName(ctx context.Context, name string) (*Fund, error)
}

// TransactionRepository provides persistence for transaction records.
// The non-paginated accessors return the complete, date-ordered set for a
// fund; the metrics engine uses them to build its snapshot in one pass.
type TransactionRepository interface {
	SaveCapitalCalls(ctx context.Context, calls []CapitalCall) error
	SaveDistributions(ctx context.Context, distributions []Distribution) error
	SaveAdjustments(ctx context.Context, adjustments []Adjustment) error

	CapitalCalls(ctx context.Context, fundID uuid.UUID) ([]CapitalCall, error)
	Distributions(ctx context.Context, fundID uuid.UUID) ([]Distribution, error)
	Adjustments(ctx context.Context, fundID uuid.UUID) ([]Adjustment, error)

	ListCapitalCalls(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[CapitalCall], error)
	ListDistributions(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[Distribution], error)
	ListAdjustments(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[Adjustment], error)

	DeleteByFund(ctx context.Context, fundID uuid.UUID) error

	// Fingerprint returns an opaque token that changes whenever the fund's
	// transaction set changes. Metric caches key on it for invalidation.
	Fingerprint(ctx context.Context, fundID uuid.UUID) (string, error)
}
