package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/domain/fund"
)

// MetricSet bundles every computed metric for a fund
type MetricSet struct {
	FundID             uuid.UUID `json:"fund_id"`
	PIC                float64   `json:"pic"`
	TotalDistributions float64   `json:"total_distributions"`
	DPI                float64   `json:"dpi"`
	TVPI               float64   `json:"tvpi"`
	RVPI               float64   `json:"rvpi"`
	IRR                *float64  `json:"irr"`
	IRRStatus          IRRStatus `json:"irr_status"`
	NAVReported        bool      `json:"nav_reported"`
}

// Service computes fund metrics over repository snapshots. Each call
// fetches the fund's transaction collections once and computes over
// that immutable view; funds never share state, so concurrent
// computation across funds is safe.
type Service struct {
	funds        fund.Repository
	transactions fund.TransactionRepository
	cache        ResultCache
	logger       *zap.Logger
}

// NewService creates a metrics service
func NewService(funds fund.Repository, transactions fund.TransactionRepository, cache ResultCache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		funds:        funds,
		transactions: transactions,
		cache:        cache,
		logger:       logger.Named("metrics"),
	}
}

// Snapshot fetches the fund's complete transaction view
func (s *Service) Snapshot(ctx context.Context, fundID uuid.UUID) (*Snapshot, error) {
	f, err := s.funds.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	calls, err := s.transactions.CapitalCalls(ctx, fundID)
	if err != nil {
		return nil, err
	}
	distributions, err := s.transactions.Distributions(ctx, fundID)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.transactions.Adjustments(ctx, fundID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		FundID:        fundID,
		CapitalCalls:  calls,
		Distributions: distributions,
		Adjustments:   adjustments,
		NAV:           f.NAV,
	}, nil
}

// CalculatePIC computes paid-in capital for a fund
func (s *Service) CalculatePIC(ctx context.Context, fundID uuid.UUID) (decimal.Decimal, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.PIC(), nil
}

// CalculateDPI computes distributions over paid-in for a fund
func (s *Service) CalculateDPI(ctx context.Context, fundID uuid.UUID) (float64, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return 0, err
	}
	return snapshot.DPI(), nil
}

// CalculateTVPI computes total value over paid-in for a fund
func (s *Service) CalculateTVPI(ctx context.Context, fundID uuid.UUID) (float64, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return 0, err
	}
	return snapshot.TVPI(), nil
}

// CalculateRVPI computes residual value over paid-in for a fund
func (s *Service) CalculateRVPI(ctx context.Context, fundID uuid.UUID) (float64, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return 0, err
	}
	return snapshot.RVPI(), nil
}

// CalculateIRR computes the internal rate of return for a fund. A nil
// rate with a non-ok status means the rate is undefined or the solver
// did not converge; neither is an error.
func (s *Service) CalculateIRR(ctx context.Context, fundID uuid.UUID) (*float64, IRRStatus, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return nil, "", err
	}
	rate, status := snapshot.IRR()
	return rate, status, nil
}

// CalculateAll computes the full metric set for a fund, consulting the
// result cache first. Cache keys embed the transaction fingerprint, so
// ingestion writes invalidate implicitly.
func (s *Service) CalculateAll(ctx context.Context, fundID uuid.UUID) (*MetricSet, error) {
	fingerprint, err := s.transactions.Fingerprint(ctx, fundID)
	if err == nil {
		if cached, ok := s.cache.Get(ctx, CacheKey(fundID, fingerprint)); ok {
			return cached, nil
		}
	} else {
		s.logger.Warn("fingerprint unavailable, skipping metrics cache",
			zap.String("fund_id", fundID.String()), zap.Error(err))
	}

	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return nil, err
	}

	irr, status := snapshot.IRR()
	set := &MetricSet{
		FundID:             fundID,
		PIC:                snapshot.PIC().InexactFloat64(),
		TotalDistributions: snapshot.TotalDistributions().InexactFloat64(),
		DPI:                snapshot.DPI(),
		TVPI:               snapshot.TVPI(),
		RVPI:               snapshot.RVPI(),
		IRR:                irr,
		IRRStatus:          status,
		NAVReported:        snapshot.HasNAV(),
	}

	if fingerprint != "" {
		s.cache.Set(ctx, CacheKey(fundID, fingerprint), set)
	}
	return set, nil
}

// Breakdown assembles the calculation explanation for one metric
func (s *Service) Breakdown(ctx context.Context, fundID uuid.UUID, metric Metric) (*Breakdown, error) {
	snapshot, err := s.Snapshot(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return AssembleBreakdown(snapshot, metric)
}
