package ingestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/fund"
)

// Page is the extracted content of one document page, as delivered by
// the external layout-extraction collaborator
type Page struct {
	Number int        `json:"number"`
	Tables []RawTable `json:"tables"`
}

// TableReport traces what happened to one extracted table
type TableReport struct {
	Page       int           `json:"page"`
	Table      int           `json:"table"`
	Label      TableLabel    `json:"label"`
	Confidence float64       `json:"confidence"`
	Accepted   int           `json:"accepted"`
	Rejected   []RejectedRow `json:"rejected,omitempty"`
}

// Result summarizes a document processing run
type Result struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     document.Status `json:"status"`
	Stats      document.Stats  `json:"stats"`
	Tables     []TableReport   `json:"tables"`
}

// Service turns extracted page grids into persisted transaction
// records and tracks the document lifecycle around the run
type Service struct {
	documents    document.Repository
	funds        fund.Repository
	transactions fund.TransactionRepository
	logger       *zap.Logger
}

// NewService creates an ingestion service
func NewService(documents document.Repository, funds fund.Repository, transactions fund.TransactionRepository, logger *zap.Logger) *Service {
	return &Service{
		documents:    documents,
		funds:        funds,
		transactions: transactions,
		logger:       logger.Named("ingestion"),
	}
}

// ProcessDocument classifies and normalizes every table of a document
// and persists the accepted records. Row failures never abort the run;
// they are collected per table with their reason codes. A document with
// no tables fails without error so the caller sees the status.
func (s *Service) ProcessDocument(ctx context.Context, documentID uuid.UUID, pages []Page) (*Result, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.funds.FindByID(ctx, doc.FundID); err != nil {
		return nil, err
	}
	if err := doc.StartProcessing(); err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	var (
		stats         document.Stats
		reports       []TableReport
		calls         []fund.CapitalCall
		distributions []fund.Distribution
		adjustments   []fund.Adjustment
	)

	for _, page := range pages {
		for tableIdx, table := range page.Tables {
			classification := ClassifyTable(table)
			stats.TablesFound++

			report := TableReport{
				Page:       page.Number,
				Table:      tableIdx,
				Label:      classification.Label,
				Confidence: classification.Confidence,
			}

			if classification.Label == LabelUnknown {
				stats.UnknownTables++
				reports = append(reports, report)
				s.logger.Info("table needs manual review",
					zap.String("document_id", documentID.String()),
					zap.Int("page", page.Number),
					zap.Int("table", tableIdx),
					zap.Float64("confidence", classification.Confidence))
				continue
			}

			valid, rejected := NormalizeRows(classification.Label, table, doc.FundID)
			report.Accepted = len(valid)
			report.Rejected = rejected
			stats.RejectedRows += len(rejected)
			reports = append(reports, report)

			for _, record := range valid {
				switch r := record.(type) {
				case *fund.CapitalCall:
					calls = append(calls, *r)
				case *fund.Distribution:
					distributions = append(distributions, *r)
				case *fund.Adjustment:
					adjustments = append(adjustments, *r)
				}
			}
		}
	}
	stats.CapitalCalls = len(calls)
	stats.Distributions = len(distributions)
	stats.Adjustments = len(adjustments)

	if stats.TablesFound == 0 {
		if err := s.fail(ctx, doc, "no tables found in document"); err != nil {
			return nil, err
		}
		return &Result{DocumentID: documentID, Status: doc.Status, Stats: stats}, nil
	}

	if err := s.persist(ctx, calls, distributions, adjustments); err != nil {
		s.logger.Error("persisting extracted records failed",
			zap.String("document_id", documentID.String()), zap.Error(err))
		if failErr := s.fail(ctx, doc, fmt.Sprintf("persisting records: %v", err)); failErr != nil {
			return nil, failErr
		}
		return nil, err
	}

	if err := doc.Complete(stats); err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document processed",
		zap.String("document_id", documentID.String()),
		zap.String("fund_id", doc.FundID.String()),
		zap.Int("tables", stats.TablesFound),
		zap.Int("capital_calls", stats.CapitalCalls),
		zap.Int("distributions", stats.Distributions),
		zap.Int("adjustments", stats.Adjustments),
		zap.Int("rejected_rows", stats.RejectedRows))

	return &Result{
		DocumentID: documentID,
		Status:     doc.Status,
		Stats:      stats,
		Tables:     reports,
	}, nil
}

func (s *Service) persist(ctx context.Context, calls []fund.CapitalCall, distributions []fund.Distribution, adjustments []fund.Adjustment) error {
	if len(calls) > 0 {
		if err := s.transactions.SaveCapitalCalls(ctx, calls); err != nil {
			return err
		}
	}
	if len(distributions) > 0 {
		if err := s.transactions.SaveDistributions(ctx, distributions); err != nil {
			return err
		}
	}
	if len(adjustments) > 0 {
		if err := s.transactions.SaveAdjustments(ctx, adjustments); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) fail(ctx context.Context, doc *document.Document, reason string) error {
	if err := doc.Fail(reason); err != nil {
		return err
	}
	return s.documents.Save(ctx, doc)
}
