package syncer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// RefreshUnit pairs a fiscal-year offset with a report code. The refresh
// table drives which snapshot units each sync invocation covers.
type RefreshUnit struct {
	YearOffset int
	ReportCode string
}

// DefaultRefreshUnits covers the prior year's annual report and the current
// year's quarterly and half-year filings.
var DefaultRefreshUnits = []RefreshUnit{
	{YearOffset: -1, ReportCode: models.ReportCodeAnnual},
	{YearOffset: 0, ReportCode: models.ReportCodeQ3},
	{YearOffset: 0, ReportCode: models.ReportCodeHalfYear},
	{YearOffset: 0, ReportCode: models.ReportCodeQ1},
}

// FinancialSyncer replaces financial-statement snapshots from DART. Each
// (corp code, year, report code) unit is wholly replaced per run: existing
// line items are deleted and the fresh fetch's items inserted in one
// transaction, so a failed or empty fetch leaves the unit empty rather than
// stale.
type FinancialSyncer struct {
	store  StatementStore
	client dart.Client
	logger ectologger.Logger
	units  []RefreshUnit
	now    func() time.Time
}

// NewFinancialSyncer creates a new financial-statement synchronizer
func NewFinancialSyncer(store StatementStore, client dart.Client, logger ectologger.Logger) *FinancialSyncer {
	return &FinancialSyncer{
		store:  store,
		client: client,
		logger: logger,
		units:  DefaultRefreshUnits,
		now:    time.Now,
	}
}

// SyncRecent replaces every snapshot unit in the refresh table for a corp
// code. A unit's failure is contained and the remaining units still run.
func (s *FinancialSyncer) SyncRecent(ctx context.Context, corpCode string) StepResult {
	ctx, span := tracing.StartSpan(ctx, "syncer.FinancialSyncer.SyncRecent")
	defer span.End()

	year := s.now().Year()
	result := StepResult{Step: StepFinancial}

	for _, unit := range s.units {
		result = result.Merge(s.SyncOne(ctx, models.StatementUnit{
			CorpCode:   corpCode,
			BsnsYear:   strconv.Itoa(year + unit.YearOffset),
			ReportCode: unit.ReportCode,
		}))
	}
	return result
}

// SyncOne replaces a single snapshot unit
func (s *FinancialSyncer) SyncOne(ctx context.Context, unit models.StatementUnit) StepResult {
	ctx, span := tracing.StartSpan(ctx, "syncer.FinancialSyncer.SyncOne")
	defer span.End()

	result := StepResult{Step: StepFinancial}
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"corp_code":  unit.CorpCode,
		"bsns_year":  unit.BsnsYear,
		"reprt_code": unit.ReportCode,
	})

	var items []*models.CreateFinancialStatementItemRequest

	resp, fetchErr := s.client.GetFinancialStatement(ctx, unit.CorpCode, unit.BsnsYear, unit.ReportCode, dart.FsDivOFS)
	switch {
	case fetchErr != nil:
		result.Err = fmt.Errorf("failed to fetch financial statement: %w", fetchErr)
		log.WithError(result.Err).Error("Financial statement fetch failed")
	case resp.IsOK():
		items = make([]*models.CreateFinancialStatementItemRequest, 0, len(resp.List))
		for _, line := range resp.List {
			items = append(items, itemRequestFromDart(line))
		}
	default:
		log.WithFields(map[string]any{
			"status":  resp.Status,
			"message": resp.Message,
		}).Info("No financial statement data for unit")
	}

	// Replace even when the fetch failed or carried nothing: stale line items
	// must not outlive the snapshot that produced them.
	deleted, inserted, err := s.store.ReplaceUnit(ctx, unit, items)
	if err != nil {
		result.Err = fmt.Errorf("failed to replace statement unit: %w", err)
		log.WithError(result.Err).Error("Financial statement sync failed")
		return result
	}

	result.Deleted = deleted
	result.Synced = inserted
	log.WithFields(map[string]any{
		"deleted":  deleted,
		"inserted": inserted,
	}).Info("Financial statement unit replaced")
	return result
}

func itemRequestFromDart(line dart.FinancialStatementItem) *models.CreateFinancialStatementItemRequest {
	return &models.CreateFinancialStatementItemRequest{
		SjDiv:           line.SjDiv,
		AccountID:       line.AccountID,
		AccountName:     line.AccountName,
		ThstrmName:      optional(line.ThstrmName),
		ThstrmAmount:    optional(line.ThstrmAmount),
		ThstrmAddAmount: optional(line.ThstrmAddAmount),
		FrmtrmName:      optional(line.FrmtrmName),
		FrmtrmAmount:    optional(line.FrmtrmAmount),
		FrmtrmQName:     optional(line.FrmtrmQName),
		FrmtrmQAmount:   optional(line.FrmtrmQAmount),
		FrmtrmAddAmount: optional(line.FrmtrmAddAmount),
		BfefrmtrmName:   optional(line.BfefrmtrmName),
		BfefrmtrmAmount: optional(line.BfefrmtrmAmount),
		Currency:        optional(line.Currency),
	}
}
