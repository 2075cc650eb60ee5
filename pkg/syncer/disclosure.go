package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	dartDateLayout   = "20060102"
	disclosureWindow = 365 * 24 * time.Hour
)

// DisclosureSyncer ingests DART disclosure events for a trailing one-year
// window. Receipt numbers are write-once; items already on record are
// skipped, and per-item failures never abort the rest of the batch.
type DisclosureSyncer struct {
	store  DisclosureStore
	client dart.Client
	logger ectologger.Logger
	now    func() time.Time
}

// NewDisclosureSyncer creates a new disclosure synchronizer
func NewDisclosureSyncer(store DisclosureStore, client dart.Client, logger ectologger.Logger) *DisclosureSyncer {
	return &DisclosureSyncer{
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Sync fetches the trailing window of disclosures for a corp code and
// persists each unseen one. The contained error covers only the window-level
// fetch; per-item failures are logged and counted against Synced.
func (s *DisclosureSyncer) Sync(ctx context.Context, corpCode string) StepResult {
	ctx, span := tracing.StartSpan(ctx, "syncer.DisclosureSyncer.Sync")
	defer span.End()

	result := StepResult{Step: StepDisclosure}
	log := s.logger.WithContext(ctx).WithFields(map[string]any{"corp_code": corpCode})

	end := s.now()
	start := end.Add(-disclosureWindow)

	resp, err := s.client.SearchDisclosures(ctx, corpCode, start.Format(dartDateLayout), end.Format(dartDateLayout))
	if err != nil {
		result.Err = fmt.Errorf("failed to search disclosures: %w", err)
		log.WithError(result.Err).Error("Disclosure sync failed")
		return result
	}
	if !resp.IsOK() {
		// Non-success statuses include "no data in window", which is routine
		log.WithFields(map[string]any{
			"status":  resp.Status,
			"message": resp.Message,
		}).Info("Disclosure search returned no data")
		return result
	}

	for _, item := range resp.List {
		inserted, err := s.syncItem(ctx, corpCode, item)
		if err != nil {
			log.WithError(err).WithFields(map[string]any{
				"receipt_no": item.ReceiptNo,
			}).Error("Failed to sync disclosure item")
			continue
		}
		if inserted {
			result.Synced++
		} else {
			result.Skipped++
		}
	}

	log.WithFields(map[string]any{
		"fetched": len(resp.List),
		"synced":  result.Synced,
		"skipped": result.Skipped,
	}).Info("Disclosure sync complete")
	return result
}

// syncItem persists one disclosure if its receipt number is unseen; returns
// false with no error when the record already exists
func (s *DisclosureSyncer) syncItem(ctx context.Context, corpCode string, item dart.DisclosureItem) (bool, error) {
	exists, err := s.store.Exists(ctx, item.ReceiptNo)
	if err != nil {
		return false, fmt.Errorf("failed to check disclosure existence: %w", err)
	}
	if exists {
		return false, nil
	}

	receiptDate, err := time.Parse(dartDateLayout, item.ReceiptDate)
	if err != nil {
		return false, fmt.Errorf("unparsable receipt date %q: %w", item.ReceiptDate, err)
	}

	_, err = s.store.Create(ctx, &models.CreateDisclosureRequest{
		ReceiptNo:     item.ReceiptNo,
		CorpCode:      corpCode,
		CorpName:      item.CorpName,
		StockCode:     optional(item.StockCode),
		CorpClass:     optional(item.CorpClass),
		ReportName:    item.ReportName,
		SubmitterName: optional(item.SubmitterName),
		ReceiptDate:   receiptDate,
		Remark:        optional(item.Remark),
	})
	if err != nil {
		return false, fmt.Errorf("failed to insert disclosure: %w", err)
	}
	return true, nil
}
