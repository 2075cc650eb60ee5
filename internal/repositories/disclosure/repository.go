// Package disclosure persists DART disclosure events keyed by receipt number.
// Receipt numbers are write-once: rows are inserted when first observed and
// never updated.
package disclosure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var disclosureColumns = []string{
	"receipt_no", "corp_code", "corp_name", "stock_code", "corp_class",
	"report_name", "submitter_name", "receipt_date", "remark",
	"created_at", "updated_at",
}

// Repository handles disclosure persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new disclosure repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether a disclosure with the receipt number is on record
func (r *Repository) Exists(ctx context.Context, receiptNo string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "disclosure.Repository.Exists")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("1")
	sb.From("disclosures")
	sb.Where(sb.Equal("receipt_no", receiptNo))
	sb.Limit(1)

	query, args := sb.Build()
	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"receipt_no": receiptNo}).Error("Failed to check disclosure existence")
		return false, fmt.Errorf("failed to check disclosure existence: %w", err)
	}
	return true, nil
}

// Create inserts a newly observed disclosure. Concurrent observers of the
// same receipt number race benignly: ON CONFLICT DO NOTHING keeps the first
// writer's row and returns it.
func (r *Repository) Create(ctx context.Context, req *models.CreateDisclosureRequest) (*models.Disclosure, error) {
	ctx, span := tracing.StartSpan(ctx, "disclosure.Repository.Create")
	defer span.End()

	now := time.Now().UTC()

	query := `
		INSERT INTO disclosures (
			receipt_no, corp_code, corp_name, stock_code, corp_class,
			report_name, submitter_name, receipt_date, remark, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (receipt_no) DO NOTHING
		RETURNING receipt_no, corp_code, corp_name, stock_code, corp_class,
			report_name, submitter_name, receipt_date, remark, created_at, updated_at
	`

	var disclosure models.Disclosure
	err := r.db.GetContext(ctx, &disclosure, query,
		req.ReceiptNo, req.CorpCode, req.CorpName, req.StockCode, req.CorpClass,
		req.ReportName, req.SubmitterName, req.ReceiptDate, req.Remark, now, now,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race; return the existing row
			return r.GetByReceiptNo(ctx, req.ReceiptNo)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"receipt_no": req.ReceiptNo}).Error("Failed to create disclosure")
		return nil, fmt.Errorf("failed to create disclosure: %w", err)
	}
	return &disclosure, nil
}

// GetByReceiptNo returns one disclosure, or nil when absent
func (r *Repository) GetByReceiptNo(ctx context.Context, receiptNo string) (*models.Disclosure, error) {
	ctx, span := tracing.StartSpan(ctx, "disclosure.Repository.GetByReceiptNo")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(disclosureColumns...)
	sb.From("disclosures")
	sb.Where(sb.Equal("receipt_no", receiptNo))
	sb.Limit(1)

	query, args := sb.Build()
	var disclosure models.Disclosure
	if err := r.db.GetContext(ctx, &disclosure, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"receipt_no": receiptNo}).Error("Failed to get disclosure")
		return nil, fmt.Errorf("failed to get disclosure: %w", err)
	}
	return &disclosure, nil
}

// ListByCorpCode returns a page of disclosures for a corp code, newest first
func (r *Repository) ListByCorpCode(ctx context.Context, corpCode string, page, pageSize int) (*models.DisclosureListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "disclosure.Repository.ListByCorpCode")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("disclosures")
	countSb.Where(countSb.Equal("corp_code", corpCode))

	countQuery, countArgs := countSb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"corp_code": corpCode}).Error("Failed to count disclosures")
		return nil, fmt.Errorf("failed to count disclosures: %w", err)
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(disclosureColumns...)
	sb.From("disclosures")
	sb.Where(sb.Equal("corp_code", corpCode))
	sb.OrderBy("receipt_date DESC", "receipt_no DESC")
	sb.Limit(pageSize).Offset((page - 1) * pageSize)

	query, args := sb.Build()
	items := []models.Disclosure{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"corp_code": corpCode}).Error("Failed to list disclosures")
		return nil, fmt.Errorf("failed to list disclosures: %w", err)
	}

	return &models.DisclosureListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
