// Package financialstatement persists financial-statement line items. The
// unit of replacement is (corp_code, bsns_year, reprt_code): each sync
// deletes the unit's rows and inserts the fresh fetch inside one transaction.
package financialstatement

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var itemColumns = []string{
	"id", "corp_code", "bsns_year", "reprt_code", "sj_div", "account_id",
	"account_nm", "thstrm_nm", "thstrm_amount", "thstrm_add_amount",
	"frmtrm_nm", "frmtrm_amount", "frmtrm_q_nm", "frmtrm_q_amount",
	"frmtrm_add_amount", "bfefrmtrm_nm", "bfefrmtrm_amount", "currency",
	"created_at", "updated_at",
}

// Repository handles financial statement persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new financial statement repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ReplaceUnit deletes every line item for the unit and inserts the given
// items in the same transaction, returning (deleted, inserted) counts.
// Readers never observe a half-replaced unit.
func (r *Repository) ReplaceUnit(ctx context.Context, unit models.StatementUnit, items []*models.CreateFinancialStatementItemRequest) (int64, int, error) {
	ctx, span := tracing.StartSpan(ctx, "financialstatement.Repository.ReplaceUnit")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"corp_code":  unit.CorpCode,
		"bsns_year":  unit.BsnsYear,
		"reprt_code": unit.ReportCode,
	})

	txCtx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom("financial_statement_items")
	db.Where(
		db.Equal("corp_code", unit.CorpCode),
		db.Equal("bsns_year", unit.BsnsYear),
		db.Equal("reprt_code", unit.ReportCode),
	)

	deleteQuery, deleteArgs := db.Build()
	res, err := tx.ExecContext(txCtx, deleteQuery, deleteArgs...)
	if err != nil {
		log.WithError(err).Error("Failed to delete statement unit")
		return 0, 0, fmt.Errorf("failed to delete statement unit: %w", err)
	}
	deleted, _ := res.RowsAffected()

	inserted := 0
	if len(items) > 0 {
		now := time.Now().UTC()

		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto("financial_statement_items")
		ib.Cols(
			"corp_code", "bsns_year", "reprt_code", "sj_div", "account_id",
			"account_nm", "thstrm_nm", "thstrm_amount", "thstrm_add_amount",
			"frmtrm_nm", "frmtrm_amount", "frmtrm_q_nm", "frmtrm_q_amount",
			"frmtrm_add_amount", "bfefrmtrm_nm", "bfefrmtrm_amount", "currency",
			"created_at", "updated_at",
		)
		for _, item := range items {
			ib.Values(
				unit.CorpCode, unit.BsnsYear, unit.ReportCode, item.SjDiv, item.AccountID,
				item.AccountName, item.ThstrmName, item.ThstrmAmount, item.ThstrmAddAmount,
				item.FrmtrmName, item.FrmtrmAmount, item.FrmtrmQName, item.FrmtrmQAmount,
				item.FrmtrmAddAmount, item.BfefrmtrmName, item.BfefrmtrmAmount, item.Currency,
				now, now,
			)
		}

		insertQuery, insertArgs := ib.Build()
		if _, err := tx.ExecContext(txCtx, insertQuery, insertArgs...); err != nil {
			log.WithError(err).Error("Failed to insert statement unit items")
			return 0, 0, fmt.Errorf("failed to insert statement unit items: %w", err)
		}
		inserted = len(items)
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit statement unit replace: %w", err)
	}

	log.WithFields(map[string]any{"deleted": deleted, "inserted": inserted}).Debug("Replaced statement unit")
	return deleted, inserted, nil
}

// ListByUnit returns every line item persisted for a snapshot unit
func (r *Repository) ListByUnit(ctx context.Context, unit models.StatementUnit) ([]models.FinancialStatementItem, error) {
	ctx, span := tracing.StartSpan(ctx, "financialstatement.Repository.ListByUnit")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("financial_statement_items")
	sb.Where(
		sb.Equal("corp_code", unit.CorpCode),
		sb.Equal("bsns_year", unit.BsnsYear),
		sb.Equal("reprt_code", unit.ReportCode),
	)
	sb.OrderBy("sj_div", "id")

	query, args := sb.Build()
	items := []models.FinancialStatementItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"corp_code":  unit.CorpCode,
			"bsns_year":  unit.BsnsYear,
			"reprt_code": unit.ReportCode,
		}).Error("Failed to list statement unit items")
		return nil, fmt.Errorf("failed to list statement unit items: %w", err)
	}
	return items, nil
}

// ListYears returns the distinct business years stored for a corp code
func (r *Repository) ListYears(ctx context.Context, corpCode string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "financialstatement.Repository.ListYears")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("DISTINCT bsns_year")
	sb.From("financial_statement_items")
	sb.Where(sb.Equal("corp_code", corpCode))
	sb.OrderBy("bsns_year DESC")

	query, args := sb.Build()
	var years []string
	if err := r.db.SelectContext(ctx, &years, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"corp_code": corpCode}).Error("Failed to list statement years")
		return nil, fmt.Errorf("failed to list statement years: %w", err)
	}
	return years, nil
}
