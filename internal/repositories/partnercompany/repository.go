// Package partnercompany persists partner company registrations.
package partnercompany

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var partnerColumns = []string{
	"id", "member_id", "company_name", "corp_code", "stock_code", "status",
	"contract_start_date", "contract_end_date", "created_at", "updated_at", "deleted_at",
}

// Repository handles partner company persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new partner company repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create registers a new partner company
func (r *Repository) Create(ctx context.Context, req *models.CreatePartnerCompanyRequest) (*models.PartnerCompany, error) {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	id := uuid.New().String()

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("partner_companies")
	ib.Cols("id", "member_id", "company_name", "corp_code", "stock_code", "status",
		"contract_start_date", "contract_end_date", "created_at", "updated_at")
	ib.Values(id, req.MemberID, req.CompanyName, req.CorpCode, req.StockCode,
		models.PartnerCompanyStatusActive, req.ContractStartDate, req.ContractEndDate, now, now)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"member_id": req.MemberID, "company_name": req.CompanyName}).Error("Failed to create partner company")
		return nil, fmt.Errorf("failed to create partner company: %w", err)
	}

	return r.Get(ctx, id)
}

// Get returns one partner company by id, or nil when absent or soft-deleted
func (r *Repository) Get(ctx context.Context, id string) (*models.PartnerCompany, error) {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(partnerColumns...)
	sb.From("partner_companies")
	sb.Where(sb.Equal("id", id), sb.IsNull("deleted_at"))
	sb.Limit(1)

	query, args := sb.Build()
	var partner models.PartnerCompany
	if err := r.db.GetContext(ctx, &partner, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get partner company")
		return nil, fmt.Errorf("failed to get partner company: %w", err)
	}
	return &partner, nil
}

// Update applies the non-nil request fields to a partner company
func (r *Repository) Update(ctx context.Context, id string, req *models.UpdatePartnerCompanyRequest) (*models.PartnerCompany, error) {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.Update")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("partner_companies")

	assignments := []string{ub.Assign("updated_at", time.Now().UTC())}
	if req.CompanyName != nil {
		assignments = append(assignments, ub.Assign("company_name", *req.CompanyName))
	}
	if req.CorpCode != nil {
		assignments = append(assignments, ub.Assign("corp_code", *req.CorpCode))
	}
	if req.StockCode != nil {
		assignments = append(assignments, ub.Assign("stock_code", *req.StockCode))
	}
	if req.Status != nil {
		assignments = append(assignments, ub.Assign("status", string(*req.Status)))
	}
	if req.ContractStartDate != nil {
		assignments = append(assignments, ub.Assign("contract_start_date", *req.ContractStartDate))
	}
	if req.ContractEndDate != nil {
		assignments = append(assignments, ub.Assign("contract_end_date", *req.ContractEndDate))
	}

	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id), ub.IsNull("deleted_at"))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to update partner company")
		return nil, fmt.Errorf("failed to update partner company: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.Get(ctx, id)
}

// Delete soft-deletes a partner company
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.Delete")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("partner_companies")
	ub.Set(ub.Assign("deleted_at", time.Now().UTC()))
	ub.Where(ub.Equal("id", id), ub.IsNull("deleted_at"))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to delete partner company")
		return fmt.Errorf("failed to delete partner company: %w", err)
	}
	return nil
}

// Search returns a page of partner companies filtered by name substring and
// status. Empty filters match everything.
func (r *Repository) Search(ctx context.Context, name string, status models.PartnerCompanyStatus, page, pageSize int) (*models.PartnerCompanyListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.Search")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	buildWhere := func(sb *sqlbuilder.SelectBuilder) {
		where := []string{sb.IsNull("deleted_at")}
		if name = strings.TrimSpace(name); name != "" {
			where = append(where, sb.ILike("company_name", "%"+name+"%"))
		}
		if status != "" {
			where = append(where, sb.Equal("status", string(status)))
		}
		sb.Where(where...)
	}

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("partner_companies")
	buildWhere(countSb)

	countQuery, countArgs := countSb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count partner companies")
		return nil, fmt.Errorf("failed to count partner companies: %w", err)
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(partnerColumns...)
	sb.From("partner_companies")
	buildWhere(sb)
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize).Offset((page - 1) * pageSize)

	query, args := sb.Build()
	items := []models.PartnerCompany{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search partner companies")
		return nil, fmt.Errorf("failed to search partner companies: %w", err)
	}

	return &models.PartnerCompanyListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListActiveCorpCodes returns the distinct corp codes of active partners for
// batch iteration by the periodic refresh
func (r *Repository) ListActiveCorpCodes(ctx context.Context, limit, offset int) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "partnercompany.Repository.ListActiveCorpCodes")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("DISTINCT corp_code")
	sb.From("partner_companies")
	sb.Where(
		sb.Equal("status", string(models.PartnerCompanyStatusActive)),
		sb.IsNull("deleted_at"),
		sb.IsNotNull("corp_code"),
	)
	sb.OrderBy("corp_code")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list active corp codes")
		return nil, fmt.Errorf("failed to list active corp codes: %w", err)
	}
	return codes, nil
}
