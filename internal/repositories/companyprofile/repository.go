// Package companyprofile persists DART company master records keyed by corp
// code.
package companyprofile

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

var profileColumns = []string{
	"corp_code", "corp_name", "corp_name_eng", "stock_code", "ceo_name",
	"corp_class", "business_number", "corp_reg_number", "address",
	"homepage_url", "ir_url", "phone_number", "fax_number", "industry",
	"establishment_date", "accounting_month", "source", "created_at", "updated_at",
}

// Repository handles company profile persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new company profile repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByCorpCode returns the profile for a corp code, or nil when absent
func (r *Repository) GetByCorpCode(ctx context.Context, corpCode string) (*models.CompanyProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "companyprofile.Repository.GetByCorpCode")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(profileColumns...)
	sb.From("company_profiles")
	sb.Where(sb.Equal("corp_code", corpCode))
	sb.Limit(1)

	query, args := sb.Build()
	var profile models.CompanyProfile
	if err := r.db.GetContext(ctx, &profile, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"corp_code": corpCode}).Error("Failed to get company profile")
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts or updates a profile keyed by corp_code and returns the
// stored row
func (r *Repository) Upsert(ctx context.Context, req *models.UpsertCompanyProfileRequest) (*models.CompanyProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "companyprofile.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()

	query := `
		INSERT INTO company_profiles (
			corp_code, corp_name, corp_name_eng, stock_code, ceo_name,
			corp_class, business_number, corp_reg_number, address,
			homepage_url, ir_url, phone_number, fax_number, industry,
			establishment_date, accounting_month, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (corp_code)
		DO UPDATE SET
			corp_name = EXCLUDED.corp_name,
			corp_name_eng = EXCLUDED.corp_name_eng,
			stock_code = EXCLUDED.stock_code,
			ceo_name = EXCLUDED.ceo_name,
			corp_class = EXCLUDED.corp_class,
			business_number = EXCLUDED.business_number,
			corp_reg_number = EXCLUDED.corp_reg_number,
			address = EXCLUDED.address,
			homepage_url = EXCLUDED.homepage_url,
			ir_url = EXCLUDED.ir_url,
			phone_number = EXCLUDED.phone_number,
			fax_number = EXCLUDED.fax_number,
			industry = EXCLUDED.industry,
			establishment_date = EXCLUDED.establishment_date,
			accounting_month = EXCLUDED.accounting_month,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at
		RETURNING corp_code, corp_name, corp_name_eng, stock_code, ceo_name,
			corp_class, business_number, corp_reg_number, address,
			homepage_url, ir_url, phone_number, fax_number, industry,
			establishment_date, accounting_month, source, created_at, updated_at
	`

	var profile models.CompanyProfile
	err := r.db.GetContext(ctx, &profile, query,
		req.CorpCode, req.CorpName, req.CorpNameEng, req.StockCode, req.CEOName,
		req.CorpClass, req.BusinessNumber, req.CorpRegNumber, req.Address,
		req.HomepageURL, req.IRURL, req.PhoneNumber, req.FaxNumber, req.Industry,
		req.EstablishmentDate, req.AccountingMonth, req.Source, now, now,
	)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"corp_code": req.CorpCode}).Error("Failed to upsert company profile")
		return nil, fmt.Errorf("failed to upsert company profile: %w", err)
	}
	return &profile, nil
}

// ListCorpCodes returns corp codes ordered for stable batch iteration.
// placeholderOnly restricts to profiles still awaiting real DART data.
func (r *Repository) ListCorpCodes(ctx context.Context, placeholderOnly bool, limit, offset int) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "companyprofile.Repository.ListCorpCodes")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("corp_code")
	sb.From("company_profiles")
	if placeholderOnly {
		sb.Where(sb.Equal("source", string(models.ProfileSourcePlaceholder)))
	}
	sb.OrderBy("corp_code")
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list corp codes")
		return nil, fmt.Errorf("failed to list corp codes: %w", err)
	}
	return codes, nil
}
