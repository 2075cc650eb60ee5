package models

import "time"

// ProfileSource records where a company profile's data came from
type ProfileSource string

const (
	// ProfileSourceDart marks profiles populated from a successful DART lookup
	ProfileSourceDart ProfileSource = "dart"
	// ProfileSourcePlaceholder marks profiles synthesized when DART could not
	// supply data. The periodic refresh retries the real lookup for these.
	ProfileSourcePlaceholder ProfileSource = "placeholder"
)

// CompanyProfile is the DART company master record, keyed by corp_code.
// At most one profile exists per corp_code; the key never changes once created.
type CompanyProfile struct {
	CorpCode          string        `json:"corp_code" db:"corp_code"`
	CorpName          string        `json:"corp_name" db:"corp_name"`
	CorpNameEng       *string       `json:"corp_name_eng,omitempty" db:"corp_name_eng"`
	StockCode         *string       `json:"stock_code,omitempty" db:"stock_code"`
	CEOName           *string       `json:"ceo_name,omitempty" db:"ceo_name"`
	CorpClass         *string       `json:"corp_class,omitempty" db:"corp_class"`
	BusinessNumber    *string       `json:"business_number,omitempty" db:"business_number"`
	CorpRegNumber     *string       `json:"corp_reg_number,omitempty" db:"corp_reg_number"`
	Address           *string       `json:"address,omitempty" db:"address"`
	HomepageURL       *string       `json:"homepage_url,omitempty" db:"homepage_url"`
	IRURL             *string       `json:"ir_url,omitempty" db:"ir_url"`
	PhoneNumber       *string       `json:"phone_number,omitempty" db:"phone_number"`
	FaxNumber         *string       `json:"fax_number,omitempty" db:"fax_number"`
	Industry          *string       `json:"industry,omitempty" db:"industry"`
	EstablishmentDate *string       `json:"establishment_date,omitempty" db:"establishment_date"`
	AccountingMonth   *string       `json:"accounting_month,omitempty" db:"accounting_month"`
	Source            ProfileSource `json:"source" db:"source"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPlaceholder reports whether the profile was synthesized without DART data
func (p *CompanyProfile) IsPlaceholder() bool {
	return p.Source == ProfileSourcePlaceholder
}

// UpsertCompanyProfileRequest is the request for inserting or updating a
// company profile keyed by corp_code
type UpsertCompanyProfileRequest struct {
	CorpCode          string        `json:"corp_code" validate:"required"`
	CorpName          string        `json:"corp_name" validate:"required"`
	CorpNameEng       *string       `json:"corp_name_eng,omitempty"`
	StockCode         *string       `json:"stock_code,omitempty"`
	CEOName           *string       `json:"ceo_name,omitempty"`
	CorpClass         *string       `json:"corp_class,omitempty"`
	BusinessNumber    *string       `json:"business_number,omitempty"`
	CorpRegNumber     *string       `json:"corp_reg_number,omitempty"`
	Address           *string       `json:"address,omitempty"`
	HomepageURL       *string       `json:"homepage_url,omitempty"`
	IRURL             *string       `json:"ir_url,omitempty"`
	PhoneNumber       *string       `json:"phone_number,omitempty"`
	FaxNumber         *string       `json:"fax_number,omitempty"`
	Industry          *string       `json:"industry,omitempty"`
	EstablishmentDate *string       `json:"establishment_date,omitempty"`
	AccountingMonth   *string       `json:"accounting_month,omitempty"`
	Source            ProfileSource `json:"source" validate:"required"`
}
