package models

import "time"

// PartnerCompanyStatus is the lifecycle status of a registered partner company
type PartnerCompanyStatus string

const (
	PartnerCompanyStatusActive   PartnerCompanyStatus = "ACTIVE"
	PartnerCompanyStatusInactive PartnerCompanyStatus = "INACTIVE"
)

// PartnerCompany is a company registered into the platform by a member.
// Registration is what triggers the DART enrichment pipeline; the record
// itself stands whether or not enrichment succeeds.
type PartnerCompany struct {
	ID                string               `json:"id" db:"id"`
	MemberID          string               `json:"member_id" db:"member_id"`
	CompanyName       string               `json:"company_name" db:"company_name"`
	CorpCode          *string              `json:"corp_code,omitempty" db:"corp_code"`
	StockCode         *string              `json:"stock_code,omitempty" db:"stock_code"`
	Status            PartnerCompanyStatus `json:"status" db:"status"`
	ContractStartDate *time.Time           `json:"contract_start_date,omitempty" db:"contract_start_date"`
	ContractEndDate   *time.Time           `json:"contract_end_date,omitempty" db:"contract_end_date"`
	CreatedAt         time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time           `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreatePartnerCompanyRequest is the request for registering a partner company
type CreatePartnerCompanyRequest struct {
	MemberID          string     `json:"member_id" validate:"required"`
	CompanyName       string     `json:"company_name" validate:"required"`
	CorpCode          *string    `json:"corp_code,omitempty" validate:"omitempty,len=8"`
	StockCode         *string    `json:"stock_code,omitempty" validate:"omitempty,len=6"`
	ContractStartDate *time.Time `json:"contract_start_date,omitempty"`
	ContractEndDate   *time.Time `json:"contract_end_date,omitempty"`
}

// UpdatePartnerCompanyRequest is the request for updating a partner company
type UpdatePartnerCompanyRequest struct {
	CompanyName       *string               `json:"company_name,omitempty"`
	CorpCode          *string               `json:"corp_code,omitempty" validate:"omitempty,len=8"`
	StockCode         *string               `json:"stock_code,omitempty" validate:"omitempty,len=6"`
	Status            *PartnerCompanyStatus `json:"status,omitempty"`
	ContractStartDate *time.Time            `json:"contract_start_date,omitempty"`
	ContractEndDate   *time.Time            `json:"contract_end_date,omitempty"`
}

// PartnerCompanyListResponse is the response for listing partner companies
type PartnerCompanyListResponse struct {
	Items      []PartnerCompany `json:"items"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}
