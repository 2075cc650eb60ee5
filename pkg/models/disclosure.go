package models

import "time"

// Disclosure is a single DART disclosure event, keyed by the receipt number
// the registry assigns. Receipt numbers are write-once: a disclosure is
// inserted when first observed and never mutated afterwards.
type Disclosure struct {
	ReceiptNo     string    `json:"receipt_no" db:"receipt_no"`
	CorpCode      string    `json:"corp_code" db:"corp_code"`
	CorpName      string    `json:"corp_name" db:"corp_name"`
	StockCode     *string   `json:"stock_code,omitempty" db:"stock_code"`
	CorpClass     *string   `json:"corp_class,omitempty" db:"corp_class"`
	ReportName    string    `json:"report_name" db:"report_name"`
	SubmitterName *string   `json:"submitter_name,omitempty" db:"submitter_name"`
	ReceiptDate   time.Time `json:"receipt_date" db:"receipt_date"`
	Remark        *string   `json:"remark,omitempty" db:"remark"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CreateDisclosureRequest is the request for recording a newly observed disclosure
type CreateDisclosureRequest struct {
	ReceiptNo     string    `json:"receipt_no" validate:"required"`
	CorpCode      string    `json:"corp_code" validate:"required"`
	CorpName      string    `json:"corp_name" validate:"required"`
	StockCode     *string   `json:"stock_code,omitempty"`
	CorpClass     *string   `json:"corp_class,omitempty"`
	ReportName    string    `json:"report_name" validate:"required"`
	SubmitterName *string   `json:"submitter_name,omitempty"`
	ReceiptDate   time.Time `json:"receipt_date" validate:"required"`
	Remark        *string   `json:"remark,omitempty"`
}

// DisclosureListResponse is the response for listing disclosures
type DisclosureListResponse struct {
	Items      []Disclosure `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}
