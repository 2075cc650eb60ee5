package models

import "time"

// DART report codes for the periodic filings fern tracks
const (
	ReportCodeAnnual   = "11011" // annual report
	ReportCodeHalfYear = "11012" // half-year report
	ReportCodeQ1       = "11013" // first-quarter report
	ReportCodeQ3       = "11014" // third-quarter report
)

// StatementUnit identifies a replaceable financial-statement snapshot:
// everything fetched for (corp_code, bsns_year, reprt_code) is deleted and
// re-inserted as a whole on each synchronization.
type StatementUnit struct {
	CorpCode   string `json:"corp_code"`
	BsnsYear   string `json:"bsns_year"`
	ReportCode string `json:"reprt_code"`
}

// FinancialStatementItem is one account line of a DART financial statement.
// thstrm/frmtrm/bfefrmtrm follow DART's period naming: current term, former
// term, and the term before the former term.
type FinancialStatementItem struct {
	ID              int64     `json:"id" db:"id"`
	CorpCode        string    `json:"corp_code" db:"corp_code"`
	BsnsYear        string    `json:"bsns_year" db:"bsns_year"`
	ReportCode      string    `json:"reprt_code" db:"reprt_code"`
	SjDiv           string    `json:"sj_div" db:"sj_div"`
	AccountID       string    `json:"account_id" db:"account_id"`
	AccountName     string    `json:"account_nm" db:"account_nm"`
	ThstrmName      *string   `json:"thstrm_nm,omitempty" db:"thstrm_nm"`
	ThstrmAmount    *string   `json:"thstrm_amount,omitempty" db:"thstrm_amount"`
	ThstrmAddAmount *string   `json:"thstrm_add_amount,omitempty" db:"thstrm_add_amount"`
	FrmtrmName      *string   `json:"frmtrm_nm,omitempty" db:"frmtrm_nm"`
	FrmtrmAmount    *string   `json:"frmtrm_amount,omitempty" db:"frmtrm_amount"`
	FrmtrmQName     *string   `json:"frmtrm_q_nm,omitempty" db:"frmtrm_q_nm"`
	FrmtrmQAmount   *string   `json:"frmtrm_q_amount,omitempty" db:"frmtrm_q_amount"`
	FrmtrmAddAmount *string   `json:"frmtrm_add_amount,omitempty" db:"frmtrm_add_amount"`
	BfefrmtrmName   *string   `json:"bfefrmtrm_nm,omitempty" db:"bfefrmtrm_nm"`
	BfefrmtrmAmount *string   `json:"bfefrmtrm_amount,omitempty" db:"bfefrmtrm_amount"`
	Currency        *string   `json:"currency,omitempty" db:"currency"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateFinancialStatementItemRequest is one line item to persist for a snapshot unit
type CreateFinancialStatementItemRequest struct {
	SjDiv           string  `json:"sj_div" validate:"required"`
	AccountID       string  `json:"account_id" validate:"required"`
	AccountName     string  `json:"account_nm" validate:"required"`
	ThstrmName      *string `json:"thstrm_nm,omitempty"`
	ThstrmAmount    *string `json:"thstrm_amount,omitempty"`
	ThstrmAddAmount *string `json:"thstrm_add_amount,omitempty"`
	FrmtrmName      *string `json:"frmtrm_nm,omitempty"`
	FrmtrmAmount    *string `json:"frmtrm_amount,omitempty"`
	FrmtrmQName     *string `json:"frmtrm_q_nm,omitempty"`
	FrmtrmQAmount   *string `json:"frmtrm_q_amount,omitempty"`
	FrmtrmAddAmount *string `json:"frmtrm_add_amount,omitempty"`
	BfefrmtrmName   *string `json:"bfefrmtrm_nm,omitempty"`
	BfefrmtrmAmount *string `json:"bfefrmtrm_amount,omitempty"`
	Currency        *string `json:"currency,omitempty"`
}

// FinancialStatementListResponse is the response for listing a snapshot unit's items
type FinancialStatementListResponse struct {
	Unit  StatementUnit            `json:"unit"`
	Items []FinancialStatementItem `json:"items"`
}
