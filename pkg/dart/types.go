package dart

// StatusOK is the status value DART returns when a response carries usable
// data. Anything else ("013" no data, "020" key limit, ...) is treated as
// "no data" by callers.
const StatusOK = "000"

// FsDivOFS selects separate (non-consolidated) financial statements
const FsDivOFS = "OFS"

// CompanyProfileResponse is the payload of the company.json endpoint
type CompanyProfileResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	CorpCode          string `json:"corp_code"`
	CorpName          string `json:"corp_name"`
	CorpNameEng       string `json:"corp_name_eng"`
	StockCode         string `json:"stock_code"`
	CEOName           string `json:"ceo_nm"`
	CorpClass         string `json:"corp_cls"`
	BusinessNumber    string `json:"bizr_no"`
	CorpRegNumber     string `json:"jurir_no"`
	Address           string `json:"adres"`
	HomepageURL       string `json:"hm_url"`
	IRURL             string `json:"ir_url"`
	PhoneNumber       string `json:"phn_no"`
	FaxNumber         string `json:"fax_no"`
	IndustryCode      string `json:"induty_code"`
	EstablishmentDate string `json:"est_dt"`
	AccountingMonth   string `json:"acc_mt"`
}

// IsOK reports whether the lookup carried usable profile data
func (r *CompanyProfileResponse) IsOK() bool {
	return r != nil && r.Status == StatusOK
}

// DisclosureSearchResponse is the payload of the list.json endpoint
type DisclosureSearchResponse struct {
	Status     string           `json:"status"`
	Message    string           `json:"message"`
	PageNo     int              `json:"page_no"`
	PageCount  int              `json:"page_count"`
	TotalCount int              `json:"total_count"`
	TotalPage  int              `json:"total_page"`
	List       []DisclosureItem `json:"list"`
}

// DisclosureItem is one disclosure event in a search response
type DisclosureItem struct {
	CorpCode      string `json:"corp_code"`
	CorpName      string `json:"corp_name"`
	StockCode     string `json:"stock_code"`
	CorpClass     string `json:"corp_cls"`
	ReportName    string `json:"report_nm"`
	ReceiptNo     string `json:"rcept_no"`
	SubmitterName string `json:"flr_nm"`
	ReceiptDate   string `json:"rcept_dt"` // YYYYMMDD
	Remark        string `json:"rm"`
}

// IsOK reports whether the search carried usable disclosure data
func (r *DisclosureSearchResponse) IsOK() bool {
	return r != nil && r.Status == StatusOK
}

// FinancialStatementResponse is the payload of the fnlttSinglAcntAll.json endpoint
type FinancialStatementResponse struct {
	Status  string                   `json:"status"`
	Message string                   `json:"message"`
	List    []FinancialStatementItem `json:"list"`
}

// FinancialStatementItem is one account line of a financial statement response
type FinancialStatementItem struct {
	ReceiptNo       string `json:"rcept_no"`
	ReportCode      string `json:"reprt_code"`
	BsnsYear        string `json:"bsns_year"`
	CorpCode        string `json:"corp_code"`
	SjDiv           string `json:"sj_div"`
	SjName          string `json:"sj_nm"`
	AccountID       string `json:"account_id"`
	AccountName     string `json:"account_nm"`
	AccountDetail   string `json:"account_detail"`
	ThstrmName      string `json:"thstrm_nm"`
	ThstrmAmount    string `json:"thstrm_amount"`
	ThstrmAddAmount string `json:"thstrm_add_amount"`
	FrmtrmName      string `json:"frmtrm_nm"`
	FrmtrmAmount    string `json:"frmtrm_amount"`
	FrmtrmQName     string `json:"frmtrm_q_nm"`
	FrmtrmQAmount   string `json:"frmtrm_q_amount"`
	FrmtrmAddAmount string `json:"frmtrm_add_amount"`
	BfefrmtrmName   string `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount string `json:"bfefrmtrm_amount"`
	Ord             string `json:"ord"`
	Currency        string `json:"currency"`
}

// IsOK reports whether the statement fetch carried usable line items
func (r *FinancialStatementResponse) IsOK() bool {
	return r != nil && r.Status == StatusOK
}
