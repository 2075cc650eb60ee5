package dart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, noopLogger())
}

func TestGetCompanyProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("crtfc_key"))
		assert.Equal(t, "00123456", r.URL.Query().Get("corp_code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "000",
			"message": "OK",
			"corp_code": "00123456",
			"corp_name": "Acme Corp",
			"stock_code": "005930",
			"ceo_nm": "Jane Doe"
		}`))
	})

	resp, err := client.GetCompanyProfile(context.Background(), "00123456")
	require.NoError(t, err)
	assert.True(t, resp.IsOK())
	assert.Equal(t, "Acme Corp", resp.CorpName)
	assert.Equal(t, "Jane Doe", resp.CEOName)
}

func TestGetCompanyProfile_NonSuccessStatusIsReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "013", "message": "no data"}`))
	})

	resp, err := client.GetCompanyProfile(context.Background(), "99999999")
	require.NoError(t, err)
	assert.False(t, resp.IsOK())
	assert.Equal(t, "013", resp.Status)
}

func TestSearchDisclosures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list.json", r.URL.Path)
		assert.Equal(t, "20250831", r.URL.Query().Get("bgn_de"))
		assert.Equal(t, "20260831", r.URL.Query().Get("end_de"))
		assert.Equal(t, "100", r.URL.Query().Get("page_count"))

		w.Write([]byte(`{
			"status": "000",
			"total_count": 1,
			"list": [{"corp_code": "00123456", "corp_name": "Acme Corp", "report_nm": "Annual Report", "rcept_no": "20260101000001", "rcept_dt": "20260101"}]
		}`))
	})

	resp, err := client.SearchDisclosures(context.Background(), "00123456", "20250831", "20260831")
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, "20260101000001", resp.List[0].ReceiptNo)
}

func TestGetFinancialStatement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fnlttSinglAcntAll.json", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("bsns_year"))
		assert.Equal(t, "11011", r.URL.Query().Get("reprt_code"))
		assert.Equal(t, "OFS", r.URL.Query().Get("fs_div"))

		w.Write([]byte(`{
			"status": "000",
			"list": [{"sj_div": "BS", "account_id": "ifrs_Assets", "account_nm": "Assets", "thstrm_amount": "1000"}]
		}`))
	})

	resp, err := client.GetFinancialStatement(context.Background(), "00123456", "2025", "11011", FsDivOFS)
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, "ifrs_Assets", resp.List[0].AccountID)
	assert.Equal(t, "1000", resp.List[0].ThstrmAmount)
}

func TestGet_HTTPErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetCompanyProfile(context.Background(), "00123456")
	assert.Error(t, err)
}

func TestGet_UnparsableBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.GetCompanyProfile(context.Background(), "00123456")
	assert.Error(t, err)
}
