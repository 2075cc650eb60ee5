// Package dart wraps the OpenDART corporate disclosure API. Responses come
// back with an application-level status field; transport failures and
// non-"000" statuses are both surfaced to callers, which treat them as
// "no data" per the sync pipeline's best-effort contract.
package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/httpclient"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const defaultDisclosurePageCount = 100

// Client is the DART API surface the synchronizers depend on
type Client interface {
	GetCompanyProfile(ctx context.Context, corpCode string) (*CompanyProfileResponse, error)
	SearchDisclosures(ctx context.Context, corpCode, startDate, endDate string) (*DisclosureSearchResponse, error)
	GetFinancialStatement(ctx context.Context, corpCode, bsnsYear, reprtCode, fsDiv string) (*FinancialStatementResponse, error)
}

// Config holds DART client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient implements Client against the OpenDART HTTP API
type HTTPClient struct {
	http   *httpclient.Client
	cfg    Config
	logger ectologger.Logger
}

// NewClient creates a new DART API client
func NewClient(cfg Config, logger ectologger.Logger) *HTTPClient {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &HTTPClient{
		http:   httpclient.NewClient(httpCfg, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// GetCompanyProfile fetches the company master record for a corp code
func (c *HTTPClient) GetCompanyProfile(ctx context.Context, corpCode string) (*CompanyProfileResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dart.Client.GetCompanyProfile")
	defer span.End()

	params := url.Values{}
	params.Set("corp_code", corpCode)

	var out CompanyProfileResponse
	if err := c.get(ctx, "company.json", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchDisclosures fetches disclosure events for a corp code within the
// inclusive [startDate, endDate] window (YYYYMMDD bounds)
func (c *HTTPClient) SearchDisclosures(ctx context.Context, corpCode, startDate, endDate string) (*DisclosureSearchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dart.Client.SearchDisclosures")
	defer span.End()

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bgn_de", startDate)
	params.Set("end_de", endDate)
	params.Set("page_count", strconv.Itoa(defaultDisclosurePageCount))

	var out DisclosureSearchResponse
	if err := c.get(ctx, "list.json", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFinancialStatement fetches all account line items for one
// (corp code, business year, report code) filing
func (c *HTTPClient) GetFinancialStatement(ctx context.Context, corpCode, bsnsYear, reprtCode, fsDiv string) (*FinancialStatementResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dart.Client.GetFinancialStatement")
	defer span.End()

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", bsnsYear)
	params.Set("reprt_code", reprtCode)
	params.Set("fs_div", fsDiv)

	var out FinancialStatementResponse
	if err := c.get(ctx, "fnlttSinglAcntAll.json", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("crtfc_key", c.cfg.APIKey)

	requestURL := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, endpoint, params.Encode())

	start := time.Now()
	resp, err := c.http.Get(ctx, requestURL, nil)
	metrics.DartRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DartRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("dart %s request failed: %w", endpoint, err)
	}

	metrics.DartRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dart %s returned HTTP %d", endpoint, resp.StatusCode)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("dart %s returned unparsable body: %w", endpoint, err)
	}

	return nil
}
