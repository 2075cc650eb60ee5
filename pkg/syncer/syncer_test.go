package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// fakeDartClient serves canned responses per corp code / unit

type fakeDartClient struct {
	profiles       map[string]*dart.CompanyProfileResponse
	profileErr     error
	disclosures    map[string]*dart.DisclosureSearchResponse
	disclosureErr  error
	statements     map[string]*dart.FinancialStatementResponse
	statementErrs  map[string]error
	profileCalls   int
	statementCalls []string
}

func (f *fakeDartClient) GetCompanyProfile(ctx context.Context, corpCode string) (*dart.CompanyProfileResponse, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if resp, ok := f.profiles[corpCode]; ok {
		return resp, nil
	}
	return &dart.CompanyProfileResponse{Status: "013", Message: "no data"}, nil
}

func (f *fakeDartClient) SearchDisclosures(ctx context.Context, corpCode, startDate, endDate string) (*dart.DisclosureSearchResponse, error) {
	if f.disclosureErr != nil {
		return nil, f.disclosureErr
	}
	if resp, ok := f.disclosures[corpCode]; ok {
		return resp, nil
	}
	return &dart.DisclosureSearchResponse{Status: "013", Message: "no data"}, nil
}

func (f *fakeDartClient) GetFinancialStatement(ctx context.Context, corpCode, bsnsYear, reprtCode, fsDiv string) (*dart.FinancialStatementResponse, error) {
	key := fmt.Sprintf("%s/%s/%s", corpCode, bsnsYear, reprtCode)
	f.statementCalls = append(f.statementCalls, key)
	if err, ok := f.statementErrs[key]; ok {
		return nil, err
	}
	if resp, ok := f.statements[key]; ok {
		return resp, nil
	}
	return &dart.FinancialStatementResponse{Status: "013", Message: "no data"}, nil
}

// in-memory stores

type memProfileStore struct {
	profiles map[string]*models.CompanyProfile
	getErr   error
	upserts  int
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: map[string]*models.CompanyProfile{}}
}

func (s *memProfileStore) GetByCorpCode(ctx context.Context, corpCode string) (*models.CompanyProfile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.profiles[corpCode], nil
}

func (s *memProfileStore) Upsert(ctx context.Context, req *models.UpsertCompanyProfileRequest) (*models.CompanyProfile, error) {
	s.upserts++
	now := time.Now().UTC()
	profile := &models.CompanyProfile{
		CorpCode:  req.CorpCode,
		CorpName:  req.CorpName,
		StockCode: req.StockCode,
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := s.profiles[req.CorpCode]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	s.profiles[req.CorpCode] = profile
	return profile, nil
}

type memDisclosureStore struct {
	records   map[string]*models.Disclosure
	createErr map[string]error
}

func newMemDisclosureStore() *memDisclosureStore {
	return &memDisclosureStore{records: map[string]*models.Disclosure{}}
}

func (s *memDisclosureStore) Exists(ctx context.Context, receiptNo string) (bool, error) {
	_, ok := s.records[receiptNo]
	return ok, nil
}

func (s *memDisclosureStore) Create(ctx context.Context, req *models.CreateDisclosureRequest) (*models.Disclosure, error) {
	if err, ok := s.createErr[req.ReceiptNo]; ok {
		return nil, err
	}
	d := &models.Disclosure{
		ReceiptNo:   req.ReceiptNo,
		CorpCode:    req.CorpCode,
		CorpName:    req.CorpName,
		ReportName:  req.ReportName,
		ReceiptDate: req.ReceiptDate,
	}
	s.records[req.ReceiptNo] = d
	return d, nil
}

type memStatementStore struct {
	units      map[string][]*models.CreateFinancialStatementItemRequest
	replaceErr map[string]error
}

func newMemStatementStore() *memStatementStore {
	return &memStatementStore{units: map[string][]*models.CreateFinancialStatementItemRequest{}}
}

func unitKey(u models.StatementUnit) string {
	return fmt.Sprintf("%s/%s/%s", u.CorpCode, u.BsnsYear, u.ReportCode)
}

func (s *memStatementStore) ReplaceUnit(ctx context.Context, unit models.StatementUnit, items []*models.CreateFinancialStatementItemRequest) (int64, int, error) {
	key := unitKey(unit)
	if err, ok := s.replaceErr[key]; ok {
		return 0, 0, err
	}
	deleted := int64(len(s.units[key]))
	s.units[key] = items
	return deleted, len(items), nil
}

func okProfile(corpCode, name string) *dart.CompanyProfileResponse {
	return &dart.CompanyProfileResponse{
		Status:   dart.StatusOK,
		CorpCode: corpCode,
		CorpName: name,
	}
}

func TestProfileSync_CreatesProfileFromDart(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{profiles: map[string]*dart.CompanyProfileResponse{
		"00123456": okProfile("00123456", "Acme Corp"),
	}}
	s := NewProfileSyncer(store, client, noopLogger())

	profile, result := s.Sync(context.Background(), "00123456")
	require.NotNil(t, profile)
	assert.True(t, result.OK())
	assert.Equal(t, "Acme Corp", profile.CorpName)
	assert.Equal(t, models.ProfileSourceDart, profile.Source)
}

func TestProfileSync_SecondCallReturnsExistingWithoutRefetch(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{profiles: map[string]*dart.CompanyProfileResponse{
		"00123456": okProfile("00123456", "Acme Corp"),
	}}
	s := NewProfileSyncer(store, client, noopLogger())

	first, _ := s.Sync(context.Background(), "00123456")
	require.NotNil(t, first)
	second, result := s.Sync(context.Background(), "00123456")
	require.NotNil(t, second)

	assert.Equal(t, first.CorpCode, second.CorpCode)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, client.profileCalls)
	assert.Equal(t, 1, store.upserts)
}

func TestProfileSync_FallsBackToPlaceholderOnLookupFailure(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{profileErr: errors.New("connection refused")}
	s := NewProfileSyncer(store, client, noopLogger())

	profile, result := s.Sync(context.Background(), "99999999")
	require.NotNil(t, profile)
	assert.True(t, result.OK())
	assert.True(t, profile.IsPlaceholder())
	assert.NotEmpty(t, profile.CorpName)
	assert.Equal(t, "99999999", profile.CorpCode)
}

func TestProfileSync_PlaceholderOnNonSuccessStatus(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{} // every lookup returns status 013
	s := NewProfileSyncer(store, client, noopLogger())

	profile, result := s.Sync(context.Background(), "00000001")
	require.NotNil(t, profile)
	assert.True(t, result.OK())
	assert.True(t, profile.IsPlaceholder())
}

func TestProfileSync_NilWhenStoreUnavailable(t *testing.T) {
	store := newMemProfileStore()
	store.getErr = errors.New("db down")
	s := NewProfileSyncer(store, &fakeDartClient{}, noopLogger())

	profile, result := s.Sync(context.Background(), "00123456")
	assert.Nil(t, profile)
	assert.Error(t, result.Err)
}

func TestProfileRefresh_PromotesPlaceholder(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{}
	s := NewProfileSyncer(store, client, noopLogger())

	profile, _ := s.Sync(context.Background(), "00123456")
	require.True(t, profile.IsPlaceholder())

	// DART now knows the company
	client.profiles = map[string]*dart.CompanyProfileResponse{
		"00123456": okProfile("00123456", "Acme Corp"),
	}

	refreshed, err := s.Refresh(context.Background(), "00123456")
	require.NoError(t, err)
	assert.Equal(t, models.ProfileSourceDart, refreshed.Source)
	assert.Equal(t, models.ProfileSourceDart, store.profiles["00123456"].Source)
	assert.Equal(t, "Acme Corp", store.profiles["00123456"].CorpName)
}

func TestProfileRefresh_FailedLookupKeepsExistingProfile(t *testing.T) {
	store := newMemProfileStore()
	client := &fakeDartClient{}
	s := NewProfileSyncer(store, client, noopLogger())

	profile, _ := s.Sync(context.Background(), "00123456")
	require.True(t, profile.IsPlaceholder())

	_, err := s.Refresh(context.Background(), "00123456")
	assert.Error(t, err)
	assert.Equal(t, models.ProfileSourcePlaceholder, store.profiles["00123456"].Source)
}

func disclosureItem(receiptNo, date string) dart.DisclosureItem {
	return dart.DisclosureItem{
		CorpCode:    "00123456",
		CorpName:    "Acme Corp",
		ReportName:  "Quarterly Report",
		ReceiptNo:   receiptNo,
		ReceiptDate: date,
	}
}

func TestDisclosureSync_InsertsUnseenItemsOnly(t *testing.T) {
	store := newMemDisclosureStore()
	store.records["R1"] = &models.Disclosure{ReceiptNo: "R1"}

	client := &fakeDartClient{disclosures: map[string]*dart.DisclosureSearchResponse{
		"00123456": {
			Status: dart.StatusOK,
			List:   []dart.DisclosureItem{disclosureItem("R1", "20260110"), disclosureItem("R2", "20260215")},
		},
	}}
	s := NewDisclosureSyncer(store, client, noopLogger())

	result := s.Sync(context.Background(), "00123456")
	assert.True(t, result.OK())
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, store.records, 2)
}

func TestDisclosureSync_SameItemTwiceStoresOnce(t *testing.T) {
	store := newMemDisclosureStore()
	client := &fakeDartClient{disclosures: map[string]*dart.DisclosureSearchResponse{
		"00123456": {
			Status: dart.StatusOK,
			List:   []dart.DisclosureItem{disclosureItem("R1", "20260110")},
		},
	}}
	s := NewDisclosureSyncer(store, client, noopLogger())

	first := s.Sync(context.Background(), "00123456")
	second := s.Sync(context.Background(), "00123456")

	assert.Equal(t, 1, first.Synced)
	assert.Equal(t, 0, second.Synced)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, store.records, 1)
}

func TestDisclosureSync_BadDateDoesNotAbortBatch(t *testing.T) {
	store := newMemDisclosureStore()
	client := &fakeDartClient{disclosures: map[string]*dart.DisclosureSearchResponse{
		"00123456": {
			Status: dart.StatusOK,
			List: []dart.DisclosureItem{
				disclosureItem("R1", "not-a-date"),
				disclosureItem("R2", "20260215"),
			},
		},
	}}
	s := NewDisclosureSyncer(store, client, noopLogger())

	result := s.Sync(context.Background(), "00123456")
	assert.True(t, result.OK())
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, store.records, 1)
	assert.Contains(t, store.records, "R2")
}

func TestDisclosureSync_FetchFailureIsContained(t *testing.T) {
	store := newMemDisclosureStore()
	client := &fakeDartClient{disclosureErr: errors.New("timeout")}
	s := NewDisclosureSyncer(store, client, noopLogger())

	result := s.Sync(context.Background(), "00123456")
	assert.Error(t, result.Err)
	assert.Empty(t, store.records)
}

func statementResponse(accounts ...string) *dart.FinancialStatementResponse {
	resp := &dart.FinancialStatementResponse{Status: dart.StatusOK}
	for _, acct := range accounts {
		resp.List = append(resp.List, dart.FinancialStatementItem{
			SjDiv:       "BS",
			AccountID:   acct,
			AccountName: acct,
		})
	}
	return resp
}

func TestFinancialSyncOne_ReplacesSnapshotWholesale(t *testing.T) {
	store := newMemStatementStore()
	unit := models.StatementUnit{CorpCode: "00123456", BsnsYear: "2025", ReportCode: models.ReportCodeAnnual}
	client := &fakeDartClient{statements: map[string]*dart.FinancialStatementResponse{
		"00123456/2025/11011": statementResponse("ifrs_Assets", "ifrs_Liabilities"),
	}}
	s := NewFinancialSyncer(store, client, noopLogger())

	first := s.SyncOne(context.Background(), unit)
	assert.Equal(t, 2, first.Synced)
	assert.Equal(t, int64(0), first.Deleted)

	// Second fetch returns different data; only its items must survive
	client.statements["00123456/2025/11011"] = statementResponse("ifrs_Equity")

	second := s.SyncOne(context.Background(), unit)
	assert.Equal(t, 1, second.Synced)
	assert.Equal(t, int64(2), second.Deleted)

	stored := store.units["00123456/2025/11011"]
	require.Len(t, stored, 1)
	assert.Equal(t, "ifrs_Equity", stored[0].AccountID)
}

func TestFinancialSyncOne_EmptyFetchClearsStaleData(t *testing.T) {
	store := newMemStatementStore()
	unit := models.StatementUnit{CorpCode: "00123456", BsnsYear: "2026", ReportCode: models.ReportCodeQ1}
	client := &fakeDartClient{statements: map[string]*dart.FinancialStatementResponse{
		"00123456/2026/11013": statementResponse("ifrs_Assets"),
	}}
	s := NewFinancialSyncer(store, client, noopLogger())

	s.SyncOne(context.Background(), unit)
	require.Len(t, store.units["00123456/2026/11013"], 1)

	delete(client.statements, "00123456/2026/11013") // now returns status 013

	result := s.SyncOne(context.Background(), unit)
	assert.True(t, result.OK())
	assert.Equal(t, int64(1), result.Deleted)
	assert.Empty(t, store.units["00123456/2026/11013"])
}

func TestFinancialSyncOne_FetchErrorClearsStaleData(t *testing.T) {
	store := newMemStatementStore()
	unit := models.StatementUnit{CorpCode: "00123456", BsnsYear: "2026", ReportCode: models.ReportCodeQ1}
	client := &fakeDartClient{statementErrs: map[string]error{
		"00123456/2026/11013": errors.New("connection reset"),
	}}
	s := NewFinancialSyncer(store, client, noopLogger())

	store.units["00123456/2026/11013"] = []*models.CreateFinancialStatementItemRequest{
		{SjDiv: "BS", AccountID: "ifrs_Assets"},
	}

	result := s.SyncOne(context.Background(), unit)
	assert.Error(t, result.Err)
	assert.Equal(t, int64(1), result.Deleted)
	assert.Empty(t, store.units["00123456/2026/11013"])
}

func TestFinancialSyncRecent_CoversFourUnits(t *testing.T) {
	store := newMemStatementStore()
	client := &fakeDartClient{}
	s := NewFinancialSyncer(store, client, noopLogger())
	s.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }

	s.SyncRecent(context.Background(), "00123456")

	assert.ElementsMatch(t, []string{
		"00123456/2025/11011",
		"00123456/2026/11014",
		"00123456/2026/11012",
		"00123456/2026/11013",
	}, client.statementCalls)
}

func TestFinancialSyncRecent_OneUnitFailureDoesNotStopOthers(t *testing.T) {
	store := newMemStatementStore()
	client := &fakeDartClient{
		statementErrs: map[string]error{
			"00123456/2026/11014": errors.New("boom"),
		},
		statements: map[string]*dart.FinancialStatementResponse{
			"00123456/2025/11011": statementResponse("ifrs_Assets"),
			"00123456/2026/11012": statementResponse("ifrs_Assets"),
			"00123456/2026/11013": statementResponse("ifrs_Assets"),
		},
	}
	s := NewFinancialSyncer(store, client, noopLogger())
	s.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }

	result := s.SyncRecent(context.Background(), "00123456")

	assert.Error(t, result.Err)
	assert.Equal(t, 3, result.Synced)
	assert.Len(t, client.statementCalls, 4)
}

type capturingPublisher struct {
	events []*kafka.CompanyEnrichedEvent
}

func (p *capturingPublisher) PublishEnriched(ctx context.Context, event *kafka.CompanyEnrichedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newTestOrchestrator(client *fakeDartClient) (*Orchestrator, *memProfileStore, *memDisclosureStore, *memStatementStore, *capturingPublisher) {
	logger := noopLogger()
	profileStore := newMemProfileStore()
	disclosureStore := newMemDisclosureStore()
	statementStore := newMemStatementStore()
	publisher := &capturingPublisher{}

	o := NewOrchestrator(
		NewProfileSyncer(profileStore, client, logger),
		NewDisclosureSyncer(disclosureStore, client, logger),
		NewFinancialSyncer(statementStore, client, logger),
		publisher,
		logger,
	)
	return o, profileStore, disclosureStore, statementStore, publisher
}

func partnerMessage(t *testing.T, payload string) *kafka.IncomingMessage {
	t.Helper()
	msg := &kafka.IncomingMessage{Value: []byte(payload)}
	require.NoError(t, msg.ParsePartnerEvent())
	return msg
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	client := &fakeDartClient{
		profiles: map[string]*dart.CompanyProfileResponse{
			"00123456": okProfile("00123456", "Acme Corp"),
		},
		disclosures: map[string]*dart.DisclosureSearchResponse{
			"00123456": {
				Status: dart.StatusOK,
				List:   []dart.DisclosureItem{disclosureItem("R1", "20260110"), disclosureItem("R2", "20260215")},
			},
		},
		statements: map[string]*dart.FinancialStatementResponse{},
	}
	o, profileStore, disclosureStore, statementStore, publisher := newTestOrchestrator(client)
	o.financials.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }

	for _, key := range []string{"00123456/2025/11011", "00123456/2026/11014", "00123456/2026/11012", "00123456/2026/11013"} {
		client.statements[key] = statementResponse("ifrs_Assets")
	}

	// One disclosure already on record
	disclosureStore.records["R1"] = &models.Disclosure{ReceiptNo: "R1"}

	msg := partnerMessage(t, `{"id": "P1", "corp_code": "00123456", "company_name": "Acme"}`)
	require.NoError(t, o.HandlePartnerEvent(context.Background(), msg))

	assert.Len(t, profileStore.profiles, 1)
	assert.Len(t, disclosureStore.records, 2)
	for _, key := range []string{"00123456/2025/11011", "00123456/2026/11014", "00123456/2026/11012", "00123456/2026/11013"} {
		assert.Len(t, statementStore.units[key], 1, key)
	}

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "P1", publisher.events[0].PartnerID)
	assert.Equal(t, "dart", publisher.events[0].ProfileSource)
	assert.Equal(t, 1, publisher.events[0].Disclosures)
}

func TestOrchestrator_NoCorpCodeSkipsEnrichment(t *testing.T) {
	client := &fakeDartClient{}
	o, profileStore, _, _, publisher := newTestOrchestrator(client)

	msg := partnerMessage(t, `{"id": "P2", "company_name": "No Code Inc"}`)
	require.NoError(t, o.HandlePartnerEvent(context.Background(), msg))

	assert.Empty(t, profileStore.profiles)
	assert.Zero(t, client.profileCalls)
	assert.Empty(t, publisher.events)
}

func TestOrchestrator_ProfileFailureSkipsDownstream(t *testing.T) {
	client := &fakeDartClient{}
	o, profileStore, _, statementStore, publisher := newTestOrchestrator(client)
	profileStore.getErr = errors.New("db down")

	msg := partnerMessage(t, `{"id": "P3", "corp_code": "00123456", "company_name": "Acme"}`)
	require.NoError(t, o.HandlePartnerEvent(context.Background(), msg))

	assert.Empty(t, statementStore.units)
	assert.Empty(t, client.statementCalls)
	assert.Empty(t, publisher.events)
}

func TestOrchestrator_DownstreamFailuresNeverSurface(t *testing.T) {
	client := &fakeDartClient{
		profiles: map[string]*dart.CompanyProfileResponse{
			"00123456": okProfile("00123456", "Acme Corp"),
		},
		disclosureErr: errors.New("timeout"),
		statementErrs: map[string]error{
			"00123456/2025/11011": errors.New("boom"),
			"00123456/2026/11014": errors.New("boom"),
			"00123456/2026/11012": errors.New("boom"),
			"00123456/2026/11013": errors.New("boom"),
		},
	}
	o, profileStore, _, _, _ := newTestOrchestrator(client)
	o.financials.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }

	msg := partnerMessage(t, `{"id": "P4", "corp_code": "00123456", "company_name": "Acme"}`)
	assert.NoError(t, o.HandlePartnerEvent(context.Background(), msg))
	assert.Len(t, profileStore.profiles, 1)
}
