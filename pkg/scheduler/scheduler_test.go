package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/syncer"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// fakeClient serves canned profile responses; disclosure and statement
// lookups always come back empty
type fakeClient struct {
	profiles map[string]*dart.CompanyProfileResponse
}

func (f *fakeClient) GetCompanyProfile(ctx context.Context, corpCode string) (*dart.CompanyProfileResponse, error) {
	if resp, ok := f.profiles[corpCode]; ok {
		return resp, nil
	}
	return &dart.CompanyProfileResponse{Status: "013", Message: "no data"}, nil
}

func (f *fakeClient) SearchDisclosures(ctx context.Context, corpCode, startDate, endDate string) (*dart.DisclosureSearchResponse, error) {
	return &dart.DisclosureSearchResponse{Status: "013", Message: "no data"}, nil
}

func (f *fakeClient) GetFinancialStatement(ctx context.Context, corpCode, bsnsYear, reprtCode, fsDiv string) (*dart.FinancialStatementResponse, error) {
	return &dart.FinancialStatementResponse{Status: "013", Message: "no data"}, nil
}

type memProfiles struct {
	profiles map[string]*models.CompanyProfile
}

func (s *memProfiles) GetByCorpCode(ctx context.Context, corpCode string) (*models.CompanyProfile, error) {
	return s.profiles[corpCode], nil
}

func (s *memProfiles) Upsert(ctx context.Context, req *models.UpsertCompanyProfileRequest) (*models.CompanyProfile, error) {
	profile := &models.CompanyProfile{
		CorpCode: req.CorpCode,
		CorpName: req.CorpName,
		Source:   req.Source,
	}
	s.profiles[req.CorpCode] = profile
	return profile, nil
}

// placeholderCorpCodes lists placeholder corp codes in pages, mirroring the
// company-profile repository
func (s *memProfiles) placeholderCorpCodes() []string {
	var codes []string
	for code, profile := range s.profiles {
		if profile.Source == models.ProfileSourcePlaceholder {
			codes = append(codes, code)
		}
	}
	return codes
}

type fakeProfileLister struct {
	codes []string
	calls int
}

func (l *fakeProfileLister) ListCorpCodes(ctx context.Context, placeholderOnly bool, limit, offset int) ([]string, error) {
	l.calls++
	if offset >= len(l.codes) {
		return nil, nil
	}
	end := offset + limit
	if end > len(l.codes) {
		end = len(l.codes)
	}
	return l.codes[offset:end], nil
}

type fakePartnerLister struct {
	codes []string
}

func (l *fakePartnerLister) ListActiveCorpCodes(ctx context.Context, limit, offset int) ([]string, error) {
	if offset >= len(l.codes) {
		return nil, nil
	}
	end := offset + limit
	if end > len(l.codes) {
		end = len(l.codes)
	}
	return l.codes[offset:end], nil
}

type stubDisclosures struct{}

func (s *stubDisclosures) Exists(ctx context.Context, receiptNo string) (bool, error) {
	return false, nil
}

func (s *stubDisclosures) Create(ctx context.Context, req *models.CreateDisclosureRequest) (*models.Disclosure, error) {
	return nil, nil
}

type recordingStatements struct {
	replacedCorpCodes []string
}

func (s *recordingStatements) ReplaceUnit(ctx context.Context, unit models.StatementUnit, items []*models.CreateFinancialStatementItemRequest) (int64, int, error) {
	s.replacedCorpCodes = append(s.replacedCorpCodes, unit.CorpCode)
	return 0, len(items), nil
}

func newTestScheduler(profiles *memProfiles, profileLister ProfileLister, partnerLister CorpCodeLister, client dart.Client, statements *recordingStatements, config Config) *Scheduler {
	logger := noopLogger()
	return NewScheduler(
		partnerLister,
		profileLister,
		syncer.NewProfileSyncer(profiles, client, logger),
		syncer.NewDisclosureSyncer(&stubDisclosures{}, client, logger),
		syncer.NewFinancialSyncer(statements, client, logger),
		nil,
		config,
		logger,
	)
}

func TestRefreshAll_RetriesPlaceholderProfiles(t *testing.T) {
	profiles := &memProfiles{profiles: map[string]*models.CompanyProfile{
		// Placeholder with no active partner: only the sweep can reach it.
		"00111111": {CorpCode: "00111111", CorpName: "Unknown Company (00111111)", Source: models.ProfileSourcePlaceholder},
		"00222222": {CorpCode: "00222222", CorpName: "Acme Corp", Source: models.ProfileSourceDart},
		"00333333": {CorpCode: "00333333", CorpName: "Unknown Company (00333333)", Source: models.ProfileSourcePlaceholder},
	}}
	client := &fakeClient{profiles: map[string]*dart.CompanyProfileResponse{
		"00111111": {Status: dart.StatusOK, CorpCode: "00111111", CorpName: "Hidden Gem Inc"},
	}}
	statements := &recordingStatements{}
	profileLister := &fakeProfileLister{codes: profiles.placeholderCorpCodes()}
	partnerLister := &fakePartnerLister{codes: []string{"00222222"}}

	s := newTestScheduler(profiles, profileLister, partnerLister, client, statements, Config{BatchSize: 1})

	require.NoError(t, s.refreshAll(context.Background(), make(chan struct{})))

	// The orphaned placeholder was promoted; the one DART still does not
	// know stayed a placeholder.
	assert.Equal(t, models.ProfileSourceDart, profiles.profiles["00111111"].Source)
	assert.Equal(t, "Hidden Gem Inc", profiles.profiles["00111111"].CorpName)
	assert.Equal(t, models.ProfileSourcePlaceholder, profiles.profiles["00333333"].Source)

	// Financial refresh covered only active partner corp codes.
	for _, corpCode := range statements.replacedCorpCodes {
		assert.Equal(t, "00222222", corpCode)
	}
	assert.NotEmpty(t, statements.replacedCorpCodes)
}

func TestRefreshAll_PagesPlaceholderListing(t *testing.T) {
	profiles := &memProfiles{profiles: map[string]*models.CompanyProfile{}}
	codes := []string{"00111111", "00222222", "00333333"}
	for _, code := range codes {
		profiles.profiles[code] = &models.CompanyProfile{CorpCode: code, Source: models.ProfileSourcePlaceholder}
	}
	client := &fakeClient{profiles: map[string]*dart.CompanyProfileResponse{
		"00111111": {Status: dart.StatusOK, CorpCode: "00111111", CorpName: "One"},
		"00222222": {Status: dart.StatusOK, CorpCode: "00222222", CorpName: "Two"},
		"00333333": {Status: dart.StatusOK, CorpCode: "00333333", CorpName: "Three"},
	}}
	profileLister := &fakeProfileLister{codes: codes}

	s := newTestScheduler(profiles, profileLister, &fakePartnerLister{}, client, &recordingStatements{}, Config{BatchSize: 2})

	require.NoError(t, s.refreshAll(context.Background(), make(chan struct{})))

	for _, code := range codes {
		assert.Equal(t, models.ProfileSourceDart, profiles.profiles[code].Source, code)
	}
	assert.GreaterOrEqual(t, profileLister.calls, 2)
}

func TestScheduler_RestartAfterStop(t *testing.T) {
	profiles := &memProfiles{profiles: map[string]*models.CompanyProfile{}}
	s := newTestScheduler(profiles, &fakeProfileLister{}, &fakePartnerLister{}, &fakeClient{}, &recordingStatements{}, Config{Interval: time.Hour})

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.Error(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
}
