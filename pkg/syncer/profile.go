package syncer

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/dart"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ProfileSyncer materializes company profiles from DART lookups. Profiles
// already on record are returned unchanged; lookups that fail produce a
// persisted placeholder so downstream steps still have a valid owning record.
type ProfileSyncer struct {
	store  ProfileStore
	client dart.Client
	logger ectologger.Logger
}

// NewProfileSyncer creates a new profile synchronizer
func NewProfileSyncer(store ProfileStore, client dart.Client, logger ectologger.Logger) *ProfileSyncer {
	return &ProfileSyncer{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Sync returns the profile for a corp code, creating it if necessary. A nil
// profile with a non-nil result error means even the placeholder could not be
// persisted; callers skip downstream steps in that case.
func (s *ProfileSyncer) Sync(ctx context.Context, corpCode string) (*models.CompanyProfile, StepResult) {
	ctx, span := tracing.StartSpan(ctx, "syncer.ProfileSyncer.Sync")
	defer span.End()

	result := StepResult{Step: StepProfile}
	log := s.logger.WithContext(ctx).WithFields(map[string]any{"corp_code": corpCode})

	existing, err := s.store.GetByCorpCode(ctx, corpCode)
	if err != nil {
		result.Err = fmt.Errorf("failed to look up existing profile: %w", err)
		log.WithError(result.Err).Error("Profile sync failed")
		return nil, result
	}
	if existing != nil {
		// Profiles are not re-fetched once present; the periodic refresh
		// retries placeholders.
		result.Skipped = 1
		return existing, result
	}

	profile, err := s.fetchAndUpsert(ctx, corpCode)
	if err == nil {
		result.Synced = 1
		return profile, result
	}

	log.WithError(err).Warn("DART profile lookup failed, creating placeholder")

	placeholder, perr := s.store.Upsert(ctx, &models.UpsertCompanyProfileRequest{
		CorpCode: corpCode,
		CorpName: placeholderName(corpCode),
		Source:   models.ProfileSourcePlaceholder,
	})
	if perr != nil {
		result.Err = fmt.Errorf("failed to persist placeholder profile: %w", perr)
		log.WithError(result.Err).Error("Profile sync failed")
		return nil, result
	}

	result.Synced = 1
	return placeholder, result
}

// Refresh re-runs the DART lookup for a corp code and upserts the result,
// overwriting placeholders. Used by the periodic refresh, not the event path.
func (s *ProfileSyncer) Refresh(ctx context.Context, corpCode string) (*models.CompanyProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "syncer.ProfileSyncer.Refresh")
	defer span.End()

	return s.fetchAndUpsert(ctx, corpCode)
}

func (s *ProfileSyncer) fetchAndUpsert(ctx context.Context, corpCode string) (*models.CompanyProfile, error) {
	resp, err := s.client.GetCompanyProfile(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile from DART: %w", err)
	}
	if !resp.IsOK() {
		return nil, fmt.Errorf("DART profile lookup returned status %s: %s", resp.Status, resp.Message)
	}
	if resp.CorpName == "" {
		return nil, fmt.Errorf("DART profile lookup returned no company name")
	}

	return s.store.Upsert(ctx, profileRequestFromDart(corpCode, resp))
}

func profileRequestFromDart(corpCode string, resp *dart.CompanyProfileResponse) *models.UpsertCompanyProfileRequest {
	return &models.UpsertCompanyProfileRequest{
		CorpCode:          corpCode,
		CorpName:          resp.CorpName,
		CorpNameEng:       optional(resp.CorpNameEng),
		StockCode:         optional(resp.StockCode),
		CEOName:           optional(resp.CEOName),
		CorpClass:         optional(resp.CorpClass),
		BusinessNumber:    optional(resp.BusinessNumber),
		CorpRegNumber:     optional(resp.CorpRegNumber),
		Address:           optional(resp.Address),
		HomepageURL:       optional(resp.HomepageURL),
		IRURL:             optional(resp.IRURL),
		PhoneNumber:       optional(resp.PhoneNumber),
		FaxNumber:         optional(resp.FaxNumber),
		Industry:          optional(resp.IndustryCode),
		EstablishmentDate: optional(resp.EstablishmentDate),
		AccountingMonth:   optional(resp.AccountingMonth),
		Source:            models.ProfileSourceDart,
	}
}

func placeholderName(corpCode string) string {
	return fmt.Sprintf("Unknown Company (%s)", corpCode)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
