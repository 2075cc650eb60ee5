package syncer

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// EnrichedPublisher publishes the company-enriched event after a pipeline run
type EnrichedPublisher interface {
	PublishEnriched(ctx context.Context, event *kafka.CompanyEnrichedEvent) error
}

// Orchestrator sequences the three synchronizers for one partner-registration
// event. It always consumes the event: enrichment failures are contained and
// logged, never surfaced as handler errors, so the broker never redelivers on
// a bad registry response.
type Orchestrator struct {
	profiles    *ProfileSyncer
	disclosures *DisclosureSyncer
	financials  *FinancialSyncer
	publisher   EnrichedPublisher
	logger      ectologger.Logger
}

// NewOrchestrator creates a new sync orchestrator. The publisher may be nil
// when no enriched-event topic is configured.
func NewOrchestrator(profiles *ProfileSyncer, disclosures *DisclosureSyncer, financials *FinancialSyncer, publisher EnrichedPublisher, logger ectologger.Logger) *Orchestrator {
	return &Orchestrator{
		profiles:    profiles,
		disclosures: disclosures,
		financials:  financials,
		publisher:   publisher,
		logger:      logger,
	}
}

// HandlePartnerEvent runs the enrichment pipeline for one registration event.
// Always returns nil.
func (o *Orchestrator) HandlePartnerEvent(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "syncer.Orchestrator.HandlePartnerEvent")
	defer span.End()

	event := msg.PartnerEvent
	log := o.logger.WithContext(ctx).WithFields(map[string]any{
		"partner_id":   event.ID,
		"company_name": event.CompanyName,
	})

	if !event.HasCorpCode() {
		log.Info("Partner has no corp code, skipping enrichment")
		metrics.EventsConsumedTotal.WithLabelValues("no_corp_code").Inc()
		return nil
	}

	start := time.Now()
	profile, disclosures, financials := o.Enrich(ctx, event.CorpCode)
	metrics.SyncDuration.Observe(time.Since(start).Seconds())

	if profile == nil {
		log.Info("Enrichment skipped, no profile available")
		metrics.EventsConsumedTotal.WithLabelValues("profile_failed").Inc()
		return nil
	}

	metrics.EventsConsumedTotal.WithLabelValues("enriched").Inc()
	log.WithFields(map[string]any{
		"corp_code":          event.CorpCode,
		"profile_source":     string(profile.Source),
		"disclosures_synced": disclosures.Synced,
		"statements_synced":  financials.Synced,
	}).Info("Partner enrichment complete")

	if o.publisher != nil {
		err := o.publisher.PublishEnriched(ctx, &kafka.CompanyEnrichedEvent{
			PartnerID:     event.ID,
			CorpCode:      event.CorpCode,
			ProfileSource: string(profile.Source),
			Disclosures:   disclosures.Synced,
			Statements:    financials.Synced,
		})
		if err != nil {
			log.WithError(err).Error("Failed to publish enriched event")
		}
	}

	return nil
}

// Enrich runs profile, disclosure, and financial synchronization for a corp
// code in strict sequence. A nil profile means the profile step failed and
// the downstream steps were skipped.
func (o *Orchestrator) Enrich(ctx context.Context, corpCode string) (*models.CompanyProfile, StepResult, StepResult) {
	profile, profileResult := o.profiles.Sync(ctx, corpCode)
	o.recordStep(profileResult)
	if profile == nil {
		return nil, StepResult{Step: StepDisclosure}, StepResult{Step: StepFinancial}
	}

	disclosureResult := o.disclosures.Sync(ctx, corpCode)
	o.recordStep(disclosureResult)

	financialResult := o.financials.SyncRecent(ctx, corpCode)
	o.recordStep(financialResult)

	return profile, disclosureResult, financialResult
}

func (o *Orchestrator) recordStep(result StepResult) {
	metrics.SyncStepsTotal.WithLabelValues(result.Step, result.Status()).Inc()
}
