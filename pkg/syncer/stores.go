package syncer

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
)

// ProfileStore is the persistence surface the profile synchronizer needs
type ProfileStore interface {
	GetByCorpCode(ctx context.Context, corpCode string) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, req *models.UpsertCompanyProfileRequest) (*models.CompanyProfile, error)
}

// DisclosureStore is the persistence surface the disclosure synchronizer needs
type DisclosureStore interface {
	Exists(ctx context.Context, receiptNo string) (bool, error)
	Create(ctx context.Context, req *models.CreateDisclosureRequest) (*models.Disclosure, error)
}

// StatementStore is the persistence surface the financial synchronizer needs.
// ReplaceUnit deletes every existing line item for the unit and inserts the
// given items in the same transaction, returning the deleted and inserted
// counts.
type StatementStore interface {
	ReplaceUnit(ctx context.Context, unit models.StatementUnit, items []*models.CreateFinancialStatementItemRequest) (int64, int, error)
}
