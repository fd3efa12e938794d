package repository

import (
	"context"

	"github.com/google/uuid"
)

// Consumer-driven interfaces. Services depend on the slice they need, which
// keeps fakes small in tests.

// BuyerReader loads single records.
type BuyerReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Buyer, error)
}

// BuyerWriter mutates single records.
type BuyerWriter interface {
	Create(ctx context.Context, ownerID uuid.UUID, params BuyerParams) (Buyer, error)
	Update(ctx context.Context, id uuid.UUID, params BuyerParams) (Buyer, error)
}

// BuyerBatchWriter inserts candidate rows in bulk, skipping duplicates.
type BuyerBatchWriter interface {
	BatchInsert(ctx context.Context, params []BatchInsertParams) (int, error)
}

// BuyerLister queries filtered, sorted, paginated record sets.
type BuyerLister interface {
	List(ctx context.Context, params ListParams) ([]Buyer, int, error)
}
