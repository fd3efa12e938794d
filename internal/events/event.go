// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"buyerleads_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Buyers Domain Events
// =============================================================================

// BuyerCreated is published when a new buyer record is created.
type BuyerCreated struct {
	BaseEvent
	BuyerID uuid.UUID `json:"buyerId"`
	OwnerID uuid.UUID `json:"ownerId"`
	Phone   string    `json:"phone"`
}

func (e BuyerCreated) EventName() string { return "buyers.created" }

// BuyerUpdated is published when an existing buyer record is mutated.
type BuyerUpdated struct {
	BaseEvent
	BuyerID uuid.UUID `json:"buyerId"`
	OwnerID uuid.UUID `json:"ownerId"`
}

func (e BuyerUpdated) EventName() string { return "buyers.updated" }

// BuyersImported is published after a bulk CSV import inserted at least one row.
type BuyersImported struct {
	BaseEvent
	OwnerID       uuid.UUID `json:"ownerId"`
	InsertedCount int       `json:"insertedCount"`
	TotalCount    int       `json:"totalCount"`
}

func (e BuyersImported) EventName() string { return "buyers.imported" }
