package cache

import (
	"context"
	"testing"
	"time"

	"buyerleads_backend/internal/buyers/transport"
	"buyerleads_backend/internal/events"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*BuyerCache, *events.InMemoryBus) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := New(client, time.Minute, nil)
	bus := events.NewInMemoryBus(nil)
	c.SubscribeInvalidation(bus)
	return c, bus
}

func sampleRecord() transport.BuyerResponse {
	return transport.BuyerResponse{
		ID:       uuid.New(),
		FullName: "Asha Verma",
		Phone:    "+919876543210",
		City:     "Chandigarh",
		Status:   "New",
		Tags:     []string{"hot"},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	record := sampleRecord()

	if _, ok := c.GetRecord(ctx, record.ID); ok {
		t.Fatal("expected miss before set")
	}

	c.SetRecord(ctx, record)

	got, ok := c.GetRecord(ctx, record.ID)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got.ID != record.ID || got.FullName != record.FullName {
		t.Fatalf("unexpected cached record: %+v", got)
	}
}

func TestListRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	list := transport.BuyerListResponse{
		Items:      []transport.BuyerResponse{sampleRecord()},
		Total:      1,
		Page:       1,
		PageSize:   10,
		TotalPages: 1,
	}

	if _, ok := c.GetList(ctx, "status=New"); ok {
		t.Fatal("expected miss before set")
	}

	c.SetList(ctx, "status=New", list)

	got, ok := c.GetList(ctx, "status=New")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got.Total != 1 || len(got.Items) != 1 {
		t.Fatalf("unexpected cached list: %+v", got)
	}
}

func TestBuyerCreatedOrphansListViews(t *testing.T) {
	c, bus := newTestCache(t)
	ctx := context.Background()

	c.SetList(ctx, "page=1", transport.BuyerListResponse{Total: 1})
	if _, ok := c.GetList(ctx, "page=1"); !ok {
		t.Fatal("expected hit before invalidation")
	}

	if err := bus.PublishSync(ctx, events.BuyerCreated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   uuid.New(),
		OwnerID:   uuid.New(),
		Phone:     "+919876543210",
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if _, ok := c.GetList(ctx, "page=1"); ok {
		t.Fatal("expected list view to be invalidated after create")
	}
}

func TestBuyersImportedOrphansListViews(t *testing.T) {
	c, bus := newTestCache(t)
	ctx := context.Background()

	c.SetList(ctx, "page=1", transport.BuyerListResponse{Total: 1})

	if err := bus.PublishSync(ctx, events.BuyersImported{
		BaseEvent:     events.NewBaseEvent(),
		OwnerID:       uuid.New(),
		InsertedCount: 3,
		TotalCount:    5,
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if _, ok := c.GetList(ctx, "page=1"); ok {
		t.Fatal("expected list view to be invalidated after import")
	}
}

func TestBuyerUpdatedDropsRecordAndListViews(t *testing.T) {
	c, bus := newTestCache(t)
	ctx := context.Background()
	record := sampleRecord()

	c.SetRecord(ctx, record)
	c.SetList(ctx, "page=1", transport.BuyerListResponse{Total: 1})

	if err := bus.PublishSync(ctx, events.BuyerUpdated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   record.ID,
		OwnerID:   uuid.New(),
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if _, ok := c.GetRecord(ctx, record.ID); ok {
		t.Fatal("expected record entry to be dropped after update")
	}
	if _, ok := c.GetList(ctx, "page=1"); ok {
		t.Fatal("expected list view to be invalidated after update")
	}
}

func TestUpdateOfOneRecordKeepsOtherRecordEntries(t *testing.T) {
	c, bus := newTestCache(t)
	ctx := context.Background()
	kept := sampleRecord()
	updated := sampleRecord()

	c.SetRecord(ctx, kept)
	c.SetRecord(ctx, updated)

	if err := bus.PublishSync(ctx, events.BuyerUpdated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   updated.ID,
		OwnerID:   uuid.New(),
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if _, ok := c.GetRecord(ctx, kept.ID); !ok {
		t.Fatal("expected unrelated record entry to survive")
	}
}
