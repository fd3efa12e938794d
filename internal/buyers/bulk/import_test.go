package bulk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/internal/events"
	"buyerleads_backend/platform/httpkit"

	"github.com/google/uuid"
)

// fakeBatchRepo records bulk inserts and simulates duplicate skipping by
// (owner, phone) pair.
type fakeBatchRepo struct {
	seen      map[string]bool
	inserted  []repository.BatchInsertParams
	batchErr  error
	listErr   error
	listRows  []repository.Buyer
	lastList  repository.ListParams
	listCalls int
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{seen: map[string]bool{}}
}

func (f *fakeBatchRepo) BatchInsert(_ context.Context, params []repository.BatchInsertParams) (int, error) {
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	inserted := 0
	for _, p := range params {
		key := p.OwnerID.String() + "|" + p.Phone
		if f.seen[key] {
			continue
		}
		f.seen[key] = true
		f.inserted = append(f.inserted, p)
		inserted++
	}
	return inserted, nil
}

func (f *fakeBatchRepo) List(_ context.Context, params repository.ListParams) ([]repository.Buyer, int, error) {
	f.listCalls++
	f.lastList = params
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listRows, len(f.listRows), nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestBulk(repo Repository) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return New(repo, bus, nil), bus
}

const importHeader = "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status"

func TestImport_InsertsValidRows(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, bus := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\n" +
		"Asha Verma,asha@example.com,+919876543210,Chandigarh,Apartment,Two,Buy,4000000,6000000,ZeroTo3m,Website,,hot;urgent,New\n" +
		"Rahul Gupta,,+919812345678,Mohali,Plot,,Buy,,,Exploring,Referral,,,\n"

	result := svc.Import(context.Background(), actor, csvText)

	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if result.TotalCount != 2 || result.SuccessCount != 2 {
		t.Fatalf("expected 2/2, got %d/%d", result.SuccessCount, result.TotalCount)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", len(repo.inserted))
	}
	first := repo.inserted[0]
	if first.OwnerID != actor.UserID() {
		t.Fatalf("expected rows owned by importer, got %s", first.OwnerID)
	}
	if first.Email == nil || *first.Email != "asha@example.com" {
		t.Fatalf("unexpected email: %v", first.Email)
	}
	second := repo.inserted[1]
	if second.Email != nil {
		t.Fatalf("expected empty email to stay nil, got %v", second.Email)
	}
	if second.Status != "New" {
		t.Fatalf("expected empty status to default to New, got %q", second.Status)
	}
	if second.BudgetMin != nil {
		t.Fatalf("expected empty budget to stay nil, got %v", second.BudgetMin)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	imported, ok := bus.published[0].(events.BuyersImported)
	if !ok {
		t.Fatalf("expected BuyersImported, got %T", bus.published[0])
	}
	if imported.InsertedCount != 2 || imported.TotalCount != 2 {
		t.Fatalf("unexpected event counts: %d/%d", imported.InsertedCount, imported.TotalCount)
	}
}

func TestImport_RequiresAuthentication(t *testing.T) {
	svc, _ := newTestBulk(newFakeBatchRepo())

	result := svc.Import(context.Background(), httpkit.Anonymous(), importHeader+"\nAsha,,123,,,,,,,,,,,\n")

	if len(result.Errors) != 1 || result.Errors[0].Row != 0 {
		t.Fatalf("expected one row-0 error, got %v", result.Errors)
	}
	if result.Errors[0].Messages[0] != "You must be logged in to import buyers." {
		t.Fatalf("unexpected message: %v", result.Errors[0].Messages)
	}
}

func TestImport_EmptyInputReported(t *testing.T) {
	svc, _ := newTestBulk(newFakeBatchRepo())
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	for _, csvText := range []string{"", "   ", importHeader} {
		result := svc.Import(context.Background(), actor, csvText)
		if len(result.Errors) != 1 || result.Errors[0].Messages[0] != "CSV file is empty or invalid." {
			t.Fatalf("input %q: expected empty-file error, got %v", csvText, result.Errors)
		}
		if result.TotalCount != 0 || result.SuccessCount != 0 {
			t.Fatalf("input %q: expected zero counts, got %d/%d", csvText, result.SuccessCount, result.TotalCount)
		}
	}
}

func TestImport_RowsMissingRequiredFieldsAreSilentlyDropped(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\n" +
		",,+919876543210,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\n" +
		"Asha Verma,,,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\n" +
		"Rahul Gupta,,+919812345678,Mohali,Plot,,Buy,,,Exploring,Referral,,,\n"

	result := svc.Import(context.Background(), actor, csvText)

	if len(result.Errors) != 0 {
		t.Fatalf("expected dropped rows to stay silent, got %v", result.Errors)
	}
	// Dropped rows still count toward the total.
	if result.TotalCount != 3 || result.SuccessCount != 1 {
		t.Fatalf("expected 1/3, got %d/%d", result.SuccessCount, result.TotalCount)
	}
}

func TestImport_AllRowsInvalidReported(t *testing.T) {
	svc, _ := newTestBulk(newFakeBatchRepo())
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\n,,,,,,,,,,,,,\n,,,,,,,,,,,,,\n"
	result := svc.Import(context.Background(), actor, csvText)

	if len(result.Errors) != 1 || result.Errors[0].Messages[0] != "No valid rows with fullName and phone found." {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.TotalCount != 2 {
		t.Fatalf("expected totalCount 2, got %d", result.TotalCount)
	}
}

func TestImport_ReimportSkipsDuplicates(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\nAsha Verma,,+919876543210,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\n"

	first := svc.Import(context.Background(), actor, csvText)
	if first.SuccessCount != 1 {
		t.Fatalf("expected first import to insert 1, got %d", first.SuccessCount)
	}

	second := svc.Import(context.Background(), actor, csvText)
	if second.SuccessCount != 0 {
		t.Fatalf("expected re-import to insert 0, got %d", second.SuccessCount)
	}
	if second.TotalCount != 1 {
		t.Fatalf("expected totalCount 1 on re-import, got %d", second.TotalCount)
	}
	if len(second.Errors) != 0 {
		t.Fatalf("expected duplicate skip to be silent, got %v", second.Errors)
	}
}

func TestImport_StorageFailureReportedAsFileError(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.batchErr = errors.New("constraint violated")
	svc, bus := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\nAsha Verma,,+919876543210,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\n"
	result := svc.Import(context.Background(), actor, csvText)

	if len(result.Errors) != 1 || result.Errors[0].Row != 0 {
		t.Fatalf("expected one row-0 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Messages[0], "import failed") {
		t.Fatalf("unexpected message: %v", result.Errors[0].Messages)
	}
	if result.SuccessCount != 0 || result.TotalCount != 1 {
		t.Fatalf("expected 0/1, got %d/%d", result.SuccessCount, result.TotalCount)
	}
	if len(bus.published) != 0 {
		t.Fatal("expected no event on failed import")
	}
}

func TestImport_CRLFInputHandled(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	csvText := importHeader + "\r\nAsha Verma,,+919876543210,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\r\n"
	result := svc.Import(context.Background(), actor, csvText)

	if result.SuccessCount != 1 || result.TotalCount != 1 {
		t.Fatalf("expected 1/1, got %d/%d", result.SuccessCount, result.TotalCount)
	}
}

func TestImport_ShortRowsPaddedWithEmptyValues(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	// Row stops after phone; remaining columns default to empty.
	csvText := importHeader + "\nAsha Verma,,+919876543210\n"
	result := svc.Import(context.Background(), actor, csvText)

	if result.SuccessCount != 1 {
		t.Fatalf("expected short row to import, got %d", result.SuccessCount)
	}
	if repo.inserted[0].City != "" {
		t.Fatalf("expected missing city to be empty, got %q", repo.inserted[0].City)
	}
	if repo.inserted[0].Status != "New" {
		t.Fatalf("expected default status, got %q", repo.inserted[0].Status)
	}
}

func TestImport_QuotedCommaMisalignsRow(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)
	actor := httpkit.NewIdentity(uuid.New(), "importer@example.com")

	// The parser does not honor quoting, so the quoted comma splits the name
	// and shifts every later column one position right. Phone lands on an
	// empty value and the row is dropped.
	csvText := importHeader + "\n\"Verma, Asha\",,+919876543210,Chandigarh,Apartment,,Buy,,,ZeroTo3m,Website,,,\n"
	result := svc.Import(context.Background(), actor, csvText)

	if result.SuccessCount != 0 {
		t.Fatalf("expected misaligned row to be dropped, got %d inserted", result.SuccessCount)
	}
	if result.TotalCount != 1 {
		t.Fatalf("expected totalCount 1, got %d", result.TotalCount)
	}
	if len(result.Errors) != 1 || result.Errors[0].Messages[0] != "No valid rows with fullName and phone found." {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}
