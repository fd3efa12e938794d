package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/platform/apperr"
	"buyerleads_backend/platform/httpkit"

	"github.com/google/uuid"
)

func exportFixture() repository.Buyer {
	email := "asha@example.com"
	bhk := "Two"
	budgetMin := int64(4000000)
	budgetMax := int64(6000000)
	notes := "prefers corner plots, near park"
	return repository.Buyer{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		FullName:     "Asha Verma",
		Phone:        "+919876543210",
		Email:        &email,
		City:         "Chandigarh",
		PropertyType: "Apartment",
		Purpose:      "Buy",
		Timeline:     "ZeroTo3m",
		Source:       "Website",
		Status:       "New",
		BHK:          &bhk,
		BudgetMin:    &budgetMin,
		BudgetMax:    &budgetMax,
		Notes:        &notes,
		Tags:         []string{"hot", "urgent"},
	}
}

func TestExport_RequiresAuthentication(t *testing.T) {
	svc, _ := newTestBulk(newFakeBatchRepo())

	_, err := svc.Export(context.Background(), httpkit.Anonymous(), repository.ListParams{})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestExport_HeaderAndRowOrder(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.listRows = []repository.Buyer{exportFixture()}
	svc, _ := newTestBulk(repo)

	out, err := svc.Export(context.Background(), httpkit.NewIdentity(uuid.New(), "asha@example.com"), repository.ListParams{})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}

	wantHeader := "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Fatalf("unexpected header order:\n got %s\nwant %s", got, wantHeader)
	}

	row := records[1]
	if row[0] != "Asha Verma" || row[2] != "+919876543210" {
		t.Fatalf("unexpected identity columns: %v", row)
	}
	if row[7] != "4000000" || row[8] != "6000000" {
		t.Fatalf("unexpected budget columns: %v", row)
	}
	if row[12] != "hot,urgent" {
		t.Fatalf("expected tags joined by comma, got %q", row[12])
	}
}

func TestExport_QuotesFieldsContainingCommas(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.listRows = []repository.Buyer{exportFixture()}
	svc, _ := newTestBulk(repo)

	out, err := svc.Export(context.Background(), httpkit.NewIdentity(uuid.New(), "asha@example.com"), repository.ListParams{})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	// Raw output must quote the notes field so a conformant reader round-trips it.
	if !strings.Contains(string(out), "\"prefers corner plots, near park\"") {
		t.Fatalf("expected quoted notes in raw output:\n%s", out)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if records[1][11] != "prefers corner plots, near park" {
		t.Fatalf("expected notes to round-trip, got %q", records[1][11])
	}
}

func TestExport_NilOptionalsRenderEmpty(t *testing.T) {
	repo := newFakeBatchRepo()
	b := exportFixture()
	b.Email = nil
	b.BHK = nil
	b.BudgetMin = nil
	b.BudgetMax = nil
	b.Notes = nil
	b.Tags = nil
	repo.listRows = []repository.Buyer{b}
	svc, _ := newTestBulk(repo)

	out, err := svc.Export(context.Background(), httpkit.NewIdentity(uuid.New(), "asha@example.com"), repository.ListParams{})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	row := records[1]
	for _, idx := range []int{1, 5, 7, 8, 11, 12} {
		if row[idx] != "" {
			t.Fatalf("expected empty column %d, got %q", idx, row[idx])
		}
	}
}

func TestExport_IgnoresCallerPagination(t *testing.T) {
	repo := newFakeBatchRepo()
	svc, _ := newTestBulk(repo)

	_, err := svc.Export(context.Background(), httpkit.NewIdentity(uuid.New(), "asha@example.com"), repository.ListParams{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.lastList.Limit != 0 || repo.lastList.Offset != 0 {
		t.Fatalf("expected pagination reset, got limit=%d offset=%d", repo.lastList.Limit, repo.lastList.Offset)
	}
}

func TestExport_StorageFailurePropagates(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.listErr = errors.New("connection reset")
	svc, _ := newTestBulk(repo)

	_, err := svc.Export(context.Background(), httpkit.NewIdentity(uuid.New(), "asha@example.com"), repository.ListParams{})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
