// Package bulk implements the CSV import and export pipelines for buyer
// records.
package bulk

import (
	"context"
	"strconv"
	"strings"

	"buyerleads_backend/internal/buyers/domain"
	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/internal/buyers/transport"
	"buyerleads_backend/internal/events"
	"buyerleads_backend/platform/httpkit"
	"buyerleads_backend/platform/logger"
	"buyerleads_backend/platform/phone"
	"buyerleads_backend/platform/sanitize"
)

// Repository is the data access slice needed by the bulk pipelines.
type Repository interface {
	repository.BuyerBatchWriter
	repository.BuyerLister
}

// Service runs bulk CSV imports and exports.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a bulk pipeline service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Import parses csvText, maps each row to a candidate record owned by the
// acting identity, silently drops rows missing fullName or phone, and batch
// inserts the rest with duplicate rows skipped. The result always reports
// totalCount = parsed data rows and successCount = rows actually inserted.
func (s *Service) Import(ctx context.Context, identity httpkit.Identity, csvText string) transport.ImportResult {
	if identity == nil || !identity.IsAuthenticated() {
		return fileError("You must be logged in to import buyers.", 0)
	}
	ownerID := identity.UserID()

	rows := parseCSV(csvText)
	totalCount := len(rows)
	if totalCount == 0 {
		return fileError("CSV file is empty or invalid.", 0)
	}

	candidates := make([]repository.BatchInsertParams, 0, totalCount)
	for _, row := range rows {
		// Rows without the required identity fields are excluded from the
		// insert set but still count toward totalCount.
		if row["fullName"] == "" || row["phone"] == "" {
			continue
		}
		candidates = append(candidates, repository.BatchInsertParams{
			OwnerID:     ownerID,
			BuyerParams: candidateParams(row),
		})
	}

	if len(candidates) == 0 {
		return fileError("No valid rows with fullName and phone found.", totalCount)
	}

	inserted, err := s.repo.BatchInsert(ctx, candidates)
	if err != nil {
		if s.log != nil {
			s.log.DatabaseError("buyers.import", err)
		}
		return transport.ImportResult{
			Errors:       []transport.RowError{{Row: 0, Messages: []string{"import failed: " + err.Error()}}},
			SuccessCount: 0,
			TotalCount:   totalCount,
		}
	}

	if inserted > 0 {
		s.bus.Publish(ctx, events.BuyersImported{
			BaseEvent:     events.NewBaseEvent(),
			OwnerID:       ownerID,
			InsertedCount: inserted,
			TotalCount:    totalCount,
		})
	}
	if s.log != nil {
		s.log.ImportCompleted(ownerID.String(), totalCount, inserted)
	}

	return transport.ImportResult{
		Errors:       []transport.RowError{},
		SuccessCount: inserted,
		TotalCount:   totalCount,
	}
}

// parseCSV splits comma-delimited text into string maps keyed by the header
// row. Fields are matched positionally and trimmed. Quoting is deliberately
// not supported on the import side; fields containing commas misalign.
func parseCSV(csvText string) []map[string]string {
	text := strings.ReplaceAll(strings.TrimSpace(csvText), "\r", "")
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil
	}

	header := strings.Split(lines[0], ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(values) {
				row[key] = strings.TrimSpace(values[i])
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// candidateParams maps a CSV row leniently: numeric junk becomes null, not a
// row failure. Enum membership is left to the storage constraints at this
// stage.
func candidateParams(row map[string]string) repository.BuyerParams {
	params := repository.BuyerParams{
		FullName:     row["fullName"],
		Phone:        phone.NormalizeE164(row["phone"]),
		City:         row["city"],
		PropertyType: row["propertyType"],
		Purpose:      row["purpose"],
		Timeline:     row["timeline"],
		Source:       row["source"],
		Status:       row["status"],
		BudgetMin:    lenientInt(row["budgetMin"]),
		BudgetMax:    lenientInt(row["budgetMax"]),
		Tags:         domain.SplitTags(row["tags"]),
	}

	if params.Status == "" {
		params.Status = string(domain.DefaultStatus)
	}
	if email := row["email"]; email != "" {
		params.Email = &email
	}
	if bhk := row["bhk"]; bhk != "" {
		params.BHK = &bhk
	}
	if notes := row["notes"]; notes != "" {
		params.Notes = sanitize.TextPtr(&notes)
	}

	return params
}

func lenientInt(raw string) *int64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

func fileError(message string, totalCount int) transport.ImportResult {
	return transport.ImportResult{
		Errors:       []transport.RowError{{Row: 0, Messages: []string{message}}},
		SuccessCount: 0,
		TotalCount:   totalCount,
	}
}
