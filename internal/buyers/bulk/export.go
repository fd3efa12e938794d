package bulk

import (
	"bytes"
	"context"
	"strconv"

	"buyerleads_backend/internal/buyers/domain"
	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/platform/apperr"
	"buyerleads_backend/platform/httpkit"

	"encoding/csv"
)

// exportHeader is the fixed, ordered column set of the CSV export.
var exportHeader = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// Export serializes every record matching the filter, in the requested
// order, to CSV text. Any authenticated identity may export; the result is
// not scoped by ownership. The writer is RFC 4180 conformant, so notes
// containing commas are quoted even though the import side will not parse
// them back.
func (s *Service) Export(ctx context.Context, identity httpkit.Identity, params repository.ListParams) ([]byte, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return nil, apperr.Unauthorized("you must be signed in to export buyers")
	}

	// Exports ignore pagination and return the full matching set.
	params.Limit = 0
	params.Offset = 0

	buyers, _, err := s.repo.List(ctx, params)
	if err != nil {
		if s.log != nil {
			s.log.DatabaseError("buyers.export", err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "unexpected storage error", err).WithOp("buyers.export")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
	}
	for _, b := range buyers {
		if err := writer.Write(exportRow(b)); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
	}

	return buf.Bytes(), nil
}

func exportRow(b repository.Buyer) []string {
	return []string{
		b.FullName,
		derefString(b.Email),
		b.Phone,
		b.City,
		b.PropertyType,
		derefString(b.BHK),
		b.Purpose,
		derefInt(b.BudgetMin),
		derefInt(b.BudgetMax),
		b.Timeline,
		b.Source,
		derefString(b.Notes),
		domain.JoinTags(b.Tags),
		b.Status,
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}
