// Package schema turns untyped string-keyed field maps into fully-typed,
// normalized buyer inputs. Validation is all-or-nothing per record: the
// caller either gets a complete input or a map of field-level errors, never
// a partially accepted record.
package schema

import (
	"fmt"
	"strconv"
	"time"

	"buyerleads_backend/internal/buyers/domain"
	"buyerleads_backend/platform/validator"
)

// Field names used in inputs and error maps.
const (
	FieldFullName     = "fullName"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldCity         = "city"
	FieldPropertyType = "propertyType"
	FieldPurpose      = "purpose"
	FieldTimeline     = "timeline"
	FieldSource       = "source"
	FieldStatus       = "status"
	FieldBHK          = "bhk"
	FieldBudgetMin    = "budgetMin"
	FieldBudgetMax    = "budgetMax"
	FieldNotes        = "notes"
	FieldTags         = "tags"
	FieldUpdatedAt    = "updatedAt"
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

// HasErrors reports whether any field failed validation.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Messages flattens the error map into a deterministic-enough message list
// for coarse reporting paths (e.g. import row errors).
func (fe FieldErrors) Messages() []string {
	messages := make([]string, 0, len(fe))
	for field, msgs := range fe {
		for _, msg := range msgs {
			messages = append(messages, field+": "+msg)
		}
	}
	return messages
}

// Input is the fully-typed, normalized buyer payload produced by a
// successful parse.
type Input struct {
	FullName     string
	Phone        string
	Email        *string
	City         domain.City
	PropertyType domain.PropertyType
	Purpose      domain.Purpose
	Timeline     domain.Timeline
	Source       domain.Source
	Status       domain.Status
	BHK          *domain.BHK
	BudgetMin    *int64
	BudgetMax    *int64
	Notes        *string
	Tags         []string
}

// UpdateInput extends Input with the record timestamp the caller last saw,
// declared for optimistic-concurrency comparison.
type UpdateInput struct {
	Input
	UpdatedAt time.Time
}

// Schema validates raw string-valued field maps against the buyer record
// shape. Construct once and share; it is safe for concurrent use.
type Schema struct {
	val *validator.Validator
}

// New creates a buyer schema backed by the shared validator.
func New(val *validator.Validator) *Schema {
	return &Schema{val: val}
}

// ParseCreate validates fields for record creation. Trimming is the caller's
// responsibility; this layer enforces length, format and enum membership.
func (s *Schema) ParseCreate(fields map[string]string) (Input, FieldErrors) {
	return s.parse(fields)
}

// ParseUpdate validates fields for record update. In addition to the create
// rules it requires a parseable RFC 3339 updatedAt timestamp.
func (s *Schema) ParseUpdate(fields map[string]string) (UpdateInput, FieldErrors) {
	input, errs := s.parse(fields)
	if errs == nil {
		errs = FieldErrors{}
	}

	var updatedAt time.Time
	raw, ok := fields[FieldUpdatedAt]
	if !ok || raw == "" {
		errs.add(FieldUpdatedAt, "updatedAt timestamp is required.")
	} else {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs.add(FieldUpdatedAt, "Invalid updatedAt timestamp.")
		} else {
			updatedAt = parsed
		}
	}

	if errs.HasErrors() {
		return UpdateInput{}, errs
	}
	return UpdateInput{Input: input, UpdatedAt: updatedAt}, nil
}

func (s *Schema) parse(fields map[string]string) (Input, FieldErrors) {
	errs := FieldErrors{}
	var input Input

	input.FullName = fields[FieldFullName]
	if len(input.FullName) < 2 {
		errs.add(FieldFullName, "Full name must be at least 2 characters.")
	}

	input.Phone = fields[FieldPhone]
	if len(input.Phone) < 10 {
		errs.add(FieldPhone, "Please enter a valid phone number.")
	}

	// Empty email means absent, not invalid.
	if email := fields[FieldEmail]; email != "" {
		if err := s.val.Var(email, "email"); err != nil {
			errs.add(FieldEmail, "Invalid email address.")
		} else {
			input.Email = &email
		}
	}

	if city, ok := domain.ParseCity(fields[FieldCity]); ok {
		input.City = city
	} else {
		errs.add(FieldCity, enumError(FieldCity))
	}

	if propertyType, ok := domain.ParsePropertyType(fields[FieldPropertyType]); ok {
		input.PropertyType = propertyType
	} else {
		errs.add(FieldPropertyType, enumError(FieldPropertyType))
	}

	if purpose, ok := domain.ParsePurpose(fields[FieldPurpose]); ok {
		input.Purpose = purpose
	} else {
		errs.add(FieldPurpose, enumError(FieldPurpose))
	}

	if timeline, ok := domain.ParseTimeline(fields[FieldTimeline]); ok {
		input.Timeline = timeline
	} else {
		errs.add(FieldTimeline, enumError(FieldTimeline))
	}

	if source, ok := domain.ParseSource(fields[FieldSource]); ok {
		input.Source = source
	} else {
		errs.add(FieldSource, enumError(FieldSource))
	}

	if rawStatus := fields[FieldStatus]; rawStatus == "" {
		input.Status = domain.DefaultStatus
	} else if status, ok := domain.ParseStatus(rawStatus); ok {
		input.Status = status
	} else {
		errs.add(FieldStatus, enumError(FieldStatus))
	}

	// Absent bhk is null, never an empty enum value.
	if rawBHK := fields[FieldBHK]; rawBHK != "" {
		if bhk, ok := domain.ParseBHK(rawBHK); ok {
			input.BHK = &bhk
		} else {
			errs.add(FieldBHK, enumError(FieldBHK))
		}
	}

	input.BudgetMin = parseBudget(fields[FieldBudgetMin], FieldBudgetMin, errs)
	input.BudgetMax = parseBudget(fields[FieldBudgetMax], FieldBudgetMax, errs)
	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMin > *input.BudgetMax {
		errs.add(FieldBudgetMax, "budgetMax must be greater than or equal to budgetMin.")
	}

	if notes := fields[FieldNotes]; notes != "" {
		input.Notes = &notes
	}

	input.Tags = domain.SplitTags(fields[FieldTags])

	if errs.HasErrors() {
		return Input{}, errs
	}
	return input, nil
}

func parseBudget(raw, field string, errs FieldErrors) *int64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		errs.add(field, fmt.Sprintf("%s must be a positive whole number.", field))
		return nil
	}
	return &value
}

func enumError(field string) string {
	return fmt.Sprintf("invalid enumeration value for %s", field)
}
