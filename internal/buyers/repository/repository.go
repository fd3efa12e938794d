package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("buyer not found")
	ErrDuplicate = errors.New("duplicate owner and phone")
)

const uniqueViolationCode = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Buyer is the stored buyer lead record.
type Buyer struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	FullName     string
	Phone        string
	Email        *string
	City         string
	PropertyType string
	Purpose      string
	Timeline     string
	Source       string
	Status       string
	BHK          *string
	BudgetMin    *int64
	BudgetMax    *int64
	Notes        *string
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BuyerParams carries the full set of mutable columns. Create and Update
// both take the complete set: updates replace, they do not merge.
type BuyerParams struct {
	FullName     string
	Phone        string
	Email        *string
	City         string
	PropertyType string
	Purpose      string
	Timeline     string
	Source       string
	Status       string
	BHK          *string
	BudgetMin    *int64
	BudgetMax    *int64
	Notes        *string
	Tags         []string
}

const buyerColumns = `id, owner_id, full_name, phone, email, city, property_type, purpose, timeline, source, status,
	bhk, budget_min, budget_max, notes, tags, created_at, updated_at`

func scanBuyer(row pgx.Row) (Buyer, error) {
	var b Buyer
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.FullName, &b.Phone, &b.Email, &b.City, &b.PropertyType, &b.Purpose,
		&b.Timeline, &b.Source, &b.Status, &b.BHK, &b.BudgetMin, &b.BudgetMax, &b.Notes, &b.Tags,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create inserts a new buyer record owned by ownerID. A unique-constraint
// conflict on (owner_id, phone) is reported as ErrDuplicate.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, params BuyerParams) (Buyer, error) {
	b, err := scanBuyer(r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO buyers (
			owner_id, full_name, phone, email, city, property_type, purpose, timeline, source, status,
			bhk, budget_min, budget_max, notes, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s
	`, buyerColumns),
		ownerID, params.FullName, params.Phone, params.Email, params.City, params.PropertyType,
		params.Purpose, params.Timeline, params.Source, params.Status,
		params.BHK, params.BudgetMin, params.BudgetMax, params.Notes, params.Tags,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Buyer{}, ErrDuplicate
		}
		return Buyer{}, err
	}
	return b, nil
}

// GetByID retrieves a buyer by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Buyer, error) {
	b, err := scanBuyer(r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM buyers WHERE id = $1
	`, buyerColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	return b, err
}

// Update replaces every mutable column of the record. owner_id is never
// touched. A phone collision with another record of the same owner is
// reported as ErrDuplicate.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params BuyerParams) (Buyer, error) {
	b, err := scanBuyer(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE buyers SET
			full_name = $2, phone = $3, email = $4, city = $5, property_type = $6, purpose = $7,
			timeline = $8, source = $9, status = $10, bhk = $11, budget_min = $12, budget_max = $13,
			notes = $14, tags = $15, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, buyerColumns),
		id, params.FullName, params.Phone, params.Email, params.City, params.PropertyType,
		params.Purpose, params.Timeline, params.Source, params.Status,
		params.BHK, params.BudgetMin, params.BudgetMax, params.Notes, params.Tags,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return Buyer{}, ErrDuplicate
		}
		return Buyer{}, err
	}
	return b, nil
}

// BatchInsertParams is one candidate row for a bulk insert.
type BatchInsertParams struct {
	OwnerID uuid.UUID
	BuyerParams
}

// BatchInsert inserts the candidates in one statement, silently skipping
// rows that collide with an existing (owner_id, phone) pair. It returns the
// number of rows actually inserted.
func (r *Repository) BatchInsert(ctx context.Context, params []BatchInsertParams) (int, error) {
	if len(params) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(params))
	args := make([]interface{}, 0, len(params)*15)
	argIdx := 1
	for _, p := range params {
		placeholders := make([]string, 15)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", argIdx)
			argIdx++
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			p.OwnerID, p.FullName, p.Phone, p.Email, p.City, p.PropertyType, p.Purpose,
			p.Timeline, p.Source, p.Status, p.BHK, p.BudgetMin, p.BudgetMax, p.Notes, p.Tags,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO buyers (
			owner_id, full_name, phone, email, city, property_type, purpose, timeline, source, status,
			bhk, budget_min, budget_max, notes, tags
		) VALUES %s
		ON CONFLICT (owner_id, phone) DO NOTHING
	`, strings.Join(values, ", "))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListParams selects, orders and paginates buyers. A zero Limit means no
// pagination (used by exports).
type ListParams struct {
	Search       string
	City         *string
	PropertyType *string
	Purpose      *string
	Timeline     *string
	Source       *string
	Status       *string
	BHK          *string
	SortBy       string
	SortOrder    string
	Offset       int
	Limit        int
}

// List returns the matching buyers and the total match count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Buyer, int, error) {
	whereClause, args := buildListWhere(params)

	var total int
	countQuery := "SELECT COUNT(*) FROM buyers WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	limitClause := ""
	if params.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, params.Limit, params.Offset)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM buyers
		WHERE %s
		ORDER BY %s %s
		%s
	`, buyerColumns, whereClause, sortColumn, sortOrder, limitClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	buyers := make([]Buyer, 0)
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, 0, err
		}
		buyers = append(buyers, b)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return buyers, total, nil
}

func buildListWhere(params ListParams) (string, []interface{}) {
	clauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	equals := []struct {
		column string
		value  *string
	}{
		{"city", params.City},
		{"property_type", params.PropertyType},
		{"purpose", params.Purpose},
		{"timeline", params.Timeline},
		{"source", params.Source},
		{"status", params.Status},
		{"bhk", params.BHK},
	}
	for _, eq := range equals {
		if eq.value == nil {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", eq.column, argIdx))
		args = append(args, *eq.value)
		argIdx++
	}

	if params.Search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	return strings.Join(clauses, " AND "), args
}

func mapSortColumn(sortBy string) string {
	switch sortBy {
	case "createdAt":
		return "created_at"
	case "fullName":
		return "full_name"
	case "status":
		return "status"
	default:
		return "updated_at"
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
