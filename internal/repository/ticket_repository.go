package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pleme-io/pleme-support/internal/domain"
)

const ticketColumns = `id, product, customer_id, subject, description, status, priority,
               category, assigned_to, first_response_at, resolved_at, closed_at,
               sla_breach, csat_score, metadata, created_at, updated_at, deleted_at`

// TicketRepository encapsulates ticket persistence. Every read excludes
// soft-deleted rows.
type TicketRepository interface {
	Create(ctx context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, input domain.UpdateTicketInput) (*domain.Ticket, error)
	List(ctx context.Context, product string, filter domain.TicketFilter, limit, offset int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        INSERT INTO support_tickets (product, customer_id, subject, description, priority, category)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING %s`, ticketColumns)
	row := r.pool.QueryRow(ctx, query,
		product,
		input.CustomerID,
		input.Subject,
		input.Description,
		input.Priority,
		input.Category,
	)
	return scanTicket(row)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM support_tickets WHERE id=$1 AND deleted_at IS NULL`, ticketColumns)
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

// Update merges only the supplied fields into the live row and refreshes the
// update timestamp. A missing or soft-deleted row surfaces as pgx.ErrNoRows
// straight from the RETURNING scan, so no separate existence check races
// with concurrent deletes.
func (r *ticketRepository) Update(ctx context.Context, id string, input domain.UpdateTicketInput) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE support_tickets SET
            subject = COALESCE($2, subject),
            description = COALESCE($3, description),
            status = COALESCE($4, status),
            priority = COALESCE($5, priority),
            category = COALESCE($6, category),
            assigned_to = COALESCE($7, assigned_to),
            updated_at = NOW()
        WHERE id=$1 AND deleted_at IS NULL
        RETURNING %s`, ticketColumns)
	row := r.pool.QueryRow(ctx, query,
		id,
		input.Subject,
		input.Description,
		input.Status,
		input.Priority,
		input.Category,
		input.AssignedTo,
	)
	return scanTicket(row)
}

func (r *ticketRepository) List(ctx context.Context, product string, filter domain.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	query, args := buildListQuery(product, filter, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// buildListQuery assembles the filtered list statement with positional
// placeholders appended in a fixed field order, so values always bind to
// the clause that produced them.
//
// TODO: translate Category and SearchQuery into predicates once product
// confirms the intended search semantics; both fields are accepted on the
// wire but currently impose no constraint.
func buildListQuery(product string, filter domain.TicketFilter, limit, offset int) (string, []any) {
	base := fmt.Sprintf(`SELECT %s FROM support_tickets`, ticketColumns)
	clauses := []string{"product = $1", "deleted_at IS NULL"}
	args := []any{product}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id = $%d", len(args)))
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		base, strings.Join(clauses, " AND "), len(args)-1, len(args))
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Product,
		&ticket.CustomerID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.AssignedTo,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.SLABreach,
		&ticket.CSATScore,
		&ticket.Metadata,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
