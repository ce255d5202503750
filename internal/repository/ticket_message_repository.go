package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pleme-io/pleme-support/internal/domain"
)

// TicketMessageRepository manages ticket thread messages. Messages are
// append-only; no update or delete exists.
type TicketMessageRepository interface {
	Create(ctx context.Context, authorID string, input domain.AddTicketMessageInput) (*domain.TicketMessage, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository builds repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

// Create inserts a thread entry. The referenced ticket is not checked here;
// a dangling ticket id is rejected by the foreign key on ticket_messages and
// surfaces as a storage failure.
func (r *ticketMessageRepository) Create(ctx context.Context, authorID string, input domain.AddTicketMessageInput) (*domain.TicketMessage, error) {
	const query = `
        INSERT INTO ticket_messages (ticket_id, author_id, is_internal, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, ticket_id, author_id, is_internal, content, created_at`
	var msg domain.TicketMessage
	if err := r.pool.QueryRow(ctx, query,
		input.TicketID,
		authorID,
		input.IsInternal,
		input.Content,
	).Scan(&msg.ID, &msg.TicketID, &msg.AuthorID, &msg.IsInternal, &msg.Content, &msg.CreatedAt); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, author_id, is_internal, content, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.AuthorID,
			&msg.IsInternal,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
