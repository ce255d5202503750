package dto

import (
	"time"

	"github.com/pleme-io/pleme-support/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Product     string                `json:"product"`
	CustomerID  string                `json:"customer_id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    *string               `json:"category"`
}

// UpdateTicketRequest carries a partial patch; omitted fields are left
// untouched.
type UpdateTicketRequest struct {
	Subject     *string                `json:"subject"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	Category    *string                `json:"category"`
	AssignedTo  *string                `json:"assigned_to"`
}

// CreateMessageRequest payload. AuthorID is supplied by the embedding
// service from its authenticated principal.
type CreateMessageRequest struct {
	AuthorID   string `json:"author_id"`
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the public read model; the metadata blob and soft-delete
// marker are not surfaced.
type TicketResponse struct {
	ID              string                `json:"id"`
	Product         string                `json:"product"`
	CustomerID      string                `json:"customer_id"`
	Subject         string                `json:"subject"`
	Description     string                `json:"description"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        *string               `json:"category"`
	AssignedTo      *string               `json:"assigned_to"`
	FirstResponseAt *time.Time            `json:"first_response_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
	SLABreach       bool                  `json:"sla_breach"`
	CSATScore       *int                  `json:"csat_score"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TicketMessageResponse represents a thread entry.
type TicketMessageResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	AuthorID   string    `json:"author_id"`
	IsInternal bool      `json:"is_internal"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		Product:         t.Product,
		CustomerID:      t.CustomerID,
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		Category:        t.Category,
		AssignedTo:      t.AssignedTo,
		FirstResponseAt: t.FirstResponseAt,
		ResolvedAt:      t.ResolvedAt,
		ClosedAt:        t.ClosedAt,
		SLABreach:       t.SLABreach,
		CSATScore:       t.CSATScore,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromTicketMessage maps a domain message to its response shape.
func FromTicketMessage(m *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:         m.ID,
		TicketID:   m.TicketID,
		AuthorID:   m.AuthorID,
		IsInternal: m.IsInternal,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
