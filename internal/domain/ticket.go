package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew               TicketStatus = "NEW"
	TicketStatusInProgress        TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingOnCustomer TicketStatus = "WAITING_ON_CUSTOMER"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether the status is one of the known codes.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusWaitingOnCustomer,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Valid reports whether the priority is one of the known codes.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. A ticket belongs to exactly
// one product for its entire life; soft-deleted rows (DeletedAt set) are
// retained physically but excluded from every read path.
type Ticket struct {
	ID              string
	Product         string
	CustomerID      string
	Subject         string
	Description     string
	Status          TicketStatus
	Priority        TicketPriority
	Category        *string
	AssignedTo      *string
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	SLABreach       bool
	CSATScore       *int
	Metadata        []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// Active reports whether the ticket still needs agent attention.
func (t *Ticket) Active() bool {
	return t.Status != TicketStatusResolved && t.Status != TicketStatusClosed
}

// CreateTicketInput describes ticket creation payload. Status is always
// forced to NEW by the store.
type CreateTicketInput struct {
	CustomerID  string
	Subject     string
	Description string
	Priority    TicketPriority
	Category    *string
}

// UpdateTicketInput carries a partial patch; nil fields keep their prior
// value.
type UpdateTicketInput struct {
	Subject     *string
	Description *string
	Status      *TicketStatus
	Priority    *TicketPriority
	Category    *string
	AssignedTo  *string
}

// TicketFilter captures optional list predicates; present fields are ANDed.
type TicketFilter struct {
	Status      *TicketStatus
	Priority    *TicketPriority
	AssignedTo  *string
	CustomerID  *string
	Category    *string
	SearchQuery *string
}
