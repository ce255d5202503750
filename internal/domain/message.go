package domain

import "time"

// TicketMessage captures one entry in a ticket conversation thread.
// Messages are immutable once created.
type TicketMessage struct {
	ID         string
	TicketID   string
	AuthorID   string
	IsInternal bool
	Content    string
	CreatedAt  time.Time
}

// AddTicketMessageInput describes message creation payload.
type AddTicketMessageInput struct {
	TicketID   string
	Content    string
	IsInternal bool
}
