package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicketStatusValid(t *testing.T) {
	for _, status := range []TicketStatus{
		TicketStatusNew, TicketStatusInProgress, TicketStatusWaitingOnCustomer,
		TicketStatusResolved, TicketStatusClosed,
	} {
		require.True(t, status.Valid(), string(status))
	}
	require.False(t, TicketStatus("OPEN").Valid())
	require.False(t, TicketStatus("").Valid())
}

func TestTicketPriorityValid(t *testing.T) {
	for _, priority := range []TicketPriority{
		TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent,
	} {
		require.True(t, priority.Valid(), string(priority))
	}
	require.False(t, TicketPriority("CRITICAL").Valid())
}

func TestTicketActive(t *testing.T) {
	ticket := Ticket{Status: TicketStatusNew}
	require.True(t, ticket.Active())

	ticket.Status = TicketStatusWaitingOnCustomer
	require.True(t, ticket.Active())

	ticket.Status = TicketStatusResolved
	require.False(t, ticket.Active())

	ticket.Status = TicketStatusClosed
	require.False(t, ticket.Active())
}
