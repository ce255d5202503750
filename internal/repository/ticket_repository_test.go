package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pleme-io/pleme-support/internal/domain"
)

func TestBuildListQueryNoFilter(t *testing.T) {
	query, args := buildListQuery("acme", domain.TicketFilter{}, 20, 0)

	require.Contains(t, query, "product = $1")
	require.Contains(t, query, "deleted_at IS NULL")
	require.Contains(t, query, "ORDER BY created_at DESC")
	require.Contains(t, query, "LIMIT $2 OFFSET $3")
	require.Equal(t, []any{"acme", 20, 0}, args)
}

func TestBuildListQueryAllFilters(t *testing.T) {
	status := domain.TicketStatusInProgress
	priority := domain.TicketPriorityUrgent
	agent := "7a1e8d9c-0000-0000-0000-000000000001"
	customer := "7a1e8d9c-0000-0000-0000-000000000002"

	query, args := buildListQuery("acme", domain.TicketFilter{
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &agent,
		CustomerID: &customer,
	}, 50, 100)

	require.Contains(t, query, "status = $2")
	require.Contains(t, query, "priority = $3")
	require.Contains(t, query, "assigned_to = $4")
	require.Contains(t, query, "customer_id = $5")
	require.Contains(t, query, "LIMIT $6 OFFSET $7")
	require.Equal(t, []any{"acme", status, priority, agent, customer, 50, 100}, args)
}

func TestBuildListQueryDefaultsPagination(t *testing.T) {
	_, args := buildListQuery("acme", domain.TicketFilter{}, 0, -5)
	require.Equal(t, []any{"acme", 20, 0}, args)
}

// Category and search query are accepted on the wire but deliberately not
// translated into predicates yet; the builder must ignore them.
func TestBuildListQueryIgnoresCategoryAndSearch(t *testing.T) {
	category := "billing"
	search := "refund"
	query, args := buildListQuery("acme", domain.TicketFilter{
		Category:    &category,
		SearchQuery: &search,
	}, 20, 0)

	// category stays in the SELECT column list, so assert only that no
	// predicate binds it.
	require.NotContains(t, query, "category = $")
	require.NotContains(t, query, "LIKE")
	require.Equal(t, []any{"acme", 20, 0}, args)
}
