package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/pleme-support/internal/domain"
	"github.com/pleme-io/pleme-support/pkg/errorutil"
)

const (
	customerID = "0b9f3f68-33c1-4a62-912f-6f1f29a1c001"
	ticketID   = "0b9f3f68-33c1-4a62-912f-6f1f29a1c002"
	agentID    = "0b9f3f68-33c1-4a62-912f-6f1f29a1c003"
)

type fakeTicketRepo struct {
	createFn func(ctx context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error)
	getFn    func(ctx context.Context, id string) (*domain.Ticket, error)
	updateFn func(ctx context.Context, id string, input domain.UpdateTicketInput) (*domain.Ticket, error)
	listFn   func(ctx context.Context, product string, filter domain.TicketFilter, limit, offset int) ([]domain.Ticket, error)
}

func (f *fakeTicketRepo) Create(ctx context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error) {
	return f.createFn(ctx, product, input)
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return f.getFn(ctx, id)
}

func (f *fakeTicketRepo) Update(ctx context.Context, id string, input domain.UpdateTicketInput) (*domain.Ticket, error) {
	return f.updateFn(ctx, id, input)
}

func (f *fakeTicketRepo) List(ctx context.Context, product string, filter domain.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	return f.listFn(ctx, product, filter, limit, offset)
}

type fakeMessageRepo struct {
	createFn func(ctx context.Context, authorID string, input domain.AddTicketMessageInput) (*domain.TicketMessage, error)
	listFn   func(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

func (f *fakeMessageRepo) Create(ctx context.Context, authorID string, input domain.AddTicketMessageInput) (*domain.TicketMessage, error) {
	return f.createFn(ctx, authorID, input)
}

func (f *fakeMessageRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	return f.listFn(ctx, ticketID)
}

type fakeMetricsRepo struct {
	dashboardFn func(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.DashboardMetrics, error)
}

func (f *fakeMetricsRepo) GetDashboardMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.DashboardMetrics, error) {
	return f.dashboardFn(ctx, product, periodStart, periodEnd)
}

func newService(tickets *fakeTicketRepo, messages *fakeMessageRepo, metrics *fakeMetricsRepo) *SupportService {
	return NewSupportService(Dependencies{
		TicketRepo:  tickets,
		MessageRepo: messages,
		MetricsRepo: metrics,
	})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errorutil.ToDomainError(err).Code)
}

func TestCreateTicketTrimsAndDelegates(t *testing.T) {
	var gotProduct string
	var gotInput domain.CreateTicketInput
	tickets := &fakeTicketRepo{
		createFn: func(_ context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error) {
			gotProduct = product
			gotInput = input
			return &domain.Ticket{ID: ticketID, Product: product, Status: domain.TicketStatusNew}, nil
		},
	}
	svc := newService(tickets, nil, nil)

	ticket, err := svc.CreateTicket(context.Background(), "acme", domain.CreateTicketInput{
		CustomerID:  customerID,
		Subject:     "  Login broken  ",
		Description: " Cannot log in ",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusNew, ticket.Status)
	require.Equal(t, "acme", gotProduct)
	require.Equal(t, "Login broken", gotInput.Subject)
	require.Equal(t, "Cannot log in", gotInput.Description)
}

func TestCreateTicketValidation(t *testing.T) {
	svc := newService(&fakeTicketRepo{}, nil, nil)

	_, err := svc.CreateTicket(context.Background(), " ", domain.CreateTicketInput{
		CustomerID: customerID, Subject: "s", Description: "d", Priority: domain.TicketPriorityLow,
	})
	requireCode(t, err, errorutil.CodeValidationFailed)

	_, err = svc.CreateTicket(context.Background(), "acme", domain.CreateTicketInput{
		CustomerID: "not-a-uuid", Subject: "s", Description: "d", Priority: domain.TicketPriorityLow,
	})
	requireCode(t, err, errorutil.CodeInvalidInput)

	_, err = svc.CreateTicket(context.Background(), "acme", domain.CreateTicketInput{
		CustomerID: customerID, Subject: "   ", Description: "d", Priority: domain.TicketPriorityLow,
	})
	requireCode(t, err, errorutil.CodeValidationFailed)

	_, err = svc.CreateTicket(context.Background(), "acme", domain.CreateTicketInput{
		CustomerID: customerID, Subject: "s", Description: "d", Priority: "CRITICAL",
	})
	requireCode(t, err, errorutil.CodeInvalidInput)
}

func TestCreateTicketStorageFailure(t *testing.T) {
	tickets := &fakeTicketRepo{
		createFn: func(context.Context, string, domain.CreateTicketInput) (*domain.Ticket, error) {
			return nil, errors.New("constraint violation")
		},
	}
	svc := newService(tickets, nil, nil)

	_, err := svc.CreateTicket(context.Background(), "acme", domain.CreateTicketInput{
		CustomerID: customerID, Subject: "s", Description: "d", Priority: domain.TicketPriorityLow,
	})
	requireCode(t, err, errorutil.CodeStorageFailure)
}

func TestGetTicketNotFound(t *testing.T) {
	tickets := &fakeTicketRepo{
		getFn: func(context.Context, string) (*domain.Ticket, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newService(tickets, nil, nil)

	_, err := svc.GetTicket(context.Background(), ticketID)
	requireCode(t, err, errorutil.CodeTicketNotFound)
}

func TestGetTicketRejectsMalformedID(t *testing.T) {
	svc := newService(&fakeTicketRepo{}, nil, nil)
	_, err := svc.GetTicket(context.Background(), "nope")
	requireCode(t, err, errorutil.CodeInvalidInput)
}

func TestUpdateTicketValidation(t *testing.T) {
	svc := newService(&fakeTicketRepo{}, nil, nil)

	badStatus := domain.TicketStatus("ARCHIVED")
	_, err := svc.UpdateTicket(context.Background(), ticketID, domain.UpdateTicketInput{Status: &badStatus})
	requireCode(t, err, errorutil.CodeInvalidInput)

	badAgent := "not-a-uuid"
	_, err = svc.UpdateTicket(context.Background(), ticketID, domain.UpdateTicketInput{AssignedTo: &badAgent})
	requireCode(t, err, errorutil.CodeInvalidInput)
}

func TestUpdateTicketNotFoundOnDeletedRow(t *testing.T) {
	tickets := &fakeTicketRepo{
		updateFn: func(context.Context, string, domain.UpdateTicketInput) (*domain.Ticket, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newService(tickets, nil, nil)

	subject := "new subject"
	_, err := svc.UpdateTicket(context.Background(), ticketID, domain.UpdateTicketInput{Subject: &subject})
	requireCode(t, err, errorutil.CodeTicketNotFound)
}

func TestListTicketsAppliesDefaults(t *testing.T) {
	var gotLimit, gotOffset int
	tickets := &fakeTicketRepo{
		listFn: func(_ context.Context, _ string, _ domain.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
			gotLimit = limit
			gotOffset = offset
			return nil, nil
		},
	}
	svc := newService(tickets, nil, nil)

	_, err := svc.ListTickets(context.Background(), "acme", nil, 0, -3)
	require.NoError(t, err)
	require.Equal(t, 20, gotLimit)
	require.Equal(t, 0, gotOffset)
}

func TestListTicketsRejectsBadFilter(t *testing.T) {
	svc := newService(&fakeTicketRepo{}, nil, nil)

	bad := "not-a-uuid"
	_, err := svc.ListTickets(context.Background(), "acme", &domain.TicketFilter{CustomerID: &bad}, 20, 0)
	requireCode(t, err, errorutil.CodeInvalidInput)

	status := domain.TicketStatus("OPEN")
	_, err = svc.ListTickets(context.Background(), "acme", &domain.TicketFilter{Status: &status}, 20, 0)
	requireCode(t, err, errorutil.CodeInvalidInput)
}

func TestAddTicketMessageValidation(t *testing.T) {
	svc := newService(nil, &fakeMessageRepo{}, nil)

	_, err := svc.AddTicketMessage(context.Background(), "bad", domain.AddTicketMessageInput{TicketID: ticketID, Content: "hi"})
	requireCode(t, err, errorutil.CodeInvalidInput)

	_, err = svc.AddTicketMessage(context.Background(), agentID, domain.AddTicketMessageInput{TicketID: "bad", Content: "hi"})
	requireCode(t, err, errorutil.CodeInvalidInput)

	_, err = svc.AddTicketMessage(context.Background(), agentID, domain.AddTicketMessageInput{TicketID: ticketID, Content: "  "})
	requireCode(t, err, errorutil.CodeValidationFailed)
}

// A dangling ticket reference is only caught by the storage foreign key and
// must surface as a storage failure, never a silent success.
func TestAddTicketMessageForeignKeyViolation(t *testing.T) {
	messages := &fakeMessageRepo{
		createFn: func(context.Context, string, domain.AddTicketMessageInput) (*domain.TicketMessage, error) {
			return nil, errors.New(`violates foreign key constraint "ticket_messages_ticket_id_fkey"`)
		},
	}
	svc := newService(nil, messages, nil)

	_, err := svc.AddTicketMessage(context.Background(), agentID, domain.AddTicketMessageInput{TicketID: ticketID, Content: "hi"})
	requireCode(t, err, errorutil.CodeStorageFailure)
}

func TestListTicketMessagesDelegates(t *testing.T) {
	messages := &fakeMessageRepo{
		listFn: func(_ context.Context, id string) ([]domain.TicketMessage, error) {
			require.Equal(t, ticketID, id)
			return []domain.TicketMessage{{ID: "m1"}, {ID: "m2"}}, nil
		},
	}
	svc := newService(nil, messages, nil)

	msgs, err := svc.ListTicketMessages(context.Background(), ticketID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}

func TestGetDashboardMetricsValidation(t *testing.T) {
	svc := newService(nil, nil, &fakeMetricsRepo{})
	now := time.Now()

	_, err := svc.GetDashboardMetrics(context.Background(), "", now.Add(-time.Hour), now)
	requireCode(t, err, errorutil.CodeValidationFailed)

	_, err = svc.GetDashboardMetrics(context.Background(), "acme", now, now.Add(-time.Hour))
	requireCode(t, err, errorutil.CodeInvalidInput)
}

func TestGetDashboardMetricsDelegates(t *testing.T) {
	rate := 100.0
	metrics := &fakeMetricsRepo{
		dashboardFn: func(_ context.Context, product string, _, _ time.Time) (*domain.DashboardMetrics, error) {
			require.Equal(t, "acme", product)
			return &domain.DashboardMetrics{
				Overview:   domain.OverviewMetrics{SLAComplianceRate: &rate},
				SLAMetrics: domain.SLAMetrics{ComplianceRate: rate},
			}, nil
		},
	}
	svc := newService(nil, nil, metrics)

	now := time.Now()
	got, err := svc.GetDashboardMetrics(context.Background(), "acme", now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Equal(t, rate, *got.Overview.SLAComplianceRate)
	require.Equal(t, rate, got.SLAMetrics.ComplianceRate)
}

func TestGetDashboardMetricsStorageFailureAbortsWhole(t *testing.T) {
	metrics := &fakeMetricsRepo{
		dashboardFn: func(context.Context, string, time.Time, time.Time) (*domain.DashboardMetrics, error) {
			return nil, errors.New("query timeout")
		},
	}
	svc := newService(nil, nil, metrics)

	now := time.Now()
	got, err := svc.GetDashboardMetrics(context.Background(), "acme", now.Add(-24*time.Hour), now)
	require.Nil(t, got)
	requireCode(t, err, errorutil.CodeStorageFailure)
}

func TestDashboardCacheKeyIsPeriodScoped(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	keyA := dashboardCacheKey("acme", start, end)
	keyB := dashboardCacheKey("acme", start, end.Add(time.Second))
	keyC := dashboardCacheKey("globex", start, end)

	require.NotEqual(t, keyA, keyB)
	require.NotEqual(t, keyA, keyC)
	require.Contains(t, keyA, "support:dashboard:acme:")
}
