// Package service exposes the support operations consumed by embedding
// services. Authentication and authorization are the caller's job: every
// operation assumes the request was already authenticated, and the dashboard
// operation must be treated as privileged by the embedder.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pleme-io/pleme-support/internal/domain"
	"github.com/pleme-io/pleme-support/internal/repository"
	"github.com/pleme-io/pleme-support/pkg/errorutil"
)

// SupportService coordinates ticket, message and analytics operations.
type SupportService struct {
	tickets  repository.TicketRepository
	messages repository.TicketMessageRepository
	metrics  repository.MetricsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Dependencies bundles collaborators for the support service.
type Dependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.TicketMessageRepository
	MetricsRepo repository.MetricsRepository
	Cache       *redis.Client
	CacheTTL    time.Duration
	Logger      *zap.Logger
}

// NewSupportService constructs the service. Cache may be nil; the dashboard
// is then recomputed on every call.
func NewSupportService(deps Dependencies) *SupportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{
		tickets:  deps.TicketRepo,
		messages: deps.MessageRepo,
		metrics:  deps.MetricsRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   logger,
	}
}

// CreateTicket inserts a new ticket scoped to product. Status always starts
// at NEW regardless of input.
func (s *SupportService) CreateTicket(ctx context.Context, product string, input domain.CreateTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(product) == "" {
		return nil, errorutil.NewValidationError("product required", nil)
	}
	if _, err := uuid.Parse(input.CustomerID); err != nil {
		return nil, errorutil.NewInvalidInput("customer_id must be a UUID")
	}
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	if input.Subject == "" || input.Description == "" {
		return nil, errorutil.NewValidationError("subject and description required", nil)
	}
	if !input.Priority.Valid() {
		return nil, errorutil.NewInvalidInput(fmt.Sprintf("unknown priority: %s", input.Priority))
	}

	ticket, err := s.tickets.Create(ctx, product, input)
	if err != nil {
		s.logger.Error("failed to create ticket", zap.String("product", product), zap.Error(err))
		return nil, errorutil.NewStorageError(err)
	}
	return ticket, nil
}

// GetTicket fetches a live ticket by id.
func (s *SupportService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errorutil.NewInvalidInput("id must be a UUID")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, errorutil.WrapStorage(err, id)
	}
	return ticket, nil
}

// UpdateTicket merges the supplied fields into the ticket; absent fields
// keep their prior value.
func (s *SupportService) UpdateTicket(ctx context.Context, id string, input domain.UpdateTicketInput) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errorutil.NewInvalidInput("id must be a UUID")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, errorutil.NewInvalidInput(fmt.Sprintf("unknown status: %s", *input.Status))
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, errorutil.NewInvalidInput(fmt.Sprintf("unknown priority: %s", *input.Priority))
	}
	if input.AssignedTo != nil {
		if _, err := uuid.Parse(*input.AssignedTo); err != nil {
			return nil, errorutil.NewInvalidInput("assigned_to must be a UUID")
		}
	}

	ticket, err := s.tickets.Update(ctx, id, input)
	if err != nil {
		return nil, errorutil.WrapStorage(err, id)
	}
	return ticket, nil
}

// ListTickets returns live tickets of the product matching every supplied
// filter field, newest first. Limit defaults to 20 and offset to 0.
func (s *SupportService) ListTickets(ctx context.Context, product string, filter *domain.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	if strings.TrimSpace(product) == "" {
		return nil, errorutil.NewValidationError("product required", nil)
	}
	var f domain.TicketFilter
	if filter != nil {
		f = *filter
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, errorutil.NewInvalidInput(fmt.Sprintf("unknown status: %s", *f.Status))
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, errorutil.NewInvalidInput(fmt.Sprintf("unknown priority: %s", *f.Priority))
	}
	if f.AssignedTo != nil {
		if _, err := uuid.Parse(*f.AssignedTo); err != nil {
			return nil, errorutil.NewInvalidInput("assigned_to must be a UUID")
		}
	}
	if f.CustomerID != nil {
		if _, err := uuid.Parse(*f.CustomerID); err != nil {
			return nil, errorutil.NewInvalidInput("customer_id must be a UUID")
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	tickets, err := s.tickets.List(ctx, product, f, limit, offset)
	if err != nil {
		return nil, errorutil.NewStorageError(err)
	}
	return tickets, nil
}

// AddTicketMessage appends a message to the ticket thread authored by
// authorID. The ticket's existence is enforced only by the storage foreign
// key; a dangling ticket id surfaces as a storage failure.
func (s *SupportService) AddTicketMessage(ctx context.Context, authorID string, input domain.AddTicketMessageInput) (*domain.TicketMessage, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, errorutil.NewInvalidInput("author_id must be a UUID")
	}
	if _, err := uuid.Parse(input.TicketID); err != nil {
		return nil, errorutil.NewInvalidInput("ticket_id must be a UUID")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errorutil.NewValidationError("content required", nil)
	}

	msg, err := s.messages.Create(ctx, authorID, input)
	if err != nil {
		s.logger.Error("failed to add ticket message", zap.String("ticket_id", input.TicketID), zap.Error(err))
		return nil, errorutil.NewStorageError(err)
	}
	return msg, nil
}

// ListTicketMessages returns the full thread for a ticket, oldest first.
func (s *SupportService) ListTicketMessages(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, errorutil.NewInvalidInput("ticket_id must be a UUID")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewStorageError(err)
	}
	return msgs, nil
}

// GetDashboardMetrics returns the composed analytics snapshot for the
// product and period. Embedders must gate this behind their own privileged
// role check. Results are cached in Redis for a short TTL; cache failures
// degrade to a recompute. The seven metric groups are not read in one
// transaction, so each may reflect a slightly different instant under
// concurrent writes.
func (s *SupportService) GetDashboardMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.DashboardMetrics, error) {
	if strings.TrimSpace(product) == "" {
		return nil, errorutil.NewValidationError("product required", nil)
	}
	if periodEnd.Before(periodStart) {
		return nil, errorutil.NewInvalidInput("period_end must not be before period_start")
	}

	key := dashboardCacheKey(product, periodStart, periodEnd)
	if cached := s.cachedDashboard(ctx, key); cached != nil {
		return cached, nil
	}

	metrics, err := s.metrics.GetDashboardMetrics(ctx, product, periodStart, periodEnd)
	if err != nil {
		s.logger.Error("failed to compute dashboard metrics", zap.String("product", product), zap.Error(err))
		return nil, errorutil.NewStorageError(err)
	}

	s.storeDashboard(ctx, key, metrics)
	return metrics, nil
}

func dashboardCacheKey(product string, periodStart, periodEnd time.Time) string {
	return fmt.Sprintf("support:dashboard:%s:%d:%d", product, periodStart.Unix(), periodEnd.Unix())
}

func (s *SupportService) cachedDashboard(ctx context.Context, key string) *domain.DashboardMetrics {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var metrics domain.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		s.logger.Warn("dashboard cache payload corrupt", zap.Error(err))
		return nil
	}
	return &metrics
}

func (s *SupportService) storeDashboard(ctx context.Context, key string, metrics *domain.DashboardMetrics) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
