package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pleme-io/pleme-support/internal/api/dto"
	"github.com/pleme-io/pleme-support/internal/domain"
	"github.com/pleme-io/pleme-support/internal/service"
	"github.com/pleme-io/pleme-support/pkg/errorutil"
)

// TicketsHandler binds ticket operations to HTTP. Authorization is the
// embedding service's responsibility; these endpoints trust the caller.
type TicketsHandler struct {
	service *service.SupportService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(supportService *service.SupportService) *TicketsHandler {
	return &TicketsHandler{service: supportService}
}

// CreateTicket POST /api/v1/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewInvalidInput("invalid payload")
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), req.Product, domain.CreateTicketInput{
		CustomerID:  req.CustomerID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// GetTicket GET /api/v1/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateTicket PATCH /api/v1/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewInvalidInput("invalid payload")
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), domain.UpdateTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ListTickets GET /api/v1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketFilter(c)
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	tickets, err := h.service.ListTickets(c.UserContext(), c.Query("product"), filter, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMessages GET /api/v1/tickets/:id/messages.
func (h *TicketsHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.service.ListTicketMessages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketMessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.FromTicketMessage(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddMessage POST /api/v1/tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewInvalidInput("invalid payload")
	}
	msg, err := h.service.AddTicketMessage(c.UserContext(), req.AuthorID, domain.AddTicketMessageInput{
		TicketID:   c.Params("id"),
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicketMessage(msg)})
}

func parseTicketFilter(c *fiber.Ctx) *domain.TicketFilter {
	filter := &domain.TicketFilter{}
	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("assigned_to"); v != "" {
		filter.AssignedTo = &v
	}
	if v := c.Query("customer_id"); v != "" {
		filter.CustomerID = &v
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("q"); v != "" {
		filter.SearchQuery = &v
	}
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
