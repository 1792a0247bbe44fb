package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/dealerdesk/triage-service/internal/api/dto"
	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/repository"
	"github.com/dealerdesk/triage-service/internal/service"
	apperrors "github.com/dealerdesk/triage-service/pkg/util/errorutil"
)

// TriageHandler exposes classification and automation endpoints.
type TriageHandler struct {
	triage *service.TriageService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(triage *service.TriageService) *TriageHandler {
	return &TriageHandler{triage: triage}
}

// Classify handles POST /v1/tickets/classify. Classification only, no
// automation stage. The refresh flag bypasses the cache and stored record.
func (h *TriageHandler) Classify(c *fiber.Ctx) error {
	payload, err := parseTicket(c)
	if err != nil {
		return err
	}

	result, err := h.triage.Classify(c.UserContext(), payload.ToDomain(), payload.Refresh)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toTriageResponse(result)})
}

// Triage handles POST /v1/tickets/triage. Runs the full pipeline including
// Tier 1 automation.
func (h *TriageHandler) Triage(c *fiber.Ctx) error {
	payload, err := parseTicket(c)
	if err != nil {
		return err
	}

	result, err := h.triage.Triage(c.UserContext(), payload.ToDomain(), payload.Refresh)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toTriageResponse(result)})
}

// TriageBatch handles POST /v1/tickets/classify/batch.
func (h *TriageHandler) TriageBatch(c *fiber.Ctx) error {
	var req dto.BatchTriageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Tickets) == 0 {
		return fiber.NewError(http.StatusBadRequest, "tickets required")
	}

	tickets := make([]domain.Ticket, 0, len(req.Tickets))
	for _, payload := range req.Tickets {
		if strings.TrimSpace(payload.ID) == "" {
			return fiber.NewError(http.StatusBadRequest, "every ticket needs an id")
		}
		tickets = append(tickets, payload.ToDomain())
	}

	results := h.triage.TriageBatch(c.UserContext(), tickets)
	items := make([]dto.BatchTriageItem, 0, len(results))
	for _, r := range results {
		item := dto.BatchTriageItem{TicketID: r.TicketID}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else if r.Result != nil {
			resp := toTriageResponse(r.Result)
			item.Result = &resp
		}
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClassification handles GET /v1/classifications/:ticketID.
func (h *TriageHandler) GetClassification(c *fiber.Ctx) error {
	ticketID := strings.TrimSpace(c.Params("ticketID"))
	if ticketID == "" {
		return fiber.NewError(http.StatusBadRequest, "ticket id required")
	}

	cl, run, err := h.triage.GetClassification(c.UserContext(), ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("classification", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"classification": dto.FromClassification(*cl),
		"run":            dto.FromRun(run),
	}})
}

// GetRun handles GET /v1/runs/:runID.
func (h *TriageHandler) GetRun(c *fiber.Ctx) error {
	runID := strings.TrimSpace(c.Params("runID"))
	if runID == "" {
		return fiber.NewError(http.StatusBadRequest, "run id required")
	}

	run, err := h.triage.GetRun(c.UserContext(), runID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("automation run", map[string]any{"run_id": runID})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromRun(run)})
}

// ListCancellations handles GET /v1/cancellations.
func (h *TriageHandler) ListCancellations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	records, err := h.triage.ListCancellations(c.UserContext(), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.CancellationResponse, 0, len(records))
	for _, record := range records {
		out = append(out, dto.FromCancellation(record))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ListClassifications handles GET /v1/classifications with optional
// category, sub_category, tier, dealer_id, from, and to query filters.
func (h *TriageHandler) ListClassifications(c *fiber.Ctx) error {
	filter := repository.ClassificationFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		category := domain.Category(v)
		if !domain.CategoryValid(category) {
			return fiber.NewError(http.StatusBadRequest, "unknown category")
		}
		filter.Category = &category
	}
	if v := strings.TrimSpace(c.Query("sub_category")); v != "" {
		subCategory := domain.SubCategory(v)
		if !domain.SubCategoryValid(subCategory) {
			return fiber.NewError(http.StatusBadRequest, "unknown sub_category")
		}
		filter.SubCategory = &subCategory
	}
	if v := c.QueryInt("tier", 0); v != 0 {
		tier := domain.Tier(v)
		filter.Tier = &tier
	}
	if v := strings.TrimSpace(c.Query("dealer_id")); v != "" {
		filter.DealerID = &v
	}
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "from must be RFC 3339")
		}
		filter.CreatedFrom = &ts
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "to must be RFC 3339")
		}
		filter.CreatedTo = &ts
	}

	records, err := h.triage.ListClassifications(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.ClassificationResponse, 0, len(records))
	for _, cl := range records {
		out = append(out, dto.FromClassification(cl))
	}
	return c.JSON(fiber.Map{"data": out})
}

// AuditTrail handles GET /v1/audit/:entityType/:entityID.
func (h *TriageHandler) AuditTrail(c *fiber.Ctx) error {
	entityType := strings.TrimSpace(c.Params("entityType"))
	entityID := strings.TrimSpace(c.Params("entityID"))
	if entityType == "" || entityID == "" {
		return fiber.NewError(http.StatusBadRequest, "entity type and id required")
	}

	entries, err := h.triage.AuditTrail(c.UserContext(), entityType, entityID)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.FromAuditEntry(entry))
	}
	return c.JSON(fiber.Map{"data": out})
}

func parseTicket(c *fiber.Ctx) (dto.TicketPayload, error) {
	var payload dto.TicketPayload
	if err := c.BodyParser(&payload); err != nil {
		return dto.TicketPayload{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.ID) == "" {
		return dto.TicketPayload{}, fiber.NewError(http.StatusBadRequest, "ticket id required")
	}
	if strings.TrimSpace(payload.Subject) == "" && strings.TrimSpace(payload.Description) == "" {
		return dto.TicketPayload{}, fiber.NewError(http.StatusBadRequest, "subject or description required")
	}
	return payload, nil
}

func toTriageResponse(result *service.TriageResult) dto.TriageResponse {
	return dto.TriageResponse{
		Classification:    dto.FromClassification(result.Classification),
		SuggestedResponse: result.SuggestedResponse,
		Run:               dto.FromRun(result.Run),
		FromCache:         result.FromCache,
		AutomationSkipped: result.AutomationSkipped,
	}
}
