// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mylist-service/internal/app/service"
	"mylist-service/internal/domain"
	"mylist-service/internal/transport/httpserver/dto"
	"mylist-service/internal/transport/httpserver/middleware"
	"mylist-service/internal/validator"
)

// MyListHandler handles the list endpoints.
type MyListHandler struct {
	service   *service.ListService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewMyListHandler creates a new MyListHandler.
func NewMyListHandler(svc *service.ListService, v *validator.Validator, logger *zap.Logger) *MyListHandler {
	return &MyListHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Add handles POST /mylist
func (h *MyListHandler) Add(c *fiber.Ctx) error {
	var req dto.AddToListRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(
			"invalid request body", "malformed JSON",
		))
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(
			"validation failed", err.Error(),
		))
	}

	entry, err := h.service.Add(c.Context(), middleware.UserID(c), req.ContentID, domain.ContentType(req.ContentType))
	if err != nil {
		return h.errorResponse(c, err, "failed to add content to list")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(
		"content added to list", dto.FromDomainEntry(entry),
	))
}

// Remove handles DELETE /mylist/:contentId
func (h *MyListHandler) Remove(c *fiber.Ctx) error {
	contentID := c.Params("contentId")
	if contentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(
			"content id is required", "missing contentId path parameter",
		))
	}

	if err := h.service.Remove(c.Context(), middleware.UserID(c), contentID); err != nil {
		return h.errorResponse(c, err, "failed to remove content from list")
	}

	return c.JSON(dto.OK("content removed from list", nil))
}

// List handles GET /mylist
func (h *MyListHandler) List(c *fiber.Ctx) error {
	var query dto.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(
			"invalid query parameters", err.Error(),
		))
	}

	params, err := query.ToPageParams()
	if err != nil {
		return h.errorResponse(c, err, "invalid pagination parameters")
	}

	page, err := h.service.List(c.Context(), middleware.UserID(c), params)
	if err != nil {
		return h.errorResponse(c, err, "failed to fetch list")
	}

	return c.JSON(dto.OK("list fetched", dto.FromPagedList(page)))
}

// Check handles GET /mylist/check/:contentId
func (h *MyListHandler) Check(c *fiber.Ctx) error {
	contentID := c.Params("contentId")
	if contentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(
			"content id is required", "missing contentId path parameter",
		))
	}

	inList, err := h.service.IsInList(c.Context(), middleware.UserID(c), contentID)
	if err != nil {
		return h.errorResponse(c, err, "failed to check list membership")
	}

	return c.JSON(dto.OK("membership checked", dto.CheckResponse{InList: inList}))
}

// Count handles GET /mylist/count
func (h *MyListHandler) Count(c *fiber.Ctx) error {
	count, err := h.service.Count(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.errorResponse(c, err, "failed to count list entries")
	}

	return c.JSON(dto.OK("list counted", dto.CountResponse{Count: count}))
}

// errorResponse maps a service error onto status code and envelope. Internal
// error text never reaches the client for 5xx responses.
func (h *MyListHandler) errorResponse(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(message, err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(message, "UNAUTHORIZED"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(message, "NOT_FOUND"))
	case errors.Is(err, domain.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(message, "ALREADY_EXISTS"))
	case errors.Is(err, domain.ErrUnavailable):
		h.logger.Error("dependency unavailable",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Fail(
			"service temporarily unavailable", "UNAVAILABLE",
		))
	default:
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(
			"internal server error", "INTERNAL_ERROR",
		))
	}
}
