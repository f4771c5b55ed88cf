// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/raf-advanced/maintenance-api/app/dto"
	businessflow "github.com/raf-advanced/maintenance-api/business_flow"
	"github.com/raf-advanced/maintenance-api/utils"
)

// MessageHandlerInterface defines the contract for contact message handlers
type MessageHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// MessageHandler handles contact message HTTP requests
type MessageHandler struct {
	flow      businessflow.ContactMessageFlow
	validator *validator.Validate
}

// NewMessageHandler creates a new contact message handler
func NewMessageHandler(flow businessflow.ContactMessageFlow) *MessageHandler {
	return &MessageHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *MessageHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MessageHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles the public contact form
// @Description Submit a contact message from the site.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.CreateContactMessageRequest true "Contact message"
// @Success 201 {object} dto.APIResponse{data=dto.CreateContactMessageResponse} "Message stored"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/messages [post]
func (h *MessageHandler) Create(c fiber.Ctx) error {
	var req dto.CreateContactMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, getValidationErrorMessage(validationErrors[0]), "VALIDATION_ERROR", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.CreateMessage(h.createRequestContext(c, "/api/v1/messages"), &req, metadata)
	if err != nil {
		if businessflow.IsAllFieldsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Name, phone number, and content are required", "VALIDATION_ERROR", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store contact message", "CREATE_MESSAGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns a page of contact messages
// @Description List contact messages with optional phone and date range filters.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.ListContactMessagesRequest false "Listing filters"
// @Success 200 {object} dto.APIResponse{data=dto.ListContactMessagesResponse} "Messages retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/messages/list [post]
func (h *MessageHandler) List(c fiber.Ctx) error {
	var req dto.ListContactMessagesRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	result, err := h.flow.ListMessages(h.createRequestContext(c, "/api/v1/admin/messages/list"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contact messages", "LIST_MESSAGES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

func (h *MessageHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, 30*time.Second)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
