// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/raf-advanced/maintenance-api/app/dto"
	"github.com/raf-advanced/maintenance-api/app/middleware"
	businessflow "github.com/raf-advanced/maintenance-api/business_flow"
	"github.com/raf-advanced/maintenance-api/utils"
)

// Wire strings of the public maintenance endpoint. The site frontend matches
// on these exact messages, so they stay stable across refactors.
const (
	msgAllFieldsRequired = "All fields are required"
	msgSubmitFailed      = "Failed to process maintenance request. Please try again later."
)

// MaintenanceHandlerInterface defines the contract for maintenance handlers
type MaintenanceHandlerInterface interface {
	Submit(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// MaintenanceHandler handles maintenance request HTTP requests
type MaintenanceHandler struct {
	flow      businessflow.MaintenanceFlow
	validator *validator.Validate
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(flow businessflow.MaintenanceFlow) *MaintenanceHandler {
	return &MaintenanceHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *MaintenanceHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MaintenanceHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Submit handles the public maintenance request form
// @Description Submit a building maintenance request. Allocates a sequential order code, stores the request, and emails the maintenance desk.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.SubmitMaintenanceRequest true "Maintenance request form"
// @Success 200 {object} dto.SubmitMaintenanceResponse "Request submitted successfully"
// @Failure 400 {object} dto.APIResponse "A required field is missing"
// @Failure 500 {object} dto.APIResponse "Request could not be processed"
// @Router /api/maintenance [post]
func (h *MaintenanceHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitMaintenanceRequest
	if err := c.Bind().JSON(&req); err != nil {
		// An unreadable body is a processing failure on this endpoint, not a
		// validation failure; the frontend only distinguishes the two wire
		// messages.
		middleware.CountSubmission("failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: msgSubmitFailed,
		})
	}

	if err := h.validator.Struct(req); err != nil {
		middleware.CountSubmission("rejected")
		return c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{
			Success: false,
			Message: msgAllFieldsRequired,
		})
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.SubmitRequest(h.createRequestContext(c, "/api/maintenance"), &req, metadata)
	if err != nil {
		if businessflow.IsAllFieldsRequired(err) {
			middleware.CountSubmission("rejected")
			return c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{
				Success: false,
				Message: msgAllFieldsRequired,
			})
		}
		// Allocation, persistence, and notification failures all collapse to
		// the same public message; the stage code stays in the server logs.
		middleware.CountSubmission("failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: msgSubmitFailed,
		})
	}

	middleware.CountSubmission("submitted")
	return c.Status(fiber.StatusOK).JSON(result)
}

// Get retrieves a maintenance request by order code
// @Description Retrieve a single maintenance request by its public order code.
// @Tags Maintenance
// @Produce json
// @Param orderCode path string true "Order code"
// @Success 200 {object} dto.APIResponse{data=dto.GetMaintenanceRequestResponse} "Request retrieved"
// @Failure 400 {object} dto.APIResponse "Order code is not numeric"
// @Failure 404 {object} dto.APIResponse "No request with that order code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/maintenance/{orderCode} [get]
func (h *MaintenanceHandler) Get(c fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	result, err := h.flow.GetByOrderCode(h.createRequestContext(c, "/api/v1/admin/maintenance/:orderCode"), orderCode)
	if err != nil {
		if businessflow.IsInvalidOrderCode(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid order code", "INVALID_ORDER_CODE", nil)
		}
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Maintenance request not found", "REQUEST_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve maintenance request", "GET_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// List returns a page of maintenance requests
// @Description List maintenance requests with optional phone, project, and date range filters.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.ListMaintenanceRequestsRequest false "Listing filters"
// @Success 200 {object} dto.APIResponse{data=dto.ListMaintenanceRequestsResponse} "Requests retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/maintenance/list [post]
func (h *MaintenanceHandler) List(c fiber.Ctx) error {
	var req dto.ListMaintenanceRequestsRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	result, err := h.flow.ListRequests(h.createRequestContext(c, "/api/v1/admin/maintenance/list"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list maintenance requests", "LIST_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Export downloads the matching maintenance requests as an xlsx workbook
// @Description Export maintenance requests matching the filters as an Excel file.
// @Tags Maintenance
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ListMaintenanceRequestsRequest false "Export filters"
// @Success 200 {file} binary "Workbook download"
// @Failure 400 {object} dto.APIResponse "Invalid filters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/maintenance/export [post]
func (h *MaintenanceHandler) Export(c fiber.Ctx) error {
	var req dto.ListMaintenanceRequestsRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	// Export walks the full result set; give it a longer deadline than the
	// regular store timeout
	filename, content, err := h.flow.ExportRequestsExcel(h.createRequestContextWithTimeout(c, "/api/v1/admin/maintenance/export", 60*time.Second), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_DATE_RANGE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export maintenance requests", "EXPORT_REQUESTS_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *MaintenanceHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *MaintenanceHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
