package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/middlewares"
	"github.com/opsalert/dispatch-console/pkg/response"
	"github.com/opsalert/dispatch-console/pkg/validator"
)

type dispatchService interface {
	Dispatch(ctx context.Context, p domain.Principal, req domain.DispatchRequest) (*domain.DispatchResult, error)
	ListLogs(ctx context.Context, p domain.Principal, status *domain.DispatchStatus, page, pageSize int) ([]domain.DispatchRecord, int64, error)
	GetLog(ctx context.Context, p domain.Principal, id string) (*domain.DispatchRecord, error)
	GetStats(ctx context.Context, p domain.Principal) (*domain.DispatchStats, error)
}

type MessageHandler struct {
	service dispatchService
}

func NewMessageHandler(service dispatchService) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendMessage godoc
// @Summary Dispatch an alert
// @Description Stages a PENDING audit record, forwards the signed payload to the workflow engine and reconciles the record
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body domain.DispatchRequest true "Alert to dispatch"
// @Success 200 {object} domain.DispatchResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/send [post]
func (h *MessageHandler) SendMessage(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	var req domain.DispatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	result, err := h.service.Dispatch(c.Request().Context(), principal, req)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetLogs godoc
// @Summary List dispatch audit records
// @Description Retrieves a paginated list of the caller's tenant audit records, newest first
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (PENDING, SUCCESS, FAILED)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/logs [get]
func (h *MessageHandler) GetLogs(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	// Convert status string to pointer (optional filter).
	var status *domain.DispatchStatus
	if statusStr := c.QueryParam("status"); statusStr != "" {
		parsed := domain.DispatchStatus(statusStr)
		if !parsed.Valid() {
			return response.BadRequest(c, fmt.Errorf("status must be one of PENDING, SUCCESS, FAILED"))
		}
		status = &parsed
	}

	records, totalCount, err := h.service.ListLogs(c.Request().Context(), principal, status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, records, page, pageSize, totalCount)
}

// GetLog godoc
// @Summary Get a dispatch audit record
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/logs/{id} [get]
func (h *MessageHandler) GetLog(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	record, err := h.service.GetLog(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if record == nil {
		return response.NotFound(c, "Dispatch record not found")
	}

	return response.Ok(c, record)
}

// GetStats godoc
// @Summary Get dispatch statistics
// @Description Returns count of the caller's tenant audit records by status
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/logs/stats [get]
func (h *MessageHandler) GetStats(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	stats, err := h.service.GetStats(c.Request().Context(), principal)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, stats)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
