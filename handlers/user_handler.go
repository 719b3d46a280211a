package handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/middlewares"
	"github.com/opsalert/dispatch-console/internal/repository"
	"github.com/opsalert/dispatch-console/pkg/response"
	"github.com/opsalert/dispatch-console/pkg/validator"
)

type userService interface {
	List(ctx context.Context, p domain.Principal) ([]domain.User, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	SetActive(ctx context.Context, p domain.Principal, id string, ativo bool) (*domain.User, error)
	Register(ctx context.Context, p domain.Principal, req domain.RegisterUserRequest) (*domain.User, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers godoc
// @Summary List users
// @Description Lists the users of the caller's tenant
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	users, err := h.service.List(c.Request().Context(), principal)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	user, err := h.service.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if user == nil {
		return response.NotFound(c, "User not found")
	}

	return response.Ok(c, user)
}

// RegisterUser godoc
// @Summary Register a user
// @Description Creates the Supabase Auth account and the profile row in the caller's tenant
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body domain.RegisterUserRequest true "User to register"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users/register [post]
func (h *UserHandler) RegisterUser(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	var req domain.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	user, err := h.service.Register(c.Request().Context(), principal, req)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "User registered successfully", user)
}

// SetUserActive godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body domain.SetActiveRequest true "New state"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users/{id}/active [patch]
func (h *UserHandler) SetUserActive(c echo.Context) error {
	principal, ok := middlewares.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Missing bearer token")
	}

	var req domain.SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	user, err := h.service.SetActive(c.Request().Context(), principal, c.Param("id"), *req.Ativo)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "User updated", user)
}
