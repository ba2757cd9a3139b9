package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	user "newsroom-backend/internal/domains/user"
	"newsroom-backend/internal/shared/middleware"
	"newsroom-backend/internal/shared/response"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Login
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Refresh
// POST /api/v1/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req user.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetMe
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	dto, err := h.service.GetMe(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// CreateUser
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateUser(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

func handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", vErrs)
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrInvalidToken):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, user.ErrUserInactive), errors.Is(err, user.ErrForbidden), errors.Is(err, user.ErrRoleAboveGranter):
		response.Forbidden(c, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, err.Error())
	}
}
