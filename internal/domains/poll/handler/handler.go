package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsroom-backend/internal/domains/poll/model"
	"newsroom-backend/internal/domains/poll/service"
	"newsroom-backend/internal/shared/middleware"
	"newsroom-backend/internal/shared/response"
)

// =====================================================
// POLL HANDLER
// =====================================================

type PollHandler struct {
	pollService service.ServiceInterface
}

func NewPollHandler(pollService service.ServiceInterface) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// CreatePoll
// POST /api/v1/polls
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req model.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	poll, err := h.pollService.CreatePoll(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, poll)
}

// GetPoll
// GET /api/v1/polls/:id
func (h *PollHandler) GetPoll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	poll, err := h.pollService.GetPoll(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, poll)
}

// Vote
// POST /api/v1/polls/:id/votes
func (h *PollHandler) Vote(c *gin.Context) {
	// Step 1: Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Step 2: Bind request body
	var req model.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service, voter key from session or client IP
	clientIP := middleware.GetClientIPFromContext(c.Request.Context())
	if err := h.pollService.Vote(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), id, clientIP, req); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"voted": true})
}

// Results
// GET /api/v1/polls/:id/results
func (h *PollHandler) Results(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	clientIP := middleware.GetClientIPFromContext(c.Request.Context())
	res, err := h.pollService.Results(c.Request.Context(), middleware.GetPrincipal(c), middleware.GetCredentials(c), id, clientIP)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// DeletePoll
// DELETE /api/v1/polls/:id
func (h *PollHandler) DeletePoll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pollService.DeletePoll(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid poll ID")
		return uuid.Nil, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	code := model.ErrCodeInternal
	message := err.Error()
	var pollErr *model.PollError
	if errors.As(err, &pollErr) {
		code = pollErr.Code
		if pollErr.Code != model.ErrCodeInternal {
			message = pollErr.Message
		}
	}

	switch {
	case errors.Is(err, model.ErrForbidden):
		response.ErrorResponse(c, http.StatusForbidden, code, message)
	case errors.Is(err, model.ErrNotFound):
		response.ErrorResponse(c, http.StatusNotFound, code, message)
	case errors.Is(err, model.ErrValidation):
		response.ErrorResponse(c, http.StatusBadRequest, code, message)
	case errors.Is(err, model.ErrConflict):
		response.ErrorResponse(c, http.StatusConflict, code, message)
	case errors.Is(err, model.ErrClosed):
		response.UnprocessableEntity(c, code, message)
	case errors.Is(err, model.ErrRateLimited):
		response.TooManyRequests(c, message)
	default:
		response.ErrorResponse(c, http.StatusInternalServerError, code, message)
	}
}
