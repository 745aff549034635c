package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// SubscriptionHandler handles premium entitlement endpoints.
type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Get godoc
// GET /api/v1/subscription
func (h *SubscriptionHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sub, err := h.subService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

// Create godoc
// POST /api/v1/subscription
// Activates a subscription after a completed checkout.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateSubscriptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.subService.Create(c.Request.Context(), claims.UserID, model.SubscriptionPlan(req.Plan))
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionExists) {
			response.Fail(c, http.StatusConflict, response.ErrSubscriptionExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subscription": sub})
}

// Cancel godoc
// POST /api/v1/subscription/cancel
// Turns off auto-renewal; access continues until the end date.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sub, err := h.subService.Cancel(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}

// SwitchPlan godoc
// POST /api/v1/subscription/switch
// Moves the subscription to a new plan with a fresh billing period.
func (h *SubscriptionHandler) SwitchPlan(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateSubscriptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.subService.SwitchPlan(c.Request.Context(), claims.UserID, model.SubscriptionPlan(req.Plan))
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subscription": sub})
}
