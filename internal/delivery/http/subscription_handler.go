package http

import (
	"net/http"
	"strconv"
	"strings"

	"market-daily/internal/dto"
	"market-daily/internal/entity"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles HTTP requests for email subscriptions.
type SubscriptionHandler struct {
	subscriptionRepo repository.SubscriptionRepository
	logger           *logger.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionRepo repository.SubscriptionRepository, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionRepo: subscriptionRepo, logger: logger}
}

// RegisterRoutes registers the subscription routes to the Echo group.
func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSubscription)
	g.GET("", h.ListSubscriptions)
	g.DELETE("/:id", h.DeleteSubscription)
}

// CreateSubscription registers a new active subscription.
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req dto.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "A valid email is required"})
	}

	sub := &entity.EmailSubscription{
		Email:       req.Email,
		PortfolioID: req.PortfolioID,
		IsActive:    true,
	}
	if err := h.subscriptionRepo.Create(c.Request().Context(), sub); err != nil {
		h.logger.Error("failed to create subscription", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create subscription"})
	}
	return c.JSON(http.StatusCreated, sub)
}

// ListSubscriptions returns all subscriptions.
func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	subs, err := h.subscriptionRepo.FindAll(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list subscriptions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list subscriptions"})
	}
	return c.JSON(http.StatusOK, subs)
}

// DeleteSubscription removes a subscription by ID.
func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid subscription ID"})
	}

	if err := h.subscriptionRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		h.logger.Error("failed to delete subscription", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete subscription"})
	}
	return c.NoContent(http.StatusNoContent)
}
