package handlers

import (
	"net/http"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles registration of browser push subscriptions
type SubscriptionHandler struct {
	subscriptions repositories.SubscriptionRepository
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions repositories.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterSubscriptionRoutes registers push subscription routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.POST("/push/subscriptions", h.SaveSubscription)
	g.DELETE("/push/subscriptions", h.DeleteSubscription)
}

// SaveSubscription stores or refreshes a push subscription for the
// authenticated user. Re-posting the same endpoint updates its keys.
func (h *SubscriptionHandler) SaveSubscription(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
	}

	var req models.SaveSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.subscriptions.Upsert(sub); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"subscribed": true}})
}

// DeleteSubscription removes a subscription by its endpoint
func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
	}

	var req struct {
		Endpoint string `json:"endpoint" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subscriptions.DeleteByEndpoint(userID, req.Endpoint); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
