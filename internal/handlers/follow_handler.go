package handlers

import (
	"net/http"
	"strconv"

	"github.com/blogify-app/backend/internal/repositories"
	"github.com/blogify-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles the follow request workflow and graph queries
type FollowHandler struct {
	socialGraph    *services.SocialGraphService
	userRepository repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(socialGraph *services.SocialGraphService, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		socialGraph:    socialGraph,
		userRepository: userRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.RequestFollow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:id/follow/status", h.GetFollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.POST("/follow-requests/:id/accept", h.AcceptFollow)
	g.POST("/follow-requests/:id/reject", h.RejectFollow)
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}

// RequestFollow sends a follow request to the target user. The follow edge is
// not created until the target accepts.
func (h *FollowHandler) RequestFollow(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	notification, err := h.socialGraph.RequestFollow(actor, targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"request": notification}})
}

// AcceptFollow accepts a pending follow request addressed to the actor
func (h *FollowHandler) AcceptFollow(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialGraph.AcceptFollow(actorID, notificationID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": "accepted"}})
}

// RejectFollow rejects a pending follow request addressed to the actor
func (h *FollowHandler) RejectFollow(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialGraph.RejectFollow(actorID, notificationID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": "rejected"}})
}

// Unfollow removes the actor's follow edge to the target, silently succeeding
// when none exists
func (h *FollowHandler) Unfollow(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialGraph.Unfollow(actorID, targetID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowStatus reports whether the actor follows the target
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	following, err := h.socialGraph.IsFollowing(actorID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

// GetFollowers lists the users following :id
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.socialGraph.Followers(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

// GetFollowing lists the users :id follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.socialGraph.Following(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}
