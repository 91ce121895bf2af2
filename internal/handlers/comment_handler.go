package handlers

import (
	"net/http"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/repositories"
	"github.com/blogify-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement     *services.EngagementService
	userRepository repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.EngagementService, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		engagement:     engagement,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/blogs/:id/comments", h.AddComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.LikeComment)
	g.DELETE("/comments/:id/like", h.UnlikeComment)
}

// AddComment attaches a comment to a blog and notifies its owner
func (h *CommentHandler) AddComment(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.engagement.AddComment(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}

// DeleteComment removes a comment; only its author may do so
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.engagement.DeleteComment(c.Request().Context(), actor, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LikeComment adds the actor to a comment's like set
func (h *CommentHandler) LikeComment(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.engagement.LikeComment(c.Request().Context(), actor, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// UnlikeComment removes the actor from a comment's like set
func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.engagement.UnlikeComment(c.Request().Context(), actor, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}
