package handlers

import (
	"net/http"
	"strconv"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/repositories"
	"github.com/blogify-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BlogHandler handles HTTP requests related to blogs
type BlogHandler struct {
	engagement        *services.EngagementService
	blogRepository    repositories.BlogRepository
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
	likeRepository    repositories.LikeRepository
	followRepository  repositories.FollowRepository
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(
	engagement *services.EngagementService,
	blogRepo repositories.BlogRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	followRepo repositories.FollowRepository,
) *BlogHandler {
	return &BlogHandler{
		engagement:        engagement,
		blogRepository:    blogRepo,
		commentRepository: commentRepo,
		userRepository:    userRepo,
		likeRepository:    likeRepo,
		followRepository:  followRepo,
	}
}

// RegisterBlogRoutes registers blog-related routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/blogs", h.PublishBlog)
	g.GET("/blogs", h.GetBlogs)
	g.GET("/blogs/search", h.SearchBlogs)
	g.GET("/blogs/:id", h.GetBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)
	g.POST("/blogs/:id/like", h.ToggleLike)
	g.GET("/feed", h.GetFeed)
}

// PublishBlog creates a blog and kicks off the follower fan-out in the
// background; the response never waits for it.
func (h *BlogHandler) PublishBlog(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blog, err := h.engagement.PublishBlog(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"blog": blog}})
}

// GetBlog returns a blog with its creator, liker ids and comments
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blogID := c.Param("id")
	ctx := c.Request().Context()

	blog, err := h.blogRepository.GetBlogByID(ctx, blogID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	creator := models.UserCompact{}
	if user, err := h.userRepository.GetUserByID(blog.CreatedBy); err == nil {
		creator = user.ToCompact()
	}

	likerIDs, _ := h.likeRepository.GetLikerIDs(blogID)
	// The edge table is authoritative for the count; the document counter is
	// only a denormalized copy.
	likesCount, _ := h.likeRepository.GetLikesCountByBlogID(blogID)
	comments, err := h.commentRepository.GetCommentsByBlogID(ctx, blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"blog":        blog,
			"creator":     creator,
			"likes":       likerIDs,
			"likes_count": likesCount,
			"comments":    comments,
			"commenters":  h.commenterProfiles(comments),
		},
	})
}

// commenterProfiles resolves the distinct comment authors to compact profiles
// keyed by user id.
func (h *BlogHandler) commenterProfiles(comments []models.Comment) map[uint]models.UserCompact {
	seen := make(map[uint]bool, len(comments))
	ids := make([]uint, 0, len(comments))
	for _, comment := range comments {
		if !seen[comment.CreatedBy] {
			seen[comment.CreatedBy] = true
			ids = append(ids, comment.CreatedBy)
		}
	}

	profiles := make(map[uint]models.UserCompact, len(ids))
	users, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return profiles
	}
	for i := range users {
		profiles[users[i].ID] = users[i].ToCompact()
	}
	return profiles
}

// GetBlogs returns blogs, newest first, optionally paginated
func (h *BlogHandler) GetBlogs(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	blogs, err := h.blogRepository.GetBlogs(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blogs": blogs}})
}

// SearchBlogs finds blogs by title or body substring
func (h *BlogHandler) SearchBlogs(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blogs": []any{}}})
	}

	blogs, err := h.blogRepository.SearchBlogs(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blogs": blogs}})
}

// GetFeed returns blogs authored by the users the actor follows
func (h *BlogHandler) GetFeed(c echo.Context) error {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetBlogsByUserIDs(c.Request().Context(), followingIDs, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blogs": blogs}})
}

// DeleteBlog removes a blog and cascades its comments, likes and
// notifications
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.engagement.DeleteBlog(c.Request().Context(), actor, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a blog for the actor
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	liked, err := h.engagement.ToggleLikeOnBlog(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}})
}
