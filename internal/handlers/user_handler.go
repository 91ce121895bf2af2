package handlers

import (
	"net/http"
	"strconv"

	"github.com/blogify-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	likeRepository   repositories.LikeRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, likeRepo repositories.LikeRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		likeRepository:   likeRepo,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/search", h.SearchUsers)
}

// GetProfile retrieves the authenticated user's own profile with graph counts
// and liked blogs.
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	followers, _ := h.followRepository.GetFollowersCount(actor.ID)
	following, _ := h.followRepository.GetFollowingCount(actor.ID)
	likedBlogs, _ := h.likeRepository.GetLikedBlogIDs(actor.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":            actor,
			"followers_count": followers,
			"following_count": following,
			"liked_blogs":     likedBlogs,
		},
	})
}

// UpdateProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := loadActor(c, h.userRepository)
	if err != nil {
		return err
	}

	var req struct {
		FullName        string `json:"fullname,omitempty" validate:"omitempty,min=2,max=50"`
		Bio             string `json:"bio,omitempty" validate:"omitempty,max=500"`
		ProfileImageURL string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.FullName != "" {
		actor.FullName = req.FullName
	}
	if req.Bio != "" {
		actor.Bio = req.Bio
	}
	if req.ProfileImageURL != "" {
		actor.ProfileImageURL = req.ProfileImageURL
	}

	if err := h.userRepository.UpdateUser(actor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": actor}})
}

// GetUser retrieves another user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if repositories.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, _ := h.followRepository.GetFollowersCount(user.ID)
	following, _ := h.followRepository.GetFollowingCount(user.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":            user.ToCompact(),
			"bio":             user.Bio,
			"followers_count": followers,
			"following_count": following,
		},
	})
}

// SearchUsers finds users by name or email substring
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": []any{}}})
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}
