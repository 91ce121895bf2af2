package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/push"
	"github.com/blogify-app/backend/internal/repositories"
)

// EngagementService owns likes, comments and publishing, together with the
// notification and push side effects each of them triggers. The primary state
// mutation is always committed before the matching push dispatch is enqueued.
type EngagementService struct {
	blogs         repositories.BlogRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	follows       repositories.FollowRepository
	notifications *NotificationEngine
	dispatcher    push.Dispatcher

	fanouts sync.WaitGroup
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	blogs repositories.BlogRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	follows repositories.FollowRepository,
	notifications *NotificationEngine,
	dispatcher push.Dispatcher,
) *EngagementService {
	return &EngagementService{
		blogs:         blogs,
		comments:      comments,
		likes:         likes,
		follows:       follows,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

func blogURL(blogID string) string {
	return "/blog/" + blogID
}

// ToggleLikeOnBlog likes the blog if the actor has not liked it, unlikes it
// otherwise. The like edge, the blog's counter and the LIKE notification are
// all driven by the same membership check so they cannot diverge between the
// like and unlike paths. Returns true when the blog ends up liked.
func (s *EngagementService) ToggleLikeOnBlog(ctx context.Context, actor *models.User, blogID string) (bool, error) {
	if actor == nil {
		return false, ErrAuthenticationRequired
	}

	blog, err := s.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, fmt.Errorf("blog %q: %w", blogID, ErrNotFound)
		}
		return false, err
	}
	if blog.CreatedBy == actor.ID {
		return false, fmt.Errorf("blog %q: %w", blogID, ErrSelfEngagement)
	}

	liked, err := s.likes.HasUserLikedBlog(blogID, actor.ID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likes.DeleteLike(blogID, actor.ID); err != nil {
			return false, err
		}
		if err := s.blogs.IncLikesCount(ctx, blogID, -1); err != nil {
			log.Printf("engagement: decrementing like counter of blog %s: %v", blogID, err)
		}
		// Remove the matching LIKE notification even when the recipient
		// already read it.
		if err := s.notifications.RemoveLike(actor.ID, blog.CreatedBy, blogID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.likes.CreateLike(&models.Like{UserID: actor.ID, BlogID: blogID}); err != nil {
		return false, err
	}
	if err := s.blogs.IncLikesCount(ctx, blogID, 1); err != nil {
		log.Printf("engagement: incrementing like counter of blog %s: %v", blogID, err)
	}

	message := fmt.Sprintf("%s liked your post: %s", actor.FullName, blog.Title)
	created, err := s.notifications.AddLike(actor.ID, blog.CreatedBy, blogID, message)
	if err != nil {
		return true, err
	}
	if created {
		s.dispatcher.Dispatch(blog.CreatedBy, push.Payload{
			Title: "New like",
			Body:  message,
			Icon:  actor.ProfileImageURL,
			Image: blog.CoverImageURL,
			URL:   blogURL(blogID),
		})
	}
	return true, nil
}

// AddComment attaches a comment to the blog and, unless the commenter owns
// the blog, notifies the owner. Every comment notifies: COMMENT records are
// never deduplicated.
func (s *EngagementService) AddComment(ctx context.Context, actor *models.User, blogID, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("comment: %w", ErrEmptyContent)
	}

	blog, err := s.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("blog %q: %w", blogID, ErrNotFound)
		}
		return nil, err
	}

	comment := &models.Comment{
		BlogID:    blogID,
		Content:   content,
		CreatedBy: actor.ID,
		Likes:     []uint{},
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.blogs.IncCommentsCount(ctx, blogID, 1); err != nil {
		log.Printf("engagement: incrementing comment counter of blog %s: %v", blogID, err)
	}

	if actor.ID != blog.CreatedBy {
		commentID := comment.ID.Hex()
		message := fmt.Sprintf("%s commented on your post: %s", actor.FullName, blog.Title)
		// The comment is already committed; a notification failure must
		// not turn the request into an error.
		if _, err := s.notifications.Create(CreateParams{
			Kind:        models.NotificationComment,
			SenderID:    actor.ID,
			RecipientID: blog.CreatedBy,
			BlogID:      &blogID,
			CommentID:   &commentID,
			Message:     message,
		}); err != nil {
			log.Printf("engagement: creating comment notification for user %d: %v", blog.CreatedBy, err)
		} else {
			s.dispatcher.Dispatch(blog.CreatedBy, push.Payload{
				Title: "New comment",
				Body:  message,
				Icon:  actor.ProfileImageURL,
				Image: blog.CoverImageURL,
				URL:   blogURL(blogID),
			})
		}
	}
	return comment, nil
}

// PublishBlog creates the blog and fans a POST notification plus a push out
// to every follower. The fan-out is proportional to follower count and runs
// in the background; the publish response never waits for it.
func (s *EngagementService) PublishBlog(ctx context.Context, actor *models.User, req models.CreateBlogRequest) (*models.Blog, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}

	blog := &models.Blog{
		Title:         req.Title,
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     actor.ID,
	}
	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		return nil, err
	}

	actorCopy := *actor
	blogCopy := *blog
	s.fanouts.Add(1)
	go func() {
		defer s.fanouts.Done()
		s.notifyFollowers(&actorCopy, &blogCopy)
	}()

	return blog, nil
}

func (s *EngagementService) notifyFollowers(actor *models.User, blog *models.Blog) {
	followerIDs, err := s.follows.GetFollowerIDs(actor.ID)
	if err != nil {
		log.Printf("engagement: loading followers of user %d: %v", actor.ID, err)
		return
	}

	blogID := blog.ID.Hex()
	message := fmt.Sprintf("%s published a new blog: %s", actor.FullName, blog.Title)
	for _, followerID := range followerIDs {
		if _, err := s.notifications.Create(CreateParams{
			Kind:        models.NotificationPost,
			SenderID:    actor.ID,
			RecipientID: followerID,
			BlogID:      &blogID,
			Message:     message,
		}); err != nil {
			log.Printf("engagement: creating post notification for user %d: %v", followerID, err)
			continue
		}
		s.dispatcher.Dispatch(followerID, push.Payload{
			Title: "New post",
			Body:  message,
			Icon:  actor.ProfileImageURL,
			Image: blog.CoverImageURL,
			URL:   blogURL(blogID),
		})
	}
}

// WaitForFanouts blocks until background publish fan-outs have finished.
// Called on shutdown so pending notifications are not lost.
func (s *EngagementService) WaitForFanouts() {
	s.fanouts.Wait()
}

// DeleteBlog removes the blog and cascades: its comments, its like edges and
// every notification referencing it go with it.
func (s *EngagementService) DeleteBlog(ctx context.Context, actor *models.User, blogID string) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}

	blog, err := s.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("blog %q: %w", blogID, ErrNotFound)
		}
		return err
	}
	if blog.CreatedBy != actor.ID {
		return fmt.Errorf("blog %q: %w", blogID, ErrForbidden)
	}

	if err := s.blogs.DeleteBlog(ctx, blogID); err != nil {
		return err
	}
	if err := s.comments.DeleteCommentsByBlogID(ctx, blogID); err != nil {
		return err
	}
	if err := s.likes.DeleteLikesByBlogID(blogID); err != nil {
		return err
	}
	return s.notifications.OnBlogDeleted(blogID)
}

// DeleteComment removes a comment; only its author may do so. Notifications
// referencing the comment are cascaded.
func (s *EngagementService) DeleteComment(ctx context.Context, actor *models.User, commentID string) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
		}
		return err
	}
	if comment.CreatedBy != actor.ID {
		return fmt.Errorf("comment %q: %w", commentID, ErrForbidden)
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if err := s.blogs.IncCommentsCount(ctx, comment.BlogID, -1); err != nil {
		log.Printf("engagement: decrementing comment counter of blog %s: %v", comment.BlogID, err)
	}
	return s.notifications.OnCommentDeleted(commentID)
}

// LikeComment adds the actor to the comment's like set. Liking a comment
// twice fails.
func (s *EngagementService) LikeComment(ctx context.Context, actor *models.User, commentID string) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}
	modified, err := s.comments.AddLike(ctx, commentID, actor.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
		}
		return err
	}
	if !modified {
		return fmt.Errorf("comment %q already liked: %w", commentID, ErrDuplicateRequest)
	}
	return nil
}

// UnlikeComment removes the actor from the comment's like set. Unliking a
// comment that was not liked fails.
func (s *EngagementService) UnlikeComment(ctx context.Context, actor *models.User, commentID string) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}
	modified, err := s.comments.RemoveLike(ctx, commentID, actor.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
		}
		return err
	}
	if !modified {
		return fmt.Errorf("comment %q not liked: %w", commentID, ErrInvalidState)
	}
	return nil
}
