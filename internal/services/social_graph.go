package services

import (
	"fmt"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/repositories"
)

// SocialGraphService owns the follow relationship. A follow is mediated
// through the notification approval workflow: requesting creates a PENDING
// FOLLOW_REQUEST notification, and the edge is only written when the target
// accepts. The edge itself is one row in the follows table, so both the
// "followers" and "following" views change with a single atomic write.
type SocialGraphService struct {
	users         repositories.UserRepository
	follows       repositories.FollowRepository
	notifications repositories.NotificationRepository
}

// NewSocialGraphService creates a new SocialGraphService
func NewSocialGraphService(users repositories.UserRepository, follows repositories.FollowRepository, notifications repositories.NotificationRepository) *SocialGraphService {
	return &SocialGraphService{
		users:         users,
		follows:       follows,
		notifications: notifications,
	}
}

// RequestFollow sends a follow request from actor to the target user. No
// graph mutation happens here; only the PENDING notification is created.
// A second request while one is still pending fails with ErrDuplicateRequest.
func (s *SocialGraphService) RequestFollow(actor *models.User, targetID uint) (*models.Notification, error) {
	if actor == nil {
		return nil, ErrAuthenticationRequired
	}
	if actor.ID == targetID {
		return nil, fmt.Errorf("follow: %w", ErrSelfReference)
	}

	target, err := s.users.GetUserByID(targetID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("user %d: %w", targetID, ErrNotFound)
		}
		return nil, err
	}

	existing, err := s.notifications.FindOpen(actor.ID, target.ID, models.NotificationFollowRequest, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("follow request to user %d: %w", targetID, ErrDuplicateRequest)
	}

	notification := &models.Notification{
		Type:        models.NotificationFollowRequest,
		SenderID:    actor.ID,
		RecipientID: target.ID,
		Status:      models.NotificationPending,
		Message:     fmt.Sprintf("%s wants to follow you", actor.FullName),
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// AcceptFollow resolves a pending follow request: the sender becomes a
// follower of the recipient and the notification flips to ACCEPTED.
func (s *SocialGraphService) AcceptFollow(recipientID, notificationID uint) error {
	notification, err := s.loadPendingFollowRequest(recipientID, notificationID)
	if err != nil {
		return err
	}

	follow := &models.Follow{
		FollowerID:  notification.SenderID,
		FollowingID: notification.RecipientID,
	}
	if err := s.follows.CreateFollow(follow); err != nil {
		return err
	}
	return s.notifications.UpdateStatus(notification.ID, models.NotificationAccepted)
}

// RejectFollow resolves a pending follow request without touching the graph.
func (s *SocialGraphService) RejectFollow(recipientID, notificationID uint) error {
	notification, err := s.loadPendingFollowRequest(recipientID, notificationID)
	if err != nil {
		return err
	}
	return s.notifications.UpdateStatus(notification.ID, models.NotificationRejected)
}

func (s *SocialGraphService) loadPendingFollowRequest(recipientID, notificationID uint) (*models.Notification, error) {
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
		}
		return nil, err
	}
	if notification.RecipientID != recipientID {
		return nil, fmt.Errorf("notification %d: %w", notificationID, ErrForbidden)
	}
	if notification.Type != models.NotificationFollowRequest || notification.Status != models.NotificationPending {
		return nil, fmt.Errorf("notification %d: %w", notificationID, ErrInvalidState)
	}
	return notification, nil
}

// Unfollow removes the actor→target edge. Unfollowing a user that is not
// followed succeeds silently and leaves the graph unchanged.
func (s *SocialGraphService) Unfollow(actorID, targetID uint) error {
	if actorID == targetID {
		return fmt.Errorf("unfollow: %w", ErrSelfReference)
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("user %d: %w", targetID, ErrNotFound)
		}
		return err
	}
	return s.follows.DeleteFollow(actorID, targetID)
}

// IsFollowing reports whether actor currently follows target.
func (s *SocialGraphService) IsFollowing(actorID, targetID uint) (bool, error) {
	return s.follows.IsFollowing(actorID, targetID)
}

// Followers returns the users following userID.
func (s *SocialGraphService) Followers(userID uint) ([]models.User, error) {
	return s.follows.GetFollowers(userID)
}

// Following returns the users userID follows.
func (s *SocialGraphService) Following(userID uint) ([]models.User, error) {
	return s.follows.GetFollowing(userID)
}
