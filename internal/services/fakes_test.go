package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blogify-app/backend/internal/models"
	"github.com/blogify-app/backend/internal/push"
	"github.com/blogify-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They guard all state with a mutex because the
// publish fan-out touches them from a background goroutine.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) addUser(fullName, email string) *models.User {
	u := &models.User{FullName: fullName, Email: email}
	if err := r.CreateUser(u); err != nil {
		panic(err)
	}
	return u
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var users []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.FullName), q) || strings.Contains(strings.ToLower(u.Email), q) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}

type followKey struct {
	follower, following uint
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[followKey]bool
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[followKey]bool{}, users: users}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[followKey{follow.FollowerID, follow.FollowingID}] = true
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, followKey{followerID, followingID})
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[followKey{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowerIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowerIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for k := range r.edges {
		if k.following == userID {
			ids = append(ids, k.follower)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for k := range r.edges {
		if k.follower == userID {
			ids = append(ids, k.following)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	ids, _ := r.GetFollowerIDs(userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return int64(len(ids)), nil
}

type likeKey struct {
	userID uint
	blogID string
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]bool{}}
}

func (r *fakeLikeRepo) CreateLike(like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[likeKey{like.UserID, like.BlogID}] = true
	return nil
}

func (r *fakeLikeRepo) DeleteLike(blogID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{userID, blogID}
	if !r.likes[k] {
		return fmt.Errorf("like for blog %s: %w", blogID, repositories.ErrNotFound)
	}
	delete(r.likes, k)
	return nil
}

func (r *fakeLikeRepo) DeleteLikesByBlogID(blogID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.likes {
		if k.blogID == blogID {
			delete(r.likes, k)
		}
	}
	return nil
}

func (r *fakeLikeRepo) HasUserLikedBlog(blogID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[likeKey{userID, blogID}], nil
}

func (r *fakeLikeRepo) GetLikerIDs(blogID string) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for k := range r.likes {
		if k.blogID == blogID {
			ids = append(ids, k.userID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeLikeRepo) GetLikedBlogIDs(userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for k := range r.likes {
		if k.userID == userID {
			ids = append(ids, k.blogID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeLikeRepo) GetLikesCountByBlogID(blogID string) (int64, error) {
	ids, _ := r.GetLikerIDs(blogID)
	return int64(len(ids)), nil
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	nextID    uint
	items     map[uint]*models.Notification
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: map[uint]*models.Notification{}}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	notification.ID = r.nextID
	if notification.Status == "" {
		notification.Status = models.NotificationPending
	}
	notification.CreatedAt = time.Now()
	stored := *notification
	r.items[notification.ID] = &stored
	return nil
}

func (r *fakeNotificationRepo) GetByID(id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []models.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			notifications = append(notifications, *n)
		}
	}
	// Newest first, creation order breaks timestamp ties.
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].ID > notifications[j].ID
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func blogIDMatches(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeNotificationRepo) FindOpen(senderID, recipientID uint, kind models.NotificationType, blogID *string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.SenderID == senderID && n.RecipientID == recipientID && n.Type == kind &&
			n.Status == models.NotificationPending && blogIDMatches(n.BlogID, blogID) {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) UpdateStatus(id uint, status models.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	n.Status = status
	return nil
}

func (r *fakeNotificationRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeNotificationRepo) DeleteMatching(senderID, recipientID uint, kind models.NotificationType, blogID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.items {
		if n.SenderID == senderID && n.RecipientID == recipientID && n.Type == kind && blogIDMatches(n.BlogID, blogID) {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByBlogID(blogID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.items {
		if n.BlogID != nil && *n.BlogID == blogID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByCommentID(commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.items {
		if n.CommentID != nil && *n.CommentID == commentID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && n.Status == models.NotificationPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) CountByTuple(senderID, recipientID uint, kind models.NotificationType, blogID *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.SenderID != senderID || n.RecipientID != recipientID || n.Type != kind {
			continue
		}
		if blogID != nil && (n.BlogID == nil || *n.BlogID != *blogID) {
			continue
		}
		count++
	}
	return count, nil
}

type fakeBlogRepo struct {
	mu    sync.Mutex
	blogs map[string]*models.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: map[string]*models.Blog{}}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	stored := *blog
	r.blogs[blog.ID.Hex()] = &stored
	return nil
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, fmt.Errorf("blog %q: %w", id, repositories.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBlogRepo) GetBlogs(_ context.Context, _, _ int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blogs []models.Blog
	for _, b := range r.blogs {
		blogs = append(blogs, *b)
	}
	return blogs, nil
}

func (r *fakeBlogRepo) GetBlogsByUserIDs(_ context.Context, userIDs []uint, _, _ int64) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := map[uint]bool{}
	for _, id := range userIDs {
		members[id] = true
	}
	var blogs []models.Blog
	for _, b := range r.blogs {
		if members[b.CreatedBy] {
			blogs = append(blogs, *b)
		}
	}
	return blogs, nil
}

func (r *fakeBlogRepo) SearchBlogs(_ context.Context, query string) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var blogs []models.Blog
	for _, b := range r.blogs {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Body), q) {
			blogs = append(blogs, *b)
		}
	}
	return blogs, nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return fmt.Errorf("blog %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.blogs, id)
	return nil
}

func (r *fakeBlogRepo) IncLikesCount(_ context.Context, blogID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[blogID]; ok {
		b.LikesCount += delta
	}
	return nil
}

func (r *fakeBlogRepo) IncCommentsCount(_ context.Context, blogID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blogs[blogID]; ok {
		b.CommentsCount += delta
	}
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*models.Comment{}}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []uint{}
	}
	stored := *comment
	r.comments[comment.ID.Hex()] = &stored
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %q: %w", id, repositories.ErrNotFound)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) GetCommentsByBlogID(_ context.Context, blogID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []models.Comment
	for _, c := range r.comments {
		if c.BlogID == blogID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteCommentsByBlogID(_ context.Context, blogID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.BlogID == blogID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) AddLike(_ context.Context, commentID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return false, fmt.Errorf("comment %q: %w", commentID, repositories.ErrNotFound)
	}
	for _, id := range c.Likes {
		if id == userID {
			return false, nil
		}
	}
	c.Likes = append(c.Likes, userID)
	return true, nil
}

func (r *fakeCommentRepo) RemoveLike(_ context.Context, commentID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return false, fmt.Errorf("comment %q: %w", commentID, repositories.ErrNotFound)
	}
	for i, id := range c.Likes {
		if id == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type dispatchedPush struct {
	userID  uint
	payload push.Payload
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []dispatchedPush
}

func (d *fakeDispatcher) Dispatch(userID uint, payload push.Payload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, dispatchedPush{userID: userID, payload: payload})
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func (d *fakeDispatcher) recipients() []uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]uint, 0, len(d.sent))
	for _, p := range d.sent {
		ids = append(ids, p.userID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// harness wires the fakes into the full service stack for a test.
type harness struct {
	users         *fakeUserRepo
	follows       *fakeFollowRepo
	likes         *fakeLikeRepo
	notifications *fakeNotificationRepo
	blogs         *fakeBlogRepo
	comments      *fakeCommentRepo
	dispatcher    *fakeDispatcher

	engine     *NotificationEngine
	graph      *SocialGraphService
	engagement *EngagementService
}

func newHarness() *harness {
	h := &harness{
		users:         newFakeUserRepo(),
		likes:         newFakeLikeRepo(),
		notifications: newFakeNotificationRepo(),
		blogs:         newFakeBlogRepo(),
		comments:      newFakeCommentRepo(),
		dispatcher:    &fakeDispatcher{},
	}
	h.follows = newFakeFollowRepo(h.users)
	h.engine = NewNotificationEngine(h.notifications, h.users)
	h.graph = NewSocialGraphService(h.users, h.follows, h.notifications)
	h.engagement = NewEngagementService(h.blogs, h.comments, h.likes, h.follows, h.engine, h.dispatcher)
	return h
}
