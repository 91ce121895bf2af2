package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogify-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	GetBlogsByUserIDs(ctx context.Context, userIDs []uint, skip, limit int64) ([]models.Blog, error)
	SearchBlogs(ctx context.Context, query string) ([]models.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
	IncLikesCount(ctx context.Context, blogID string, delta int) error
	IncCommentsCount(ctx context.Context, blogID string, delta int) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("blog %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &blog, nil
}

func (r *MongoBlogRepository) GetBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	return r.findBlogs(ctx, bson.M{}, skip, limit)
}

// GetBlogsByUserIDs returns blogs authored by any of the given users, newest
// first. Used for the following feed.
func (r *MongoBlogRepository) GetBlogsByUserIDs(ctx context.Context, userIDs []uint, skip, limit int64) ([]models.Blog, error) {
	if len(userIDs) == 0 {
		return []models.Blog{}, nil
	}
	return r.findBlogs(ctx, bson.M{"created_by": bson.M{"$in": userIDs}}, skip, limit)
}

// SearchBlogs finds blogs whose title or body contains the query,
// case-insensitively.
func (r *MongoBlogRepository) SearchBlogs(ctx context.Context, query string) ([]models.Blog, error) {
	pattern := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"body": pattern},
	}}
	return r.findBlogs(ctx, filter, 0, 0)
}

func (r *MongoBlogRepository) findBlogs(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if skip > 0 {
		findOptions = findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions = findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MongoBlogRepository) IncLikesCount(ctx context.Context, blogID string, delta int) error {
	return r.incCounter(ctx, blogID, "likes_count", delta)
}

func (r *MongoBlogRepository) IncCommentsCount(ctx context.Context, blogID string, delta int) error {
	return r.incCounter(ctx, blogID, "comments_count", delta)
}

func (r *MongoBlogRepository) incCounter(ctx context.Context, blogID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return fmt.Errorf("blog %q: %w", blogID, ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}
