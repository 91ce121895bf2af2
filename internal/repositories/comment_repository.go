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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByBlogID(ctx context.Context, blogID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteCommentsByBlogID(ctx context.Context, blogID string) error
	AddLike(ctx context.Context, commentID string, userID uint) (bool, error)
	RemoveLike(ctx context.Context, commentID string, userID uint) (bool, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("comment %q: %w", id, ErrNotFound)
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("comment %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *MongoCommentRepository) GetCommentsByBlogID(ctx context.Context, blogID string) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"blog_id": blogID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("comment %q: %w", id, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("comment %q: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCommentsByBlogID removes every comment of a blog, part of the blog
// deletion cascade.
func (r *MongoCommentRepository) DeleteCommentsByBlogID(ctx context.Context, blogID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"blog_id": blogID})
	return err
}

// AddLike adds userID to the comment's like set. Returns false when the user
// had already liked it ($addToSet leaves the document unmodified).
func (r *MongoCommentRepository) AddLike(ctx context.Context, commentID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return false, fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike pulls userID from the comment's like set. Returns false when the
// user had not liked it.
func (r *MongoCommentRepository) RemoveLike(ctx context.Context, commentID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return false, fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("comment %q: %w", commentID, ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}
