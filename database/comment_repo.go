package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verlynk/verlynk-backend/models"
)

type CommentRepo struct {
	comments *mongo.Collection
	users    *mongo.Collection
}

func NewCommentRepo(comments, users *mongo.Collection) *CommentRepo {
	return &CommentRepo{comments: comments, users: users}
}

// Insert stores a new comment document.
func (r *CommentRepo) Insert(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("cannot insert comment: %w", err)
	}
	return nil
}

// FindByID returns the raw comment, or nil when the id is malformed or
// unknown.
func (r *CommentRepo) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var comment models.Comment
	err = r.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find comment %s: %w", id, err)
	}
	return &comment, nil
}

// FindByPostWithAuthor returns the post's comments joined with commenter
// projections, in insertion order.
func (r *CommentRepo) FindByPostWithAuthor(ctx context.Context, postID primitive.ObjectID) ([]models.CommentWithAuthor, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{"post": postID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.users.Name(),
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"user.email":     0,
			"user.password":  0,
			"user.updatedAt": 0,
			"updatedAt":      0,
		}}},
	}

	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("cannot aggregate comments for post %s: %w", postID.Hex(), err)
	}

	var results []models.CommentWithAuthor
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cannot decode comments for post %s: %w", postID.Hex(), err)
	}
	return results, nil
}

// Delete removes one comment document.
func (r *CommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete comment %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByPost removes every comment referencing the post. Part of the
// post-deletion cascade.
func (r *CommentRepo) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.comments.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, fmt.Errorf("cannot delete comments for post %s: %w", postID.Hex(), err)
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes every comment authored by the user. Part of the
// account-deletion cascade.
func (r *CommentRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.comments.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("cannot delete comments for user %s: %w", userID.Hex(), err)
	}
	return res.DeletedCount, nil
}
