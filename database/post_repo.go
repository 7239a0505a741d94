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

// PostsPerPage is the fixed page size for post listings.
const PostsPerPage = 8

type PostRepo struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func NewPostRepo(posts, users *mongo.Collection) *PostRepo {
	return &PostRepo{posts: posts, users: users}
}

// authorLookup joins the author document and strips the credential fields
// before the document leaves the store.
func (r *PostRepo) authorLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         r.users.Name(),
			"localField":   "author",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: "$author"}},
		{{Key: "$project", Value: bson.M{
			"author.password":  0,
			"author.updatedAt": 0,
		}}},
	}
}

// FindByID returns the raw post document, or nil when the id is malformed or
// unknown.
func (r *PostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var post models.Post
	err = r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find post %s: %w", id, err)
	}
	return &post, nil
}

// FindByIDWithAuthor returns the post joined with its author projection.
func (r *PostRepo) FindByIDWithAuthor(ctx context.Context, id string) (*models.PostWithAuthor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
	}, r.authorLookup()...)

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("cannot aggregate post %s: %w", id, err)
	}

	var results []models.PostWithAuthor
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cannot decode post %s: %w", id, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// FindPage returns one newest-first page of posts joined with their author
// projections, plus the total post count. Pages are 1-based.
func (r *PostRepo) FindPage(ctx context.Context, page int) ([]models.PostWithAuthor, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := r.posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("cannot count posts: %w", err)
	}

	pipeline := append([]bson.D{
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$skip", Value: int64(page-1) * PostsPerPage}},
		{{Key: "$limit", Value: int64(PostsPerPage)}},
	}, r.authorLookup()...)

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot aggregate post page %d: %w", page, err)
	}

	var results []models.PostWithAuthor
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("cannot decode post page %d: %w", page, err)
	}
	return results, total, nil
}

// FindByAuthor returns every post created by the given user, newest first.
// Used by the account-deletion cascade to resolve blob identities.
func (r *PostRepo) FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, bson.M{"author": author})
	if err != nil {
		return nil, fmt.Errorf("cannot find posts for user %s: %w", author.Hex(), err)
	}

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("cannot decode posts for user %s: %w", author.Hex(), err)
	}
	return posts, nil
}

// Insert stores a new post document.
func (r *PostRepo) Insert(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("cannot insert post: %w", err)
	}
	return nil
}

// UpdateFields replaces the text sections of the post in place. The image
// and author are untouched.
func (r *PostRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields models.PostFields) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"title":      fields.Title,
			"intro":      fields.Intro,
			"quickintro": fields.QuickIntro,
			"result":     fields.Result,
			"conclusion": fields.Conclusion,
			"updatedAt":  time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("cannot update post %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateImage repoints the post at a new blob identity.
func (r *PostRepo) UpdateImage(ctx context.Context, id primitive.ObjectID, image models.PostImage) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"postimage": image, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("cannot update image for post %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the post document only; the blob and comment cascades
// belong to the caller.
func (r *PostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete post %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
