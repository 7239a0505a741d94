package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/database"
	"github.com/verlynk/verlynk-backend/models"
)

// The services accept these narrow store interfaces instead of the concrete
// repos so tests can substitute in-memory fakes. Lookups return (nil, nil)
// for both unknown and malformed ids; services turn that into a single
// not-found signal.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateFullname(ctx context.Context, id primitive.ObjectID, fullname string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PostStore interface {
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindByIDWithAuthor(ctx context.Context, id string) (*models.PostWithAuthor, error)
	FindPage(ctx context.Context, page int) ([]models.PostWithAuthor, int64, error)
	FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields models.PostFields) error
	UpdateImage(ctx context.Context, id primitive.ObjectID, image models.PostImage) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CommentStore interface {
	Insert(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	FindByPostWithAuthor(ctx context.Context, postID primitive.ObjectID) ([]models.CommentWithAuthor, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

var (
	_ UserStore    = (*database.UserRepo)(nil)
	_ PostStore    = (*database.PostRepo)(nil)
	_ CommentStore = (*database.CommentRepo)(nil)
)
