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

type UserRepo struct {
	users *mongo.Collection
}

func NewUserRepo(users *mongo.Collection) *UserRepo {
	return &UserRepo{users: users}
}

// FindByEmail returns the user with the given email, or nil when no such
// user exists.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns the user for the given hex id. A malformed id behaves the
// same as a missing user so callers cannot distinguish the two.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user models.User
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find user %s: %w", id, err)
	}
	return &user, nil
}

// Insert stores a new user. The unique email index rejects duplicates with a
// duplicate-key error.
func (r *UserRepo) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("cannot insert user: %w", err)
	}
	return nil
}

// UpdateFullname changes the display name of the user.
func (r *UserRepo) UpdateFullname(ctx context.Context, id primitive.ObjectID, fullname string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"fullname": fullname, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("cannot update user %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdatePassword swaps the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("cannot update password for user %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the user document only; post and comment cascades belong to
// the caller.
func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete user %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
