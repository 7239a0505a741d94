package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/auth"
	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/models"
	"github.com/verlynk/verlynk-backend/storage"
)

// UserService handles registration, credential checks and the account
// lifecycle, including the cascade that removes a deleted user's posts,
// blobs and comments.
type UserService struct {
	users    UserStore
	posts    PostStore
	comments CommentStore
	blobs    storage.BlobStore
	logger   zerolog.Logger
}

func NewUserService(users UserStore, posts PostStore, comments CommentStore, blobs storage.BlobStore) UserService {
	return UserService{
		users:    users,
		posts:    posts,
		comments: comments,
		blobs:    blobs,
		logger:   log.With().Str("serviceName", "userService").Logger(),
	}
}

// SignUp registers a new account. Email uniqueness is pre-checked for a
// friendlier message, but the unique index is the hard guarantee; a
// duplicate-key race still comes back as a conflict.
func (s UserService) SignUp(ctx context.Context, fullname, email, password string) (*models.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)

	if fullname == "" || email == "" || password == "" {
		return nil, errs.NewValidationError("Missing fields")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewStoreError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewConflictError("Email already registered!")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errs.NewInternalError("Registration failed, Try again after sometime!")
	}

	user := &models.User{
		Fullname: fullname,
		Email:    email,
		Password: hash,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, errs.NewStoreError("create", "user", err)
	}
	return user, nil
}

// SignIn verifies credentials. Unknown email and wrong password produce the
// same signal.
func (s UserService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errs.NewValidationError("Missing Fields!")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewStoreError("find", "user", err)
	}
	if user == nil || !auth.ComparePassword(password, user.Password) {
		return nil, errs.NewUnauthorizedError("Invalid credentials!")
	}

	return user, nil
}

// Get returns the client projection of the user behind the given email.
func (s UserService) Get(ctx context.Context, email string) (*models.UserView, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.NewStoreError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFoundError("User not found")
	}

	view := user.View()
	return &view, nil
}

// EditFullname changes the caller's display name.
func (s UserService) EditFullname(ctx context.Context, caller primitive.ObjectID, fullname string) error {
	fullname = strings.TrimSpace(fullname)
	if fullname == "" {
		return errs.NewValidationFieldError("Missing fields", "fullname")
	}

	if err := s.users.UpdateFullname(ctx, caller, fullname); err != nil {
		return errs.NewStoreError("update", "user", err)
	}
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s UserService) ChangePassword(ctx context.Context, caller primitive.ObjectID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return errs.NewValidationError("Missing fields")
	}

	user, err := s.users.FindByID(ctx, caller.Hex())
	if err != nil {
		return errs.NewStoreError("find", "user", err)
	}
	if user == nil {
		return errs.NewNotFoundError("User not found")
	}

	if !auth.ComparePassword(oldPassword, user.Password) {
		return errs.NewUnauthorizedError("Invalid credentials!")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return errs.NewInternalError("Password change failed, Try again after sometime!")
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errs.NewStoreError("update", "user", err)
	}
	return nil
}

// DeleteAccount removes the caller's own account, cascading to every post
// they authored (blobs and comments included) and every comment they wrote
// elsewhere. Cascades are best-effort; the deletion is reported successful
// once the user document is gone.
func (s UserService) DeleteAccount(ctx context.Context, caller primitive.ObjectID, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return errs.NewStoreError("find", "user", err)
	}
	if target == nil {
		return errs.NewNotFoundError("User not found")
	}
	if target.ID != caller {
		return errs.NewForbiddenError("You can not delete this user")
	}

	posts, err := s.posts.FindByAuthor(ctx, target.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("userId", target.ID.Hex()).Msg("post cascade lookup failed")
	}

	for _, post := range posts {
		if post.PostImage.ID != "" {
			if err := s.blobs.Delete(ctx, post.PostImage.ID); err != nil {
				s.logger.Error().Err(err).Str("blobId", post.PostImage.ID).Msg("blob cascade failed")
			}
		}
		if _, err := s.comments.DeleteByPost(ctx, post.ID); err != nil {
			s.logger.Error().Err(err).Str("postId", post.ID.Hex()).Msg("comment cascade failed")
		}
		if err := s.posts.Delete(ctx, post.ID); err != nil {
			s.logger.Error().Err(err).Str("postId", post.ID.Hex()).Msg("post cascade failed")
		}
	}

	if _, err := s.comments.DeleteByUser(ctx, target.ID); err != nil {
		s.logger.Error().Err(err).Str("userId", target.ID.Hex()).Msg("authored-comment cascade failed")
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		return errs.NewStoreError("delete", "user", err)
	}
	return nil
}
