package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/models"
)

// minCommentLength is the smallest accepted comment, in runes, after trimming.
const minCommentLength = 4

// CommentService creates, lists and deletes comments, holding the
// referential checks against posts and the authorship checks against
// comments.
type CommentService struct {
	comments CommentStore
	posts    PostStore
	logger   zerolog.Logger
}

func NewCommentService(comments CommentStore, posts PostStore) CommentService {
	return CommentService{
		comments: comments,
		posts:    posts,
		logger:   log.With().Str("serviceName", "commentService").Logger(),
	}
}

// Add stores a comment on an existing post. The id is checked syntactically
// first, then the text, then post existence, in that fixed order.
func (s CommentService) Add(ctx context.Context, caller primitive.ObjectID, postID, text string) (*models.Comment, error) {
	if _, err := primitive.ObjectIDFromHex(postID); err != nil {
		return nil, errs.NewNotFoundError("Resource not found")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errs.NewValidationFieldError("Comment text is required", "commenttext")
	}
	if utf8.RuneCountInString(trimmed) < minCommentLength {
		return nil, errs.NewValidationFieldError("Not enough text to post", "commenttext")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, errs.NewStoreError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError("Resource not found")
	}

	comment := &models.Comment{
		CommentText: trimmed,
		User:        caller,
		Post:        post.ID,
	}

	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, errs.NewStoreError("create", "comment", err)
	}
	return comment, nil
}

// ListByPost returns the post's comments joined with commenter projections,
// in insertion order.
func (s CommentService) ListByPost(ctx context.Context, postID string) ([]models.CommentWithAuthor, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, errs.NewStoreError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError("Resource not found")
	}

	comments, err := s.comments.FindByPostWithAuthor(ctx, post.ID)
	if err != nil {
		return nil, errs.NewStoreError("list", "comments", err)
	}
	if comments == nil {
		comments = []models.CommentWithAuthor{}
	}
	return comments, nil
}

// Delete removes the caller's own comment. Unauthorized callers get one
// generic signal regardless of why they were rejected.
func (s CommentService) Delete(ctx context.Context, caller primitive.ObjectID, postID, commentID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return errs.NewStoreError("find", "post", err)
	}
	if post == nil {
		return errs.NewNotFoundError("Resource not found")
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return errs.NewStoreError("find", "comment", err)
	}
	if comment == nil {
		return errs.NewNotFoundError("Comment does not exist")
	}

	if comment.User != caller {
		return errs.NewForbiddenError("You can not delete this comment")
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return errs.NewStoreError("delete", "comment", err)
	}
	return nil
}
