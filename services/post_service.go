package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/errs"
	"github.com/verlynk/verlynk-backend/models"
	"github.com/verlynk/verlynk-backend/storage"
)

// listSplit separates free-text fields into list items on commas with
// optional surrounding whitespace.
var listSplit = regexp.MustCompile(`\s*,+\s*`)

// PostForm carries the raw form fields of a post create or edit request.
type PostForm struct {
	Title           string
	Intro           string
	QuickIntroTitle string
	QuickIntroList  string
	ResultTitle     string
	ResultList      string
	Conclusion      string
}

// ParsePostFields validates the form and splits the four free-text fields
// into item lists. Every section must end up non-empty.
func ParsePostFields(form PostForm) (models.PostFields, error) {
	title := strings.TrimSpace(form.Title)
	quickTitle := strings.TrimSpace(form.QuickIntroTitle)
	resultTitle := strings.TrimSpace(form.ResultTitle)

	if title == "" || quickTitle == "" || resultTitle == "" {
		return models.PostFields{}, errs.NewValidationError("Missing Fields")
	}

	intro := splitList(form.Intro)
	quickList := splitList(form.QuickIntroList)
	resultList := splitList(form.ResultList)
	conclusion := splitList(form.Conclusion)

	if len(intro) == 0 || len(quickList) == 0 || len(resultList) == 0 || len(conclusion) == 0 {
		return models.PostFields{}, errs.NewValidationError("Missing Fields")
	}

	return models.PostFields{
		Title:      title,
		Intro:      intro,
		QuickIntro: models.Section{Title: quickTitle, Lists: quickList},
		Result:     models.Section{Title: resultTitle, Lists: resultList},
		Conclusion: conclusion,
	}, nil
}

func splitList(raw string) []string {
	var items []string
	for _, part := range listSplit.Split(strings.TrimSpace(raw), -1) {
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// PostPage is one listing page plus the collection total.
type PostPage struct {
	Posts []models.PostWithAuthor `json:"posts"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
}

// PostService owns the post lifecycle: create, read, list, edit, edit-image
// and delete, including the authorship checks and the blob and comment
// cascades that keep posts, comments and stored images consistent.
type PostService struct {
	posts    PostStore
	comments CommentStore
	blobs    storage.BlobStore
	ingestor Ingestor
	logger   zerolog.Logger
}

func NewPostService(posts PostStore, comments CommentStore, blobs storage.BlobStore) PostService {
	return PostService{
		posts:    posts,
		comments: comments,
		blobs:    blobs,
		ingestor: NewIngestor(blobs),
		logger:   log.With().Str("serviceName", "postService").Logger(),
	}
}

// Create validates the form, ingests the image and only then inserts the
// post document. If the insert fails after a successful ingest, the fresh
// blob is deleted best-effort so no orphan outlives the request.
func (s PostService) Create(ctx context.Context, author primitive.ObjectID, form PostForm, file *Upload) (*models.Post, error) {
	if file == nil {
		return nil, errs.NewValidationFieldError("Please upload a image", "postimage")
	}

	fields, err := ParsePostFields(form)
	if err != nil {
		return nil, err
	}

	image, err := s.ingestor.Ingest(ctx, *file, author)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      fields.Title,
		PostImage:  image,
		Intro:      fields.Intro,
		QuickIntro: fields.QuickIntro,
		Result:     fields.Result,
		Conclusion: fields.Conclusion,
		Author:     author,
	}

	if err := s.posts.Insert(ctx, post); err != nil {
		s.ingestor.DiscardBlob(ctx, image)
		return nil, errs.NewStoreError("create", "post", err)
	}

	return post, nil
}

// Get returns the post joined with its author projection. Unknown and
// malformed ids produce the same not-found signal.
func (s PostService) Get(ctx context.Context, postID string) (*models.PostWithAuthor, error) {
	post, err := s.posts.FindByIDWithAuthor(ctx, postID)
	if err != nil {
		return nil, errs.NewStoreError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError("Resource not found")
	}
	return post, nil
}

// List returns one newest-first page of posts with the collection total.
func (s PostService) List(ctx context.Context, page int) (PostPage, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.posts.FindPage(ctx, page)
	if err != nil {
		return PostPage{}, errs.NewStoreError("list", "posts", err)
	}
	if posts == nil {
		posts = []models.PostWithAuthor{}
	}

	return PostPage{Posts: posts, Total: total, Page: page}, nil
}

// EditText replaces the text sections of the caller's own post. The image is
// untouched.
func (s PostService) EditText(ctx context.Context, caller primitive.ObjectID, postID string, form PostForm) error {
	fields, err := ParsePostFields(form)
	if err != nil {
		return err
	}

	post, err := s.requireOwnPost(ctx, caller, postID, "edit")
	if err != nil {
		return err
	}

	if err := s.posts.UpdateFields(ctx, post.ID, fields); err != nil {
		return errs.NewStoreError("update", "post", err)
	}
	return nil
}

// EditImage replaces the post's image. The new blob is ingested and the
// document repointed first; the superseded blob is deleted only afterwards,
// best-effort, so the post never points at a dead blob even when the upload
// fails midway.
func (s PostService) EditImage(ctx context.Context, caller primitive.ObjectID, postID string, file *Upload) (*models.PostImage, error) {
	if file == nil {
		return nil, errs.NewValidationFieldError("Please upload a image", "postimage")
	}

	post, err := s.requireOwnPost(ctx, caller, postID, "edit")
	if err != nil {
		return nil, err
	}

	newImage, err := s.ingestor.Ingest(ctx, *file, caller)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateImage(ctx, post.ID, newImage); err != nil {
		// Document still references the old blob; only the replacement
		// needs cleaning up.
		s.ingestor.DiscardBlob(ctx, newImage)
		return nil, errs.NewStoreError("update", "post", err)
	}

	s.discardImage(ctx, post.PostImage)

	return &newImage, nil
}

// Delete removes the caller's own post. The cascade runs blob, then
// comments, then document; the operation succeeds once the document is gone
// and partial sub-failures are logged, not returned.
func (s PostService) Delete(ctx context.Context, caller primitive.ObjectID, postID string) error {
	post, err := s.requireOwnPost(ctx, caller, postID, "delete")
	if err != nil {
		return err
	}

	s.discardImage(ctx, post.PostImage)

	if _, err := s.comments.DeleteByPost(ctx, post.ID); err != nil {
		s.logger.Error().Err(err).Str("postId", post.ID.Hex()).Msg("comment cascade failed")
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return errs.NewStoreError("delete", "post", err)
	}
	return nil
}

// requireOwnPost resolves the post and enforces authorship. Existence is
// checked before authorization so both run in a fixed order.
func (s PostService) requireOwnPost(ctx context.Context, caller primitive.ObjectID, postID, action string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, errs.NewStoreError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError("Resource not found")
	}
	if post.Author != caller {
		return nil, errs.NewForbiddenError("You can not " + action + " this post")
	}
	return post, nil
}

func (s PostService) discardImage(ctx context.Context, image models.PostImage) {
	if image.ID == "" {
		return
	}
	if err := s.blobs.Delete(ctx, image.ID); err != nil {
		s.logger.Error().Err(err).Str("blobId", image.ID).Msg("blob cascade failed")
	}
}
