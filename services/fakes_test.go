package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/models"
	"github.com/verlynk/verlynk-backend/storage"
)

// In-memory fakes backing the service tests. They mirror the repo contract:
// lookups return (nil, nil) for unknown and malformed ids alike.

type fakeBlobStore struct {
	blobs      map[string][]byte
	meta       map[string]storage.Metadata
	failPut    bool
	failDelete bool
	deleted    []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs: make(map[string][]byte),
		meta:  make(map[string]storage.Metadata),
	}
}

func (f *fakeBlobStore) Put(_ context.Context, name string, body io.Reader, meta storage.Metadata) (storage.UploadResult, error) {
	if f.failPut {
		return storage.UploadResult{}, errors.New("put failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.UploadResult{}, err
	}
	f.blobs[name] = data
	f.meta[name] = meta
	return storage.UploadResult{ID: name, Name: name}, nil
}

func (f *fakeBlobStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := f.blobs[name]
	if !ok {
		return nil, storage.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, id string) error {
	if f.failDelete {
		return errors.New("delete failed")
	}
	if _, ok := f.blobs[id]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(f.blobs, id)
	delete(f.meta, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserStore struct {
	users      map[primitive.ObjectID]*models.User
	failFind   error
	failInsert error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.failFind != nil {
		return nil, f.failFind
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	u, ok := f.users[oid]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) UpdateFullname(_ context.Context, id primitive.ObjectID, fullname string) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("no documents in result")
	}
	u.Fullname = fullname
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("no documents in result")
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return errors.New("no documents in result")
	}
	delete(f.users, id)
	return nil
}

type fakePostStore struct {
	posts      map[primitive.ObjectID]*models.Post
	failInsert error
	failUpdate error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (f *fakePostStore) FindByID(_ context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	p, ok := f.posts[oid]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostStore) FindByIDWithAuthor(ctx context.Context, id string) (*models.PostWithAuthor, error) {
	p, err := f.FindByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return &models.PostWithAuthor{
		ID:         p.ID,
		Title:      p.Title,
		PostImage:  p.PostImage,
		Intro:      p.Intro,
		QuickIntro: p.QuickIntro,
		Result:     p.Result,
		Conclusion: p.Conclusion,
		Author:     models.PostAuthor{ID: p.Author},
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

func (f *fakePostStore) FindPage(_ context.Context, page int) ([]models.PostWithAuthor, int64, error) {
	const pageSize = 8

	all := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * pageSize
	var out []models.PostWithAuthor
	for i := start; i < len(all) && i < start+pageSize; i++ {
		p := all[i]
		out = append(out, models.PostWithAuthor{
			ID:        p.ID,
			Title:     p.Title,
			PostImage: p.PostImage,
			Author:    models.PostAuthor{ID: p.Author},
			CreatedAt: p.CreatedAt,
		})
	}
	return out, int64(len(all)), nil
}

func (f *fakePostStore) FindByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.Author == author {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostStore) Insert(_ context.Context, post *models.Post) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) UpdateFields(_ context.Context, id primitive.ObjectID, fields models.PostFields) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	p, ok := f.posts[id]
	if !ok {
		return errors.New("no documents in result")
	}
	p.Title = fields.Title
	p.Intro = fields.Intro
	p.QuickIntro = fields.QuickIntro
	p.Result = fields.Result
	p.Conclusion = fields.Conclusion
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakePostStore) UpdateImage(_ context.Context, id primitive.ObjectID, image models.PostImage) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	p, ok := f.posts[id]
	if !ok {
		return errors.New("no documents in result")
	}
	p.PostImage = image
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.posts[id]; !ok {
		return errors.New("no documents in result")
	}
	delete(f.posts, id)
	return nil
}

type fakeCommentStore struct {
	comments map[primitive.ObjectID]*models.Comment
	order    []primitive.ObjectID
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (f *fakeCommentStore) Insert(_ context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	copied := *comment
	f.comments[comment.ID] = &copied
	f.order = append(f.order, comment.ID)
	return nil
}

func (f *fakeCommentStore) FindByID(_ context.Context, id string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	c, ok := f.comments[oid]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentStore) FindByPostWithAuthor(_ context.Context, postID primitive.ObjectID) ([]models.CommentWithAuthor, error) {
	var out []models.CommentWithAuthor
	for _, id := range f.order {
		c, ok := f.comments[id]
		if !ok || c.Post != postID {
			continue
		}
		out = append(out, models.CommentWithAuthor{
			ID:          c.ID,
			CommentText: c.CommentText,
			Post:        c.Post,
			User:        models.CommentAuthor{ID: c.User},
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.comments[id]; !ok {
		return errors.New("no documents in result")
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentStore) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	var n int64
	for id, c := range f.comments {
		if c.Post == postID {
			delete(f.comments, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentStore) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for id, c := range f.comments {
		if c.User == userID {
			delete(f.comments, id)
			n++
		}
	}
	return n, nil
}
