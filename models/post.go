package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostImage points at the blob backing a post's image. The blob referenced by
// ID stays alive for as long as the owning post document exists. ID is the
// store-assigned identity (an object id hex for the GridFS backend, the
// object key for S3).
type PostImage struct {
	ID       string `json:"id" bson:"id"`
	Filename string `json:"filename" bson:"filename"`
}

// Section is a titled list of free-text items (quick intro, result).
type Section struct {
	Title string   `json:"title" bson:"title"`
	Lists []string `json:"lists" bson:"lists"`
}

// Post is a blog post document. Author is immutable after creation.
type Post struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	PostImage  PostImage          `json:"postimage" bson:"postimage"`
	Intro      []string           `json:"intro" bson:"intro"`
	QuickIntro Section            `json:"quickintro" bson:"quickintro"`
	Result     Section            `json:"result" bson:"result"`
	Conclusion []string           `json:"conclusion" bson:"conclusion"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostAuthor is the projection of a post's author embedded in read responses.
// The credential hash never leaves the database layer.
type PostAuthor struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Fullname  string             `json:"fullname" bson:"fullname"`
	Email     string             `json:"email" bson:"email"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PostWithAuthor is a post joined with its author projection, as produced by
// the post lookup aggregation.
type PostWithAuthor struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Title      string             `json:"title" bson:"title"`
	PostImage  PostImage          `json:"postimage" bson:"postimage"`
	Intro      []string           `json:"intro" bson:"intro"`
	QuickIntro Section            `json:"quickintro" bson:"quickintro"`
	Result     Section            `json:"result" bson:"result"`
	Conclusion []string           `json:"conclusion" bson:"conclusion"`
	Author     PostAuthor         `json:"author" bson:"author"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostFields carries the validated, already-split text sections used by post
// create and edit.
type PostFields struct {
	Title      string
	Intro      []string
	QuickIntro Section
	Result     Section
	Conclusion []string
}
