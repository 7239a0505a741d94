package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment references its post and its author but owns neither.
type Comment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CommentText string             `json:"commenttext" bson:"commenttext"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Post        primitive.ObjectID `json:"post" bson:"post"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentAuthor is the commenter projection embedded in comment listings.
type CommentAuthor struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Fullname  string             `json:"fullname" bson:"fullname"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CommentWithAuthor is a comment joined with its commenter projection.
type CommentWithAuthor struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	CommentText string             `json:"commenttext" bson:"commenttext"`
	Post        primitive.ObjectID `json:"post" bson:"post"`
	User        CommentAuthor      `json:"user" bson:"user"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
