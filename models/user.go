package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized to clients.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Fullname  string             `json:"fullname" bson:"fullname"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserView is the projection of a user returned to clients: credential and
// mutation-tracking fields are omitted.
type UserView struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Fullname  string             `json:"fullname" bson:"fullname"`
	Email     string             `json:"email" bson:"email"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// View returns the client-safe projection of u.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
