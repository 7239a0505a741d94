package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the primary database.
const (
	UserCollection    = "users"
	PostCollection    = "posts"
	CommentCollection = "comments"
)

// Database owns the single pooled mongo client and hands out per-entity
// repositories sharing it. The client is created once at startup and closed
// on shutdown; requests never open their own connections.
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	userRepo    *UserRepo
	postRepo    *PostRepo
	commentRepo *CommentRepo
}

// Connect dials the store and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to document store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		// Release the half-open client so a failed boot leaks nothing.
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("cannot reach document store: %w", err)
	}

	return client, nil
}

// New initializes a Database with each repository using the shared client.
func New(client *mongo.Client, dbName string) Database {
	db := client.Database(dbName)
	return Database{
		client:      client,
		db:          db,
		userRepo:    NewUserRepo(db.Collection(UserCollection)),
		postRepo:    NewPostRepo(db.Collection(PostCollection), db.Collection(UserCollection)),
		commentRepo: NewCommentRepo(db.Collection(CommentCollection), db.Collection(UserCollection)),
	}
}

// EnsureIndexes creates the unique email index backing the user-uniqueness
// invariant. Safe to call on every boot.
func (d Database) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("cannot create unique email index: %w", err)
	}
	return nil
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

// Client returns the shared client, mostly so callers can open the GridFS
// bucket on a separate files database.
func (d Database) Client() *mongo.Client {
	return d.client
}

func (d Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
