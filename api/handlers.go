package api

import (
	"github.com/verlynk/verlynk-backend/auth"
	"github.com/verlynk/verlynk-backend/database"
	"github.com/verlynk/verlynk-backend/services"
	"github.com/verlynk/verlynk-backend/storage"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	userHandler    userHandler
	postHandler    postHandler
	commentHandler commentHandler
	imageHandler   imageHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, blobs storage.BlobStore, tokens auth.TokenMaker) *routeHandlers {
	userService := services.NewUserService(db.UserRepo(), db.PostRepo(), db.CommentRepo(), blobs)
	postService := services.NewPostService(db.PostRepo(), db.CommentRepo(), blobs)
	commentService := services.NewCommentService(db.CommentRepo(), db.PostRepo())

	return &routeHandlers{
		authHandler:    newAuthHandler(userService, tokens),
		userHandler:    newUserHandler(userService),
		postHandler:    newPostHandler(postService),
		commentHandler: newCommentHandler(commentService),
		imageHandler:   newImageHandler(blobs),
	}
}
