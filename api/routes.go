package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public endpoints and the authenticated group.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public endpoints
	r.Post("/api/signup", handlers.userHandler.signUp())
	r.Post("/api/signin", handlers.authHandler.signIn())
	r.Get("/api/posts", handlers.postHandler.listPosts())
	r.Get("/api/post/{postid}", handlers.postHandler.getPost())
	r.Get("/api/post/image/{filename}", handlers.imageHandler.getPostImage())

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		// Session and account endpoints
		r.Post("/api/signout", handlers.authHandler.signOut())
		r.Get("/api/me", handlers.userHandler.me())
		r.Patch("/api/edit", handlers.userHandler.edit())
		r.Patch("/api/edit/password", handlers.userHandler.editPassword())
		r.Delete("/api/delete/{userid}", handlers.userHandler.deleteUser())

		// Post endpoints
		r.Post("/api/create/post", handlers.postHandler.createPost())
		r.Patch("/api/edit/post/{postid}", handlers.postHandler.editPost())
		r.Patch("/api/edit/post/upload/{postid}", handlers.postHandler.editPostImage())
		r.Delete("/api/delete/post/{postid}", handlers.postHandler.deletePost())

		// Comment endpoints
		r.Post("/api/add/comment/{postid}", handlers.commentHandler.addComment())
		r.Get("/api/comments/{postid}", handlers.commentHandler.listComments())
		r.Delete("/api/delete/comment/{postid}/{commentid}", handlers.commentHandler.deleteComment())
	})
}
