package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUser)
	router.HandlerFunc(http.MethodPost, "/api/users/login", app.login)
	router.HandlerFunc(http.MethodGet, "/api/posts", app.cachePage(app.listPosts))
	router.HandlerFunc(http.MethodGet, "/api/posts/:id", app.showPost)
	router.HandlerFunc(http.MethodGet, "/api/groups/:slug", app.listGroupPosts)
	router.HandlerFunc(http.MethodGet, "/api/profiles/:username", app.getProfile)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/posts", app.requireAuthenticatedUser(app.createPost))
	router.HandlerFunc(http.MethodPut, "/api/posts/:id", app.requireAuthenticatedUser(app.editPost))
	router.HandlerFunc(http.MethodPost, "/api/posts/:id/comments", app.requireAuthenticatedUser(app.createComment))
	router.HandlerFunc(http.MethodPost, "/api/profiles/:username/follow", app.requireAuthenticatedUser(app.followUser))
	router.HandlerFunc(http.MethodDelete, "/api/profiles/:username/follow", app.requireAuthenticatedUser(app.unfollowUser))
	router.HandlerFunc(http.MethodGet, "/api/follow", app.requireAuthenticatedUser(app.followFeed))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
