package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/postfeed/internal/core"
)

func (app *application) getProfile(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	author, posts, err := app.core.AuthorFeed(r.Context(), username)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	viewer, _ := app.auth.GetAuthenticatedUser(r)
	profile, err := app.core.Profile(r.Context(), author, viewer)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, pageResponse(r, app, posts, envelope{"profile": profile}), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followUser(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")
	viewer, _ := app.auth.GetAuthenticatedUser(r)

	profile, err := app.core.Follow(r.Context(), viewer, username)
	if err != nil {
		if errors.Is(err, core.ErrSelfFollow) {
			app.badRequestResponse(w, r, &AppError{ErrorMessage: "You cannot follow yourself.", ErrorStack: err})
			return
		}
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unfollowUser(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")
	viewer, _ := app.auth.GetAuthenticatedUser(r)

	profile, err := app.core.Unfollow(r.Context(), viewer, username)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followFeed(w http.ResponseWriter, r *http.Request) {
	viewer, _ := app.auth.GetAuthenticatedUser(r)

	posts, err := app.core.FollowFeed(r.Context(), viewer)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, pageResponse(r, app, posts, nil), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
