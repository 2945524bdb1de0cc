package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/validator"
)

type postPayload struct {
	Text  string  `json:"text"`
	Group *string `json:"group"`
	Image *string `json:"image"`
}

func (p *postPayload) normalize() {
	p.Text = strings.TrimSpace(p.Text)
	if p.Group != nil && strings.TrimSpace(*p.Group) == "" {
		p.Group = nil
	}
	if p.Image != nil && strings.TrimSpace(*p.Image) == "" {
		p.Image = nil
	}
}

func (p *postPayload) validate(v *validator.Validator) {
	v.CheckNotBlank(p.Text, "text", "must be provided")
	if p.Group != nil {
		v.Check(v.IsMatch(*p.Group, validator.SlugRX), "group", "must be a valid group slug")
	}
	if p.Image != nil {
		v.CheckURL(*p.Image, "image", "must be an absolute http(s) URL")
	}
}

func (p *postPayload) input() core.PostInput {
	return core.PostInput{Text: p.Text, GroupSlug: p.Group, Image: p.Image}
}

func (app *application) readPostPayload(w http.ResponseWriter, r *http.Request) (*postPayload, bool) {
	type PostRequest struct {
		postPayload `json:"post"`
	}

	var request PostRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return nil, false
	}

	payload := request.postPayload
	payload.normalize()

	v := validator.New()
	payload.validate(v)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return nil, false
	}
	return &payload, true
}

func (app *application) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := app.core.GlobalFeed(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, pageResponse(r, app, posts, nil), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listGroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	group, posts, err := app.core.GroupFeed(r.Context(), slug)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, pageResponse(r, app, posts, envelope{"group": group}), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) showPost(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	detail, err := app.core.PostDetail(r.Context(), id)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"post":             detail.Post,
		"comments":         detail.Comments,
		"authorPostsCount": detail.AuthorPosts,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createPost(w http.ResponseWriter, r *http.Request) {
	payload, ok := app.readPostPayload(w, r)
	if !ok {
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	post, err := app.core.CreatePost(r.Context(), user, payload.input())
	if err != nil {
		if errors.Is(err, core.ErrInvalidGroup) {
			app.failedValidationResponse(w, r, map[string]string{"group": "must be an existing group"})
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/posts/%d", post.ID))
	if err := app.writeJSON(w, http.StatusCreated, envelope{"post": post}, headers); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// editPost sends anyone but the author back to the post detail without touching the post.
func (app *application) editPost(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	detailURL := fmt.Sprintf("/api/posts/%d", id)

	post, err := app.core.GetPost(r.Context(), id)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	if post.AuthorID != user.ID {
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	payload, ok := app.readPostPayload(w, r)
	if !ok {
		return
	}

	edited, err := app.core.EditPost(r.Context(), user, id, payload.input())
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			http.Redirect(w, r, detailURL, http.StatusSeeOther)
		case errors.Is(err, core.ErrInvalidGroup):
			app.failedValidationResponse(w, r, map[string]string{"group": "must be an existing group"})
		default:
			app.coreErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"post": edited}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
