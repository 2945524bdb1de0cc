package main

import (
	"net/http"
	"strings"

	"github.com/siahsang/postfeed/internal/validator"
)

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	type CreateCommentPayload struct {
		Text string `json:"text"`
	}

	type CreateCommentRequest struct {
		CreateCommentPayload `json:"comment"`
	}

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var createCommentRequest CreateCommentRequest

	if err := app.readJSON(w, r, &createCommentRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	text := strings.TrimSpace(createCommentRequest.Text)
	v := validator.New()
	v.CheckNotBlank(text, "text", "must be provided")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, _ := app.auth.GetAuthenticatedUser(r)
	comment, err := app.core.AddComment(r.Context(), user, id, text)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
