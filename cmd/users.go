package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/validator"
)

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type RegisterUserRequest struct {
		registerUserPayload `json:"user"`
	}

	var registerUserRequest RegisterUserRequest

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user := &auth.User{
		Email:             strings.TrimSpace(registerUserRequest.Email),
		Username:          strings.TrimSpace(registerUserRequest.Username),
		PlaintextPassword: registerUserRequest.Password,
	}

	v := validator.New()
	v.CheckNotBlank(user.Email, "email", "must be provided")
	v.CheckEmail(user.Email, "must be a valid email address")

	v.CheckNotBlank(user.Username, "username", "must be provided")
	v.CheckMaxLen(user.Username, 150, "username", "must not be more than 150 characters long")
	v.Check(v.IsMatch(user.Username, validator.SlugRX), "username", "may contain only letters, digits, '-' and '_'")

	v.CheckNotBlank(user.PlaintextPassword, "password", "must be provided")
	v.Check(len(user.PlaintextPassword) >= 8, "password", "must be at least 8 characters long")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := user.SetPassword(user.PlaintextPassword); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	err := app.core.CreateNewUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			v.AddError("email", "Email address is already in use")
			app.failedValidationResponse(w, r, v.Errors)
			return
		case errors.Is(err, store.ErrDuplicateUsername):
			v.AddError("username", "Username is already in use")
			app.failedValidationResponse(w, r, v.Errors)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	token, err := app.auth.GenerateToken(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginUserRequest struct {
		loginUserPayload `json:"user"`
	}

	var loginUserRequest LoginUserRequest

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(loginUserRequest.Email, "email", "must be provided")
	v.CheckEmail(loginUserRequest.Email, "must be a valid email address")
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), loginUserRequest.Email)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			app.invalidCredentialsResponse(w, r, err)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r, nil)
		return
	}

	token, err := app.auth.GenerateToken(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func userResponse(user *auth.User, token string) envelope {
	user.Token = token
	return envelope{"user": user}
}
