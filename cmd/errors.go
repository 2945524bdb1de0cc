package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/web"
)

type AppError struct {
	ErrorStack   error
	ErrorMessage string
	ErrorDetails map[string]string
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	app.errorResponse(w, r, http.StatusBadRequest, &AppError{
		ErrorMessage: "The submitted data is invalid.",
		ErrorDetails: errs,
	})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, &AppError{
		ErrorMessage: "The requested resource could not be found.",
	})
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusForbidden, &AppError{ErrorStack: err,
		ErrorMessage: "You do not have permission to access this resource.",
	})
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, &AppError{
		ErrorMessage: fmt.Sprintf("The %s method is not supported for this resource.", r.Method),
	})
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{ErrorStack: err,
		ErrorMessage: "You must be authenticated to access this resource.",
	})
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", "Token")
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{ErrorStack: err,
		ErrorMessage: "Invalid or missing authentication token.",
	})
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{ErrorStack: err,
		ErrorMessage: "Invalid credentials.",
	})
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusInternalServerError, &AppError{ErrorStack: err,
		ErrorMessage: "An internal server error occurred.",
	})
}

// coreErrorResponse maps core sentinels onto error pages.
func (app *application) coreErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, core.ErrForbidden):
		app.forbiddenResponse(w, r, err)
	default:
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	errorDetails := envelope{
		"errorMessage": appError.ErrorMessage,
		"errorDetails": appError.ErrorDetails,
	}

	var attrs []slog.Attr
	attrs = append(attrs, slog.String("request_url", r.URL.String()))
	attrs = append(attrs, slog.String("request_method", r.Method))
	attrs = append(attrs, slog.Int("status", status))
	if id := web.RequestID(r); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if appError.ErrorStack != nil {
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(appError.ErrorStack)))
	}

	for key, valueData := range appError.ErrorDetails {
		attrs = append(attrs, slog.Any(key, valueData))
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	app.logger.LogAttrs(r.Context(), level, "Error in handling request", attrs...)

	err := app.writeJSON(w, status, errorDetails, nil)
	if err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}
