package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/cache"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/web"
)

func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Token" {
				app.invalidAuthenticationTokenResponse(w, r, xerrors.New("Authentication header must be in the format 'Token <token>'"))
				return
			}
			claim, err := app.auth.Authenticate(authorizationParts[1])
			if err != nil {
				app.invalidAuthenticationTokenResponse(w, r, err)
				return
			}

			user, err := app.core.GetUserByUsername(r.Context(), claim.Username)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					app.invalidAuthenticationTokenResponse(w, r, err)
					return
				}
				app.internalErrorResponse(w, r, err)
				return
			}
			user.Token = authorizationParts[1]
			r = app.auth.SetAuthenticatedUser(r, user)
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.authenticationRequiredResponse(w, r, xerrors.Newf("authentication required"))
			return
		}
		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.New(fmt.Sprintf("%v", err)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	if sw.body != nil {
		sw.body.Write(b)
	}
	return sw.ResponseWriter.Write(b)
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = web.AddValueToContext(r, web.RequestIDCtxKey, requestID)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "Request handled",
			slog.String("request_id", requestID),
			slog.String("request_method", r.Method),
			slog.String("request_url", r.URL.String()),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// cachePage serves the rendered listing from the listing cache. The key depends
// only on the page parameter, never on the viewer, and writes to the store do
// not invalidate it.
func (app *application) cachePage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := cache.IndexPageKey(r.URL.Query().Get("page"))

		body, ok, err := app.listingCache.Get(r.Context(), key)
		if err != nil {
			app.logger.Warn("Listing cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		if ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(body); err != nil {
				app.logger.Error(err.Error())
			}
			return
		}

		w.Header().Set("X-Cache", "MISS")
		sw := &statusWriter{ResponseWriter: w, body: &bytes.Buffer{}}
		next(sw, r)

		if sw.status == http.StatusOK {
			if err := app.listingCache.Set(r.Context(), key, sw.body.Bytes()); err != nil {
				app.logger.Warn("Listing cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
	}
}
