package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/cache"
	"github.com/siahsang/postfeed/internal/config"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/paginator"
	"github.com/siahsang/postfeed/internal/store/memory"
	"github.com/siahsang/postfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app     *application
	handler http.Handler
	store   *memory.Store
}

type feedResponse struct {
	Posts   []models.Post      `json:"posts"`
	Page    paginator.Metadata `json:"page"`
	Group   *models.Group      `json:"group"`
	Profile *models.Profile    `json:"profile"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{Env: "test"}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Cache.TTL = cache.DefaultTTL

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := memory.New()
	app := newApplication(cfg, core.NewCore(st, logger, core.FollowOrderConcat), cache.NewMemory(cfg.Cache.TTL), logger)

	return &testApp{app: app, handler: app.routes(), store: st}
}

func (ta *testApp) user(t *testing.T, username string) (*auth.User, string) {
	t.Helper()
	user := &auth.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, user.SetPassword("correct horse"))
	require.NoError(t, ta.app.core.CreateNewUser(context.Background(), user))
	token, err := ta.app.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (ta *testApp) group(t *testing.T, slug string) {
	t.Helper()
	require.NoError(t, ta.app.core.SeedGroups(context.Background(), []models.Group{{Title: slug, Slug: slug}}))
}

func (ta *testApp) post(t *testing.T, author *auth.User, text string, group *string) *models.Post {
	t.Helper()
	post, err := ta.app.core.CreatePost(context.Background(), author, core.PostInput{Text: text, GroupSlug: group})
	require.NoError(t, err)
	return post
}

func (ta *testApp) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func decodeFeed(t *testing.T, rr *httptest.ResponseRecorder) feedResponse {
	t.Helper()
	var feed feedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &feed))
	return feed
}

func ptr(s string) *string { return &s }

func TestIndexIsCachedUntilCleared(t *testing.T) {
	ta := newTestApp(t)
	leo, _ := ta.user(t, "leo")
	ta.post(t, leo, "first", nil)

	rr := ta.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	assert.Len(t, decodeFeed(t, rr).Posts, 1)

	ta.post(t, leo, "second", nil)

	rr = ta.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))
	assert.Len(t, decodeFeed(t, rr).Posts, 1)

	require.NoError(t, ta.app.listingCache.Clear(context.Background()))

	rr = ta.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeFeed(t, rr).Posts, 2)
}

func TestIndexCacheIgnoresViewer(t *testing.T) {
	ta := newTestApp(t)
	leo, token := ta.user(t, "leo")
	ta.post(t, leo, "first", nil)

	rr := ta.do(t, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))
}

func TestListingsPaginate(t *testing.T) {
	ta := newTestApp(t)
	leo, _ := ta.user(t, "leo")
	ta.group(t, "cats")
	for i := 0; i < 13; i++ {
		ta.post(t, leo, fmt.Sprintf("post %d", i), ptr("cats"))
	}

	for _, target := range []string{"/api/posts", "/api/groups/cats", "/api/profiles/leo"} {
		rr := ta.do(t, http.MethodGet, target, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, target)
		first := decodeFeed(t, rr)
		assert.Len(t, first.Posts, 10, target)
		assert.True(t, first.Page.HasNext, target)

		rr = ta.do(t, http.MethodGet, target+"?page=2", "", nil)
		require.Equal(t, http.StatusOK, rr.Code, target)
		second := decodeFeed(t, rr)
		assert.Len(t, second.Posts, 3, target)
		assert.Equal(t, 2, second.Page.Number, target)
	}

	rr := ta.do(t, http.MethodGet, "/api/groups/cats?page=42", "", nil)
	assert.Equal(t, 2, decodeFeed(t, rr).Page.Number)
}

func TestUnknownResourcesAreNotFound(t *testing.T) {
	ta := newTestApp(t)

	for _, target := range []string{"/api/groups/none", "/api/profiles/ghost", "/api/posts/999", "/api/posts/abc", "/unknown"} {
		rr := ta.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, target)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "The requested resource could not be found.", body["errorMessage"])
	}
}

func TestNonAuthorEditRedirectsToDetail(t *testing.T) {
	ta := newTestApp(t)
	leo, leoToken := ta.user(t, "leo")
	_, annToken := ta.user(t, "ann")
	post := ta.post(t, leo, "original", nil)
	target := fmt.Sprintf("/api/posts/%d", post.ID)

	rr := ta.do(t, http.MethodPut, target, annToken, map[string]any{"post": map[string]any{"text": "hijacked"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, target, rr.Header().Get("Location"))

	unchanged, err := ta.app.core.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Text)

	rr = ta.do(t, http.MethodPut, target, leoToken, map[string]any{"post": map[string]any{"text": "edited"}})
	require.Equal(t, http.StatusOK, rr.Code)
	edited, err := ta.app.core.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)
}

func TestCreatePost(t *testing.T) {
	ta := newTestApp(t)
	_, token := ta.user(t, "leo")
	ta.group(t, "cats")

	rr := ta.do(t, http.MethodPost, "/api/posts", "", map[string]any{"post": map[string]any{"text": "anon"}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/posts", token, map[string]any{"post": map[string]any{"text": "  "}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/posts", token, map[string]any{"post": map[string]any{"text": "hi", "group": "dogs"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	posts, err := ta.app.core.GlobalFeed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)

	rr = ta.do(t, http.MethodPost, "/api/posts", token, map[string]any{"post": map[string]any{"text": "hello cats", "group": "cats"}})
	require.Equal(t, http.StatusCreated, rr.Code)

	var body struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "hello cats", body.Post.Text)
	assert.Equal(t, "leo", body.Post.Author)
	require.NotNil(t, body.Post.GroupSlug)
	assert.Equal(t, "cats", *body.Post.GroupSlug)
	assert.Equal(t, fmt.Sprintf("/api/posts/%d", body.Post.ID), rr.Header().Get("Location"))
}

func TestCommentOnPost(t *testing.T) {
	ta := newTestApp(t)
	leo, token := ta.user(t, "leo")
	post := ta.post(t, leo, "hello", nil)
	target := fmt.Sprintf("/api/posts/%d", post.ID)

	rr := ta.do(t, http.MethodPost, target+"/comments", token, map[string]any{"comment": map[string]any{"text": ""}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/posts/999/comments", token, map[string]any{"comment": map[string]any{"text": "lost"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ta.do(t, http.MethodPost, target+"/comments", token, map[string]any{"comment": map[string]any{"text": "first!"}})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ta.do(t, http.MethodGet, target, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var detail struct {
		Post     models.Post      `json:"post"`
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "first!", detail.Comments[0].Text)
	assert.Equal(t, "leo", detail.Comments[0].Author)
}

func TestFollowAndUnfollow(t *testing.T) {
	ta := newTestApp(t)
	_, leoToken := ta.user(t, "leo")
	ann, _ := ta.user(t, "ann")
	ta.post(t, ann, "by ann", nil)
	ctx := context.Background()

	rr := ta.do(t, http.MethodGet, "/api/follow", leoToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeFeed(t, rr).Posts)

	before, _ := ta.store.CountFollows(ctx)

	rr = ta.do(t, http.MethodPost, "/api/profiles/ann/follow", leoToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, http.MethodGet, "/api/profiles/ann", leoToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decodeFeed(t, rr).Profile
	require.NotNil(t, profile)
	assert.True(t, profile.Following)

	rr = ta.do(t, http.MethodGet, "/api/follow", leoToken, nil)
	assert.Len(t, decodeFeed(t, rr).Posts, 1)

	rr = ta.do(t, http.MethodDelete, "/api/profiles/ann/follow", leoToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	after, _ := ta.store.CountFollows(ctx)
	assert.Equal(t, before, after)

	rr = ta.do(t, http.MethodDelete, "/api/profiles/ann/follow", leoToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/profiles/leo/follow", leoToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodGet, "/api/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodPost, "/api/users", "", map[string]any{"user": map[string]any{
		"username": "leo", "email": "leo@example.com", "password": "correct horse",
	}})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/users", "", map[string]any{"user": map[string]any{
		"username": "leo", "email": "other@example.com", "password": "correct horse",
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/users/login", "", map[string]any{"user": map[string]any{
		"email": "leo@example.com", "password": "wrong password",
	}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ta.do(t, http.MethodPost, "/api/users/login", "", map[string]any{"user": map[string]any{
		"email": "leo@example.com", "password": "correct horse",
	}})
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		User auth.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.User.Token)

	rr = ta.do(t, http.MethodGet, "/api/follow", body.User.Token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodGet, "/api/posts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodPatch, "/api/posts", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRecoverPanic(t *testing.T) {
	ta := newTestApp(t)
	h := ta.app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ta := newTestApp(t)

	rr := ta.do(t, http.MethodGet, "/api/posts", "", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
