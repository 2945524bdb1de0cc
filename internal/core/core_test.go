package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/store/memory"
	"github.com/siahsang/postfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	core  *Core
	store *memory.Store
	clock time.Time
}

func newFixture(t *testing.T, order FollowOrder) *fixture {
	t.Helper()
	st := memory.New()
	f := &fixture{
		store: st,
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.core = NewCore(st, slog.New(slog.NewTextHandler(io.Discard, nil)), order)
	f.core.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func (f *fixture) user(t *testing.T, username string) *auth.User {
	t.Helper()
	u := &auth.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, f.core.CreateNewUser(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) {
	t.Helper()
	require.NoError(t, f.core.SeedGroups(context.Background(), []models.Group{{Title: slug, Slug: slug}}))
}

func (f *fixture) post(t *testing.T, author *auth.User, text string, group *string) *models.Post {
	t.Helper()
	p, err := f.core.CreatePost(context.Background(), author, PostInput{Text: text, GroupSlug: group})
	require.NoError(t, err)
	return p
}

func ptr(s string) *string { return &s }

func TestGroupFeedNeverLeaksOtherGroups(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")
	f.group(t, "cats")
	f.group(t, "dogs")
	for i := 0; i < 3; i++ {
		f.post(t, leo, fmt.Sprintf("cat %d", i), ptr("cats"))
		f.post(t, leo, fmt.Sprintf("dog %d", i), ptr("dogs"))
	}
	f.post(t, leo, "no group", nil)

	for _, slug := range []string{"cats", "dogs"} {
		group, posts, err := f.core.GroupFeed(ctx, slug)
		require.NoError(t, err)
		assert.Equal(t, slug, group.Slug)
		require.Len(t, posts, 3)
		for _, p := range posts {
			require.NotNil(t, p.GroupSlug)
			assert.Equal(t, slug, *p.GroupSlug)
		}
	}

	_, _, err := f.core.GroupFeed(ctx, "birds")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGlobalFeedNewestFirst(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	leo := f.user(t, "leo")
	first := f.post(t, leo, "first", nil)
	second := f.post(t, leo, "second", nil)

	posts, err := f.core.GlobalFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestAuthorFeed(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")
	ann := f.user(t, "ann")
	f.post(t, leo, "by leo", nil)
	f.post(t, ann, "by ann", nil)

	author, posts, err := f.core.AuthorFeed(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, author.ID)
	require.Len(t, posts, 1)
	assert.Equal(t, "by leo", posts[0].Text)

	_, _, err = f.core.AuthorFeed(ctx, "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFollowFeedEmptyWhenFollowingNobody(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	leo := f.user(t, "leo")
	ann := f.user(t, "ann")
	f.post(t, ann, "hello", nil)

	posts, err := f.core.FollowFeed(context.Background(), leo)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFollowThenUnfollowRestoresEdgeCount(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")
	ann := f.user(t, "ann")
	f.post(t, ann, "hello", nil)

	before, _ := f.store.CountFollows(ctx)

	profile, err := f.core.Follow(ctx, leo, "ann")
	require.NoError(t, err)
	assert.True(t, profile.Following)

	_, err = f.core.Follow(ctx, leo, "ann")
	require.NoError(t, err)
	count, _ := f.store.CountFollows(ctx)
	assert.Equal(t, before+1, count)

	posts, err := f.core.FollowFeed(ctx, leo)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	profile, err = f.core.Unfollow(ctx, leo, "ann")
	require.NoError(t, err)
	assert.False(t, profile.Following)
	count, _ = f.store.CountFollows(ctx)
	assert.Equal(t, before, count)

	_, err = f.core.Unfollow(ctx, leo, "ann")
	require.NoError(t, err)

	posts, err = f.core.FollowFeed(ctx, leo)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFollowRejectsSelfAndUnknownUsers(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")

	_, err := f.core.Follow(ctx, leo, "leo")
	assert.True(t, errors.Is(err, ErrSelfFollow))
	count, _ := f.store.CountFollows(ctx)
	assert.Zero(t, count)

	_, err = f.core.Follow(ctx, leo, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = f.core.Unfollow(ctx, leo, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFollowFeedOrdering(t *testing.T) {
	seed := func(t *testing.T, order FollowOrder) []string {
		f := newFixture(t, order)
		ctx := context.Background()
		viewer := f.user(t, "viewer")
		ann := f.user(t, "ann")
		bob := f.user(t, "bob")
		f.post(t, bob, "bob 1", nil)
		f.post(t, ann, "ann 1", nil)
		f.post(t, bob, "bob 2", nil)

		_, err := f.core.Follow(ctx, viewer, "ann")
		require.NoError(t, err)
		_, err = f.core.Follow(ctx, viewer, "bob")
		require.NoError(t, err)

		posts, err := f.core.FollowFeed(ctx, viewer)
		require.NoError(t, err)
		texts := make([]string, len(posts))
		for i, p := range posts {
			texts[i] = p.Text
		}
		return texts
	}

	assert.Equal(t, []string{"ann 1", "bob 2", "bob 1"}, seed(t, FollowOrderConcat))
	assert.Equal(t, []string{"bob 2", "ann 1", "bob 1"}, seed(t, FollowOrderNewest))
}

func TestOnlyAuthorCanEdit(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")
	ann := f.user(t, "ann")
	f.group(t, "cats")
	post := f.post(t, leo, "original", nil)

	_, err := f.core.EditPost(ctx, ann, post.ID, PostInput{Text: "hijacked"})
	assert.True(t, errors.Is(err, ErrForbidden))

	unchanged, err := f.core.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Text)

	edited, err := f.core.EditPost(ctx, leo, post.ID, PostInput{Text: "edited", GroupSlug: ptr("cats")})
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)
	require.NotNil(t, edited.GroupSlug)
	assert.Equal(t, "cats", *edited.GroupSlug)

	_, err = f.core.EditPost(ctx, leo, 9999, PostInput{Text: "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreatePostWithUnknownGroup(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")

	_, err := f.core.CreatePost(ctx, leo, PostInput{Text: "hi", GroupSlug: ptr("nowhere")})
	assert.True(t, errors.Is(err, ErrInvalidGroup))

	posts, _ := f.core.GlobalFeed(ctx)
	assert.Empty(t, posts)
}

func TestPostDetailWithComments(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	ctx := context.Background()
	leo := f.user(t, "leo")
	ann := f.user(t, "ann")
	post := f.post(t, leo, "hello", nil)
	f.post(t, leo, "again", nil)

	_, err := f.core.AddComment(ctx, ann, post.ID, "nice")
	require.NoError(t, err)
	_, err = f.core.AddComment(ctx, ann, 9999, "lost")
	assert.True(t, errors.Is(err, ErrNotFound))

	detail, err := f.core.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", detail.Post.Text)
	assert.Equal(t, int64(2), detail.AuthorPosts)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "ann", detail.Comments[0].Author)
}

func TestSeedGroupsIsIdempotent(t *testing.T) {
	f := newFixture(t, FollowOrderConcat)
	groups := []models.Group{{Title: "Cats", Slug: "cats"}}
	require.NoError(t, f.core.SeedGroups(context.Background(), groups))
	require.NoError(t, f.core.SeedGroups(context.Background(), groups))
}

func TestParseFollowOrder(t *testing.T) {
	order, err := ParseFollowOrder("")
	require.NoError(t, err)
	assert.Equal(t, FollowOrderConcat, order)

	order, err = ParseFollowOrder("newest")
	require.NoError(t, err)
	assert.Equal(t, FollowOrderNewest, order)

	_, err = ParseFollowOrder("random")
	assert.Error(t, err)
}
