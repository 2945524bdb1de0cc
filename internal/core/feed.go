package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/utils/collectionutils"
	"github.com/siahsang/postfeed/internal/utils/functional"
	"github.com/siahsang/postfeed/models"
)

func (c *Core) GlobalFeed(ctx context.Context) ([]*models.Post, error) {
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return posts, nil
}

func (c *Core) GroupFeed(ctx context.Context, slug string) (*models.Group, []*models.Post, error) {
	group, err := c.store.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, notFound(err)
	}

	posts, err := c.store.ListPostsByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, xerrors.New(err)
	}
	return group, posts, nil
}

func (c *Core) AuthorFeed(ctx context.Context, username string) (*auth.User, []*models.Post, error) {
	author, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, notFound(err)
	}

	posts, err := c.store.ListPostsByAuthor(ctx, author.ID)
	if err != nil {
		return nil, nil, xerrors.New(err)
	}
	return author, posts, nil
}

// FollowFeed returns posts by every author the viewer follows. It is empty
// when the viewer follows nobody.
func (c *Core) FollowFeed(ctx context.Context, viewer *auth.User) ([]*models.Post, error) {
	follows, err := c.store.ListFollowing(ctx, viewer.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if len(follows) == 0 {
		return []*models.Post{}, nil
	}

	authorIDs := functional.Map(follows, func(f *models.Follow) int64 { return f.AuthorID })
	posts, err := c.store.ListPostsByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if c.followOrder == FollowOrderNewest {
		return posts, nil
	}

	byAuthor := collectionutils.GroupBy(posts, func(p *models.Post) int64 { return p.AuthorID })
	feed := make([]*models.Post, 0, len(posts))
	for _, authorID := range authorIDs {
		feed = append(feed, collectionutils.GetOrDefault(byAuthor, authorID, nil)...)
	}
	return feed, nil
}
