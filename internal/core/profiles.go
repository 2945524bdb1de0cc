package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
)

// Profile describes author as seen by viewer; viewer may be nil for anonymous requests.
func (c *Core) Profile(ctx context.Context, author *auth.User, viewer *auth.User) (*models.Profile, error) {
	count, err := c.store.CountPostsByAuthor(ctx, author.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	profile := &models.Profile{
		ID:         author.ID,
		Username:   author.Username,
		PostsCount: count,
	}

	if viewer != nil {
		profile.Following, err = c.store.FollowExists(ctx, viewer.ID, author.ID)
		if err != nil {
			return nil, xerrors.New(err)
		}
	}

	return profile, nil
}

// Follow creates the viewer -> author edge. Following someone already followed is a no-op.
func (c *Core) Follow(ctx context.Context, viewer *auth.User, username string) (*models.Profile, error) {
	author, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}

	if author.ID == viewer.ID {
		return nil, xerrors.New(ErrSelfFollow)
	}

	created, err := c.store.CreateFollow(ctx, &models.Follow{UserID: viewer.ID, AuthorID: author.ID})
	if err != nil {
		return nil, xerrors.New(err)
	}
	if created {
		c.log.Info("User followed", "follower", viewer.Username, "author", author.Username)
	}

	return c.Profile(ctx, author, viewer)
}

// Unfollow removes the viewer -> author edge if it exists.
func (c *Core) Unfollow(ctx context.Context, viewer *auth.User, username string) (*models.Profile, error) {
	author, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}

	deleted, err := c.store.DeleteFollow(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if deleted {
		c.log.Info("User unfollowed", "follower", viewer.Username, "author", author.Username)
	}

	return c.Profile(ctx, author, viewer)
}
