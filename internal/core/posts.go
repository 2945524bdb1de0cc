package core

import (
	"context"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/models"
)

// PostInput is the editable part of a post. A nil GroupSlug detaches the post from any group.
type PostInput struct {
	Text      string
	GroupSlug *string
	Image     *string
}

type PostDetail struct {
	Post        *models.Post
	Comments    []*models.Comment
	AuthorPosts int64
}

func (c *Core) resolveGroup(ctx context.Context, slug *string) (*int64, error) {
	if slug == nil {
		return nil, nil
	}
	group, err := c.store.GetGroupBySlug(ctx, *slug)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, xerrors.New(ErrInvalidGroup)
		}
		return nil, xerrors.New(err)
	}
	return &group.ID, nil
}

func (c *Core) CreatePost(ctx context.Context, author *auth.User, input PostInput) (*models.Post, error) {
	var created *models.Post
	err := c.store.DoTransactionally(ctx, func(txCtx context.Context) error {
		groupID, err := c.resolveGroup(txCtx, input.GroupSlug)
		if err != nil {
			return err
		}

		post := &models.Post{
			Text:      input.Text,
			Image:     input.Image,
			CreatedAt: c.now(),
			AuthorID:  author.ID,
			GroupID:   groupID,
		}
		if err := c.store.CreatePost(txCtx, post); err != nil {
			return xerrors.New(err)
		}

		created, err = c.store.GetPost(txCtx, post.ID)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Post created", "post_id", created.ID, "author", author.Username)
	return created, nil
}

// EditPost applies input to the post. Only the author may edit; anyone else gets ErrForbidden
// and the post stays unchanged.
func (c *Core) EditPost(ctx context.Context, editor *auth.User, postID int64, input PostInput) (*models.Post, error) {
	var edited *models.Post
	err := c.store.DoTransactionally(ctx, func(txCtx context.Context) error {
		post, err := c.store.GetPost(txCtx, postID)
		if err != nil {
			return notFound(err)
		}
		if post.AuthorID != editor.ID {
			return xerrors.New(ErrForbidden)
		}

		groupID, err := c.resolveGroup(txCtx, input.GroupSlug)
		if err != nil {
			return err
		}

		post.Text = input.Text
		post.Image = input.Image
		post.GroupID = groupID
		if err := c.store.UpdatePost(txCtx, post); err != nil {
			return notFound(err)
		}

		edited, err = c.store.GetPost(txCtx, postID)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}

	return edited, nil
}

func (c *Core) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := c.store.GetPost(ctx, postID)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

func (c *Core) PostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := c.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := c.store.ListComments(ctx, postID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	count, err := c.store.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return &PostDetail{
		Post:        post,
		Comments:    comments,
		AuthorPosts: count,
	}, nil
}
