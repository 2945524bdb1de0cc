package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
)

func (c *Core) AddComment(ctx context.Context, author *auth.User, postID int64, text string) (*models.Comment, error) {
	var comment *models.Comment
	err := c.store.DoTransactionally(ctx, func(txCtx context.Context) error {
		if _, err := c.store.GetPost(txCtx, postID); err != nil {
			return notFound(err)
		}

		comment = &models.Comment{
			PostID:    postID,
			AuthorID:  author.ID,
			Author:    author.Username,
			Text:      text,
			CreatedAt: c.now(),
		}
		if err := c.store.CreateComment(txCtx, comment); err != nil {
			return xerrors.New(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}
