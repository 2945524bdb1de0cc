package core

import (
	"context"

	"github.com/siahsang/postfeed/internal/auth"
)

func (c *Core) CreateNewUser(ctx context.Context, user *auth.User) error {
	return c.store.CreateUser(ctx, user)
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}
