package core

import (
	"context"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/models"
)

// SeedGroups creates the administratively configured groups. Groups whose slug
// already exists are left untouched.
func (c *Core) SeedGroups(ctx context.Context, groups []models.Group) error {
	for _, group := range groups {
		g := group
		err := c.store.CreateGroup(ctx, &g)
		switch {
		case err == nil:
			c.log.Info("Group seeded", "slug", g.Slug)
		case errors.Is(err, store.ErrDuplicateSlug):
			c.log.Debug("Group already present", "slug", g.Slug)
		default:
			return xerrors.New(err)
		}
	}
	return nil
}
