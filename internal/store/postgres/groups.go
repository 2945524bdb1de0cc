package postgres

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
)

var groupConstraints = map[string]error{
	"post_groups_slug_key": store.ErrDuplicateSlug,
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO post_groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		if err := rows.Scan(&group.ID); err != nil {
			return 0, xerrors.New(err)
		}
		return group.ID, nil
	}, group.Title, group.Slug, group.Description)

	if err != nil {
		return translate(err, groupConstraints)
	}
	return nil
}

func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `
		SELECT id, title, slug, description
		FROM post_groups
		WHERE slug = $1
	`

	group, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Group, error) {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, xerrors.New(err)
		}
		return &group, nil
	}, slug)

	if err != nil {
		return nil, translate(err, nil)
	}
	return group, nil
}
