package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
)

func scanCount(rows *sql.Rows) (int64, error) {
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, xerrors.New(err)
	}
	return n, nil
}

func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) (bool, error) {
	insertSQL := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING
		RETURNING id
	`

	id, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, insertSQL, scanCount, follow.UserID, follow.AuthorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, translate(err, nil)
	}

	follow.ID = id
	return true, nil
}

func (s *Store) DeleteFollow(ctx context.Context, userID, authorID int64) (bool, error) {
	deleteSQL := `
		DELETE FROM follows
		WHERE user_id = $1 AND author_id = $2
	`

	affected, err := databaseutils.Exec(s.sqlTemplate, ctx, deleteSQL, userID, authorID)
	if err != nil {
		return false, translate(err, nil)
	}
	return affected > 0, nil
}

func (s *Store) FollowExists(ctx context.Context, userID, authorID int64) (bool, error) {
	const selectSQL = `
		SELECT COUNT(*) FROM follows WHERE user_id = $1 AND author_id = $2
	`

	n, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, selectSQL, scanCount, userID, authorID)
	if err != nil {
		return false, translate(err, nil)
	}
	return n > 0, nil
}

func (s *Store) ListFollowing(ctx context.Context, userID int64) ([]*models.Follow, error) {
	query := `
		SELECT id, user_id, author_id
		FROM follows
		WHERE user_id = $1
		ORDER BY id
	`

	follows, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Follow, error) {
		var follow models.Follow
		if err := rows.Scan(&follow.ID, &follow.UserID, &follow.AuthorID); err != nil {
			return nil, xerrors.New(err)
		}
		return &follow, nil
	}, userID)

	if err != nil {
		return nil, translate(err, nil)
	}
	return follows, nil
}

func (s *Store) CountFollows(ctx context.Context) (int64, error) {
	n, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, `SELECT COUNT(*) FROM follows`, scanCount)
	if err != nil {
		return 0, translate(err, nil)
	}
	return n, nil
}
