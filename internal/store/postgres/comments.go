package postgres

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
)

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	insertSQL := `
		INSERT INTO comments (text, created_at, author_id, post_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, insertSQL, func(rows *sql.Rows) (int64, error) {
		if err := rows.Scan(&comment.ID); err != nil {
			return 0, xerrors.New(err)
		}
		return comment.ID, nil
	}, comment.Text, comment.CreatedAt, comment.AuthorID, comment.PostID)

	if err != nil {
		return translate(err, nil)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		FROM comments AS c
		JOIN users AS u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`

	comments, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Comment, error) {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return &comment, nil
	}, postID)

	if err != nil {
		return nil, translate(err, nil)
	}
	return comments, nil
}
