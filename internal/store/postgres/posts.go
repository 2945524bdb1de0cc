package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/internal/utils/stringutils"
	"github.com/siahsang/postfeed/models"
)

const selectPostSQL = `
	SELECT p.id, p.text, p.image, p.created_at, p.author_id, u.username, p.group_id, g.slug
	FROM posts AS p
	JOIN users AS u ON u.id = p.author_id
	LEFT JOIN post_groups AS g ON g.id = p.group_id
`

const newestFirst = ` ORDER BY p.created_at DESC, p.id DESC`

func scanPost(rows *sql.Rows) (*models.Post, error) {
	var post models.Post
	if err := rows.Scan(
		&post.ID,
		&post.Text,
		&post.Image,
		&post.CreatedAt,
		&post.AuthorID,
		&post.Author,
		&post.GroupID,
		&post.GroupSlug,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (text, image, author_id, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		if err := rows.Scan(&post.ID); err != nil {
			return 0, xerrors.New(err)
		}
		return post.ID, nil
	}, post.Text, post.Image, post.AuthorID, post.GroupID, post.CreatedAt)

	if err != nil {
		return translate(err, nil)
	}
	return nil
}

func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET text = $1, image = $2, group_id = $3
		WHERE id = $4
	`

	affected, err := databaseutils.Exec(s.sqlTemplate, ctx, query, post.Text, post.Image, post.GroupID, post.ID)
	if err != nil {
		return translate(err, nil)
	}
	if affected == 0 {
		return translate(sql.ErrNoRows, nil)
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, selectPostSQL+` WHERE p.id = $1`, scanPost, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return post, nil
}

func (s *Store) listPosts(ctx context.Context, where string, args ...any) ([]*models.Post, error) {
	posts, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, selectPostSQL+where+newestFirst, scanPost, args...)
	if err != nil {
		return nil, translate(err, nil)
	}
	return posts, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.listPosts(ctx, "")
}

func (s *Store) ListPostsByGroup(ctx context.Context, groupID int64) ([]*models.Post, error) {
	return s.listPosts(ctx, ` WHERE p.group_id = $1`, groupID)
}

func (s *Store) ListPostsByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error) {
	return s.listPosts(ctx, ` WHERE p.author_id = $1`, authorID)
}

func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []int64) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}

	placeholders, args := stringutils.INCluse(authorIDs)
	return s.listPosts(ctx, fmt.Sprintf(` WHERE p.author_id IN (%s)`, placeholders), args...)
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	count, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, scanCount, authorID)
	if err != nil {
		return 0, translate(err, nil)
	}
	return count, nil
}
