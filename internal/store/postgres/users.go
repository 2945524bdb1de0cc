package postgres

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
)

var userConstraints = map[string]error{
	"users_email_key":    store.ErrDuplicateEmail,
	"users_username_key": store.ErrDuplicateUsername,
}

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, user.Username, user.Email, user.Password)

	if err != nil {
		return translate(err, userConstraints)
	}

	s.log.Info("User created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *Store) getUserBy(ctx context.Context, column string, value any) (*auth.User, error) {
	query := `
		SELECT id, email, username, password
		FROM users
		WHERE ` + column + ` = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, scanUser, value)
	if err != nil {
		return nil, translate(err, nil)
	}

	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	return s.getUserBy(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.getUserBy(ctx, "email", email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.getUserBy(ctx, "username", username)
}
