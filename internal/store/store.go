// Package store declares the persistence contract for users, groups, posts,
// comments and follow edges.
package store

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
)

var (
	ErrNoRecord          = xerrors.Message("No record found")
	ErrDuplicateEmail    = xerrors.Message("Duplicate email")
	ErrDuplicateUsername = xerrors.Message("Duplicate username")
	ErrDuplicateSlug     = xerrors.Message("Duplicate slug")
)

// Store lists posts newest first (created_at DESC, id DESC) and comments oldest first.
type Store interface {
	// DoTransactionally runs fn as one unit of work.
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error

	CreateUser(ctx context.Context, user *auth.User) error
	GetUserByID(ctx context.Context, id int64) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	GetUserByUsername(ctx context.Context, username string) (*auth.User, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)

	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]*models.Post, error)
	ListPostsByGroup(ctx context.Context, groupID int64) ([]*models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error)
	ListPostsByAuthors(ctx context.Context, authorIDs []int64) ([]*models.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)

	// CreateFollow inserts the edge unless it exists; created reports whether it was new.
	CreateFollow(ctx context.Context, follow *models.Follow) (created bool, err error)
	// DeleteFollow reports whether an edge was removed.
	DeleteFollow(ctx context.Context, userID, authorID int64) (deleted bool, err error)
	FollowExists(ctx context.Context, userID, authorID int64) (bool, error)
	// ListFollowing returns the viewer's edges in creation order.
	ListFollowing(ctx context.Context, userID int64) ([]*models.Follow, error)
	CountFollows(ctx context.Context) (int64, error)
}
