// Package memory is a process-local store.Store used in development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/utils/collectionutils"
	"github.com/siahsang/postfeed/internal/utils/functional"
	"github.com/siahsang/postfeed/models"
)

type followKey struct {
	userID   int64
	authorID int64
}

type Store struct {
	mu     sync.RWMutex
	nextID int64

	users    map[int64]*auth.User
	groups   map[int64]*models.Group
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	follows  map[followKey]*models.Follow
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[int64]*auth.User),
		groups:   make(map[int64]*models.Group),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		follows:  make(map[followKey]*models.Follow),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// DoTransactionally runs fn directly; every method applies atomically on its own.
func (s *Store) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) CreateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return xerrors.New(store.ErrDuplicateEmail)
		}
		if u.Username == user.Username {
			return xerrors.New(store.ErrDuplicateUsername)
		}
	}

	user.ID = s.id()
	stored := *user
	stored.PlaintextPassword = ""
	stored.Token = ""
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) findUser(match func(*auth.User) bool) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, xerrors.New(store.ErrNoRecord)
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*auth.User, error) {
	return s.findUser(func(u *auth.User) bool { return u.ID == id })
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	return s.findUser(func(u *auth.User) bool { return u.Email == email })
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*auth.User, error) {
	return s.findUser(func(u *auth.User) bool { return u.Username == username })
}

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Slug == group.Slug {
			return xerrors.New(store.ErrDuplicateSlug)
		}
	}

	group.ID = s.id()
	stored := *group
	s.groups[group.ID] = &stored
	return nil
}

func (s *Store) GetGroupBySlug(_ context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			found := *g
			return &found, nil
		}
	}
	return nil, xerrors.New(store.ErrNoRecord)
}

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return xerrors.Newf("post author %d does not exist", post.AuthorID)
	}
	post.ID = s.id()
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *Store) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.posts[post.ID]
	if !ok {
		return xerrors.New(store.ErrNoRecord)
	}
	stored.Text = post.Text
	stored.Image = post.Image
	stored.GroupID = post.GroupID
	return nil
}

// view copies a stored post and fills the joined columns. Callers hold the read lock.
func (s *Store) view(p *models.Post) *models.Post {
	post := *p
	if author, ok := s.users[p.AuthorID]; ok {
		post.Author = author.Username
	}
	post.GroupSlug = nil
	if p.GroupID != nil {
		if group, ok := s.groups[*p.GroupID]; ok {
			slug := group.Slug
			post.GroupSlug = &slug
		}
	}
	return &post
}

func (s *Store) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, xerrors.New(store.ErrNoRecord)
	}
	return s.view(p), nil
}

func (s *Store) listPosts(keep func(*models.Post) bool) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keep(p) {
			posts = append(posts, s.view(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (s *Store) ListPosts(_ context.Context) ([]*models.Post, error) {
	return s.listPosts(func(*models.Post) bool { return true }), nil
}

func (s *Store) ListPostsByGroup(_ context.Context, groupID int64) ([]*models.Post, error) {
	return s.listPosts(func(p *models.Post) bool { return p.GroupID != nil && *p.GroupID == groupID }), nil
}

func (s *Store) ListPostsByAuthor(_ context.Context, authorID int64) ([]*models.Post, error) {
	return s.listPosts(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *Store) ListPostsByAuthors(_ context.Context, authorIDs []int64) ([]*models.Post, error) {
	wanted := collectionutils.Associate(authorIDs, func(id int64) (int64, bool) { return id, true })
	return s.listPosts(func(p *models.Post) bool { return wanted[p.AuthorID] }), nil
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	posts, _ := s.ListPostsByAuthor(ctx, authorID)
	return int64(len(posts)), nil
}

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return xerrors.New(store.ErrNoRecord)
	}
	comment.ID = s.id()
	stored := *comment
	s.comments[comment.ID] = &stored
	return nil
}

func (s *Store) ListComments(_ context.Context, postID int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		comment := *c
		if author, ok := s.users[c.AuthorID]; ok {
			comment.Author = author.Username
		}
		comments = append(comments, &comment)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *Store) CreateFollow(_ context.Context, follow *models.Follow) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if follow.UserID == follow.AuthorID {
		return false, xerrors.Newf("user %d cannot follow themselves", follow.UserID)
	}
	key := followKey{userID: follow.UserID, authorID: follow.AuthorID}
	if existing, ok := s.follows[key]; ok {
		follow.ID = existing.ID
		return false, nil
	}

	follow.ID = s.id()
	stored := *follow
	s.follows[key] = &stored
	return true, nil
}

func (s *Store) DeleteFollow(_ context.Context, userID, authorID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, ok := s.follows[key]; !ok {
		return false, nil
	}
	delete(s.follows, key)
	return true, nil
}

func (s *Store) FollowExists(_ context.Context, userID, authorID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[followKey{userID: userID, authorID: authorID}]
	return ok, nil
}

func (s *Store) ListFollowing(_ context.Context, userID int64) ([]*models.Follow, error) {
	s.mu.RLock()
	all := make([]*models.Follow, 0, len(s.follows))
	for _, f := range s.follows {
		follow := *f
		all = append(all, &follow)
	}
	s.mu.RUnlock()

	following := functional.Filter(all, func(f *models.Follow) bool { return f.UserID == userID })
	sort.Slice(following, func(i, j int) bool { return following[i].ID < following[j].ID })
	return following, nil
}

func (s *Store) CountFollows(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.follows)), nil
}
