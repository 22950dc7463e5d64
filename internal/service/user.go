package service

import (
	"context"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/storage"
)

const userSearchLimit = 20

// Profile is a user with activity counts for the profile page.
type Profile struct {
	User     *domain.User `json:"user"`
	Posts    int64        `json:"posts"`
	Comments int64        `json:"comments"`
}

// UserService exposes the read-side user operations the core needs.
type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Profile(ctx context.Context, id uint) (*Profile, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.CountPostsByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.CountCommentsByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts, Comments: comments}, nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	return s.store.SearchUsers(ctx, query, userSearchLimit)
}
