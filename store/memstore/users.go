package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Phone == u.Phone {
			return fmt.Errorf("create user: %w", store.ErrDuplicate)
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Favorites == nil {
		u.Favorites = []primitive.ObjectID{}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user by id")
	}
	return cloneUser(u), nil
}

func (s *Store) userWhere(op string, match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, notFound(op)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userWhere("user by email", func(u *models.User) bool { return u.Email == email })
}

func (s *Store) UserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.userWhere("user by phone", func(u *models.User) bool { return u.Phone == phone })
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("update profile")
	}
	if upd.Phone != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Phone == *upd.Phone {
				return nil, fmt.Errorf("update profile: %w", store.ErrDuplicate)
			}
		}
		u.Phone = *upd.Phone
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	return cloneUser(u), nil
}

func (s *Store) mutateUser(op string, id primitive.ObjectID, fn func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound(op)
	}
	fn(u)
	return cloneUser(u), nil
}

func (s *Store) SetFavorites(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*models.User, error) {
	return s.mutateUser("set favorites", userID, func(u *models.User) {
		u.Favorites = append([]primitive.ObjectID{}, ids...)
	})
}

func (s *Store) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	return s.mutateUser("add favorite", userID, func(u *models.User) {
		if !u.HasFavorite(propertyID) {
			u.Favorites = append(u.Favorites, propertyID)
		}
	})
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	return s.mutateUser("remove favorite", userID, func(u *models.User) {
		u.Favorites = removeID(u.Favorites, propertyID)
	})
}
