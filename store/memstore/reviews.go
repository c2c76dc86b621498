package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.UserID == r.UserID {
			return fmt.Errorf("create review: %w", store.ErrDuplicate)
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.reviews[r.ID] = cloneReview(r)
	s.reviewOrder = append(s.reviewOrder, r.ID)
	return nil
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for i := len(s.reviewOrder) - 1; i >= 0; i-- {
		out = append(out, *cloneReview(s.reviews[s.reviewOrder[i]]))
	}
	return out, nil
}

func (s *Store) ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, notFound("review by id")
	}
	return cloneReview(r), nil
}

func (s *Store) ReviewByUser(ctx context.Context, userID primitive.ObjectID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reviews {
		if r.UserID == userID {
			return cloneReview(r), nil
		}
	}
	return nil, notFound("review by user")
}

func (s *Store) UpdateReview(ctx context.Context, id, author primitive.ObjectID, comment string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok || r.UserID != author {
		return nil, notFound("update review")
	}
	r.Comment = comment
	r.UpdatedAt = time.Now()
	return cloneReview(r), nil
}

func (s *Store) DeleteReview(ctx context.Context, id, author primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok || r.UserID != author {
		return notFound("delete review")
	}
	delete(s.reviews, id)
	s.reviewOrder = removeID(s.reviewOrder, id)
	return nil
}
