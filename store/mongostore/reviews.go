package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateReview relies on the unique userId index; a second review by the
// same user surfaces as store.ErrDuplicate.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	_, err := s.reviews.InsertOne(ctx, r)
	return translate("create review", err)
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	cursor, err := s.reviews.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, translate("list reviews", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, translate("list reviews", err)
	}
	return reviews, nil
}

func (s *Store) ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	if err := s.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, translate("review by id", err)
	}
	return &r, nil
}

func (s *Store) ReviewByUser(ctx context.Context, userID primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	if err := s.reviews.FindOne(ctx, bson.M{"userId": userID}).Decode(&r); err != nil {
		return nil, translate("review by user", err)
	}
	return &r, nil
}

func (s *Store) UpdateReview(ctx context.Context, id, author primitive.ObjectID, comment string) (*models.Review, error) {
	update := bson.M{"$set": bson.M{"comment": comment, "updatedAt": time.Now()}}

	var r models.Review
	err := s.reviews.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": author}, update, afterUpdate()).Decode(&r)
	if err != nil {
		return nil, translate("update review", err)
	}
	return &r, nil
}

func (s *Store) DeleteReview(ctx context.Context, id, author primitive.ObjectID) error {
	res, err := s.reviews.DeleteOne(ctx, bson.M{"_id": id, "userId": author})
	if err != nil {
		return translate("delete review", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete review %s: %w", id.Hex(), store.ErrNotFound)
	}
	return nil
}
