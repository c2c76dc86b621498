package mongostore

import (
	"context"
	"time"

	"github.com/dcode-github/rishstay/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Favorites == nil {
		u.Favorites = []primitive.ObjectID{}
	}
	_, err := s.users.InsertOne(ctx, u)
	return translate("create user", err)
}

func (s *Store) findUser(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(op, err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, "user by id", bson.M{"_id": id})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "user by email", bson.M{"email": email})
}

func (s *Store) UserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, "user by phone", bson.M{"phone": phone})
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if len(set) == 0 {
		return s.UserByID(ctx, id)
	}
	return s.updateUser(ctx, "update profile", id, bson.M{"$set": set})
}

func (s *Store) SetFavorites(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*models.User, error) {
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return s.updateUser(ctx, "set favorites", userID, bson.M{"$set": bson.M{"favorites": ids}})
}

func (s *Store) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	return s.updateUser(ctx, "add favorite", userID, bson.M{"$addToSet": bson.M{"favorites": propertyID}})
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	return s.updateUser(ctx, "remove favorite", userID, bson.M{"$pull": bson.M{"favorites": propertyID}})
}

func (s *Store) updateUser(ctx context.Context, op string, id primitive.ObjectID, update bson.M) (*models.User, error) {
	var u models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&u)
	if err != nil {
		return nil, translate(op, err)
	}
	return &u, nil
}
