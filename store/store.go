// Package store defines the persistence contracts for users, properties,
// messages and reviews. Implementations live in the mongostore and memstore
// subpackages.
package store

import (
	"context"
	"errors"

	"github.com/dcode-github/rishstay/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error)

	SetFavorites(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*models.User, error)
	AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error)
	RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error)
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	PropertyDetail(ctx context.Context, id primitive.ObjectID) (*models.PropertyDetail, error)
	ListProperties(ctx context.Context, f PropertyFilter, page Page) ([]models.Property, int64, error)
	PropertiesByLandlord(ctx context.Context, landlord primitive.ObjectID) ([]models.Property, error)
	PropertiesByIDs(ctx context.Context, ids []primitive.ObjectID, page Page) ([]models.Property, int64, error)
	SimilarCandidates(ctx context.Context, base *models.Property, max int) ([]models.Property, error)

	// UpdateProperty replaces the stored document. It matches on both id and
	// landlord so a property can never change hands.
	UpdateProperty(ctx context.Context, p *models.Property) error
	ToggleAvailability(ctx context.Context, id, landlord primitive.ObjectID) (*models.Property, error)
	DeleteProperty(ctx context.Context, id, landlord primitive.ObjectID) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	MessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	MessagesBySender(ctx context.Context, sender primitive.ObjectID) ([]models.Message, error)
	MessagesByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Message, error)
	MessagesByProperty(ctx context.Context, property primitive.ObjectID) ([]models.Message, error)
	MessagesByPropertyFor(ctx context.Context, property, user primitive.ObjectID) ([]models.Message, error)
	HasSentOnProperty(ctx context.Context, property, sender primitive.ObjectID) (bool, error)

	// AdvanceMessage moves a message to status `to` only if its current
	// status precedes it. ErrNotFound is returned when no message matched.
	AdvanceMessage(ctx context.Context, id primitive.ObjectID, to, reply string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id primitive.ObjectID) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r *models.Review) error
	ListReviews(ctx context.Context) ([]models.Review, error)
	ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	ReviewByUser(ctx context.Context, userID primitive.ObjectID) (*models.Review, error)
	UpdateReview(ctx context.Context, id, author primitive.ObjectID, comment string) (*models.Review, error)
	DeleteReview(ctx context.Context, id, author primitive.ObjectID) error
}

type Store interface {
	UserStore
	PropertyStore
	MessageStore
	ReviewStore
}
