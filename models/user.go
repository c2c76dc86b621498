package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"name" json:"name"`
	Phone     string               `bson:"phone" json:"phone"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Role      string               `bson:"role" json:"role"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// PublicUser is the subset of a user exposed on other people's resources.
type PublicUser struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone" json:"phone"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func (u *User) HasFavorite(propertyID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == propertyID {
			return true
		}
	}
	return false
}
