// Package memstore is an in-memory store.Store. It enforces the same
// uniqueness rules as the MongoDB indexes and is used by handler tests.
package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu sync.RWMutex

	users      map[primitive.ObjectID]*models.User
	properties map[primitive.ObjectID]*models.Property
	messages   map[primitive.ObjectID]*models.Message
	reviews    map[primitive.ObjectID]*models.Review

	// insertion order, oldest first
	propertyOrder []primitive.ObjectID
	messageOrder  []primitive.ObjectID
	reviewOrder   []primitive.ObjectID
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[primitive.ObjectID]*models.User),
		properties: make(map[primitive.ObjectID]*models.Property),
		messages:   make(map[primitive.ObjectID]*models.Message),
		reviews:    make(map[primitive.ObjectID]*models.Review),
	}
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, store.ErrNotFound)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Favorites != nil {
		c.Favorites = append([]primitive.ObjectID{}, u.Favorites...)
	}
	return &c
}

func cloneProperty(p *models.Property) *models.Property {
	c := *p
	c.Amenities = cloneStrings(p.Amenities)
	c.Rules = cloneStrings(p.Rules)
	if p.Images != nil {
		c.Images = append([]models.Image{}, p.Images...)
	}
	if p.Rooms != nil {
		c.Rooms = make([]models.Room, len(p.Rooms))
		for i, r := range p.Rooms {
			r.Amenities = cloneStrings(r.Amenities)
			c.Rooms[i] = r
		}
	}
	c.Availability.AvailableFrom = cloneTime(p.Availability.AvailableFrom)
	c.Availability.AvailableTo = cloneTime(p.Availability.AvailableTo)
	return &c
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	c.PreferredDate = cloneTime(m.PreferredDate)
	c.RepliedAt = cloneTime(m.RepliedAt)
	return &c
}

func cloneReview(r *models.Review) *models.Review {
	c := *r
	return &c
}
