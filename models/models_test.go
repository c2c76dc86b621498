package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAvailabilityValid(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := from.Add(24 * time.Hour)
	earlier := from.Add(-24 * time.Hour)

	assert.True(t, Availability{}.Valid())
	assert.True(t, Availability{AvailableFrom: &from}.Valid())
	assert.True(t, Availability{AvailableTo: &earlier}.Valid())
	assert.True(t, Availability{AvailableFrom: &from, AvailableTo: &later}.Valid())
	assert.False(t, Availability{AvailableFrom: &from, AvailableTo: &earlier}.Valid())
	assert.False(t, Availability{AvailableFrom: &from, AvailableTo: &from}.Valid())
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{MessageUnread, MessageRead, true},
		{MessageUnread, MessageReplied, true},
		{MessageRead, MessageReplied, true},
		{MessageRead, MessageUnread, false},
		{MessageReplied, MessageRead, false},
		{MessageReplied, MessageReplied, false},
		{MessageRead, MessageRead, false},
		{"archived", MessageRead, false},
		{MessageUnread, "archived", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(tt.from, tt.to))
		})
	}
}

func TestStatusesBefore(t *testing.T) {
	assert.Equal(t, []string{MessageUnread}, StatusesBefore(MessageRead))
	assert.Equal(t, []string{MessageUnread, MessageRead}, StatusesBefore(MessageReplied))
	assert.Empty(t, StatusesBefore(MessageUnread))
}

func TestMessageInvolves(t *testing.T) {
	sender, recipient := primitive.NewObjectID(), primitive.NewObjectID()
	m := &Message{Sender: sender, Recipient: recipient}

	assert.True(t, m.Involves(sender))
	assert.True(t, m.Involves(recipient))
	assert.False(t, m.Involves(primitive.NewObjectID()))
}

func TestPropertyOwnershipAndImages(t *testing.T) {
	owner := primitive.NewObjectID()
	p := &Property{
		Landlord: owner,
		Images:   []Image{{URL: "u1", PublicID: "a"}, {URL: "u2", PublicID: "b"}},
	}

	assert.True(t, p.OwnedBy(owner))
	assert.False(t, p.OwnedBy(primitive.NewObjectID()))
	assert.Equal(t, []string{"a", "b"}, p.ImageIDs())
	assert.Empty(t, (&Property{}).ImageIDs())
}

func TestUserPublicAndFavorites(t *testing.T) {
	fav := primitive.NewObjectID()
	u := &User{
		ID:        primitive.NewObjectID(),
		Name:      "Asha",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		Password:  "hash",
		Favorites: []primitive.ObjectID{fav},
	}

	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, "Asha", pub.Name)
	assert.Equal(t, "asha@example.com", pub.Email)
	assert.Equal(t, "9876543210", pub.Phone)

	assert.True(t, u.HasFavorite(fav))
	assert.False(t, u.HasFavorite(primitive.NewObjectID()))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0}, NewPagination(1, 20, 0))
	assert.Equal(t, int64(1), NewPagination(1, 20, 20).TotalPages)
	assert.Equal(t, int64(2), NewPagination(1, 20, 21).TotalPages)
	assert.Equal(t, int64(0), NewPagination(1, 0, 5).TotalPages)
}
