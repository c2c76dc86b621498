package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyTypeApartment = "apartment"
	PropertyTypeStudio    = "studio"

	RoomAvailable = "available"
	RoomBooked    = "booked"
)

type Location struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
}

type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

type Availability struct {
	IsAvailable   bool       `bson:"isAvailable" json:"isAvailable"`
	AvailableFrom *time.Time `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
	AvailableTo   *time.Time `bson:"availableTo,omitempty" json:"availableTo,omitempty"`
}

// Valid reports whether AvailableTo falls after AvailableFrom when both are set.
func (a Availability) Valid() bool {
	if a.AvailableFrom == nil || a.AvailableTo == nil {
		return true
	}
	return a.AvailableTo.After(*a.AvailableFrom)
}

type Room struct {
	RoomName    string   `bson:"roomName" json:"roomName"`
	Rent        float64  `bson:"rent" json:"rent"`
	Size        float64  `bson:"size" json:"size"`
	Amenities   []string `bson:"amenities" json:"amenities"`
	Status      string   `bson:"status" json:"status"`
	Description string   `bson:"description" json:"description"`
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Location     Location           `bson:"location" json:"location"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Images       []Image            `bson:"images" json:"images"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	Area         float64            `bson:"area" json:"area"`
	MaxGuests    int                `bson:"maxGuests" json:"maxGuests"`
	GuestType    string             `bson:"guestType" json:"guestType"`
	Landlord     primitive.ObjectID `bson:"landlord" json:"landlord"`
	Availability Availability       `bson:"availability" json:"availability"`
	Rules        []string           `bson:"rules" json:"rules"`
	Rooms        []Room             `bson:"rooms" json:"rooms"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyDetail is a property with its landlord's public fields populated.
type PropertyDetail struct {
	Property
	Landlord *PublicUser `json:"landlord"`
}

func (p *Property) OwnedBy(userID primitive.ObjectID) bool {
	return p.Landlord == userID
}

func (p *Property) ImageIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		ids = append(ids, img.PublicID)
	}
	return ids
}
