package models

import "strings"

// Request payloads shared by the HTTP handlers and the Go client. The
// schema tags name the multipart form keys accepted for property uploads;
// the yaml tags are the same keys in seed fixtures.

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role" validate:"required,oneof=landlord tenant"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type LocationInput struct {
	Address string `json:"address" schema:"address" yaml:"address" validate:"required,max=200"`
	City    string `json:"city" schema:"city" yaml:"city" validate:"required,max=100"`
	State   string `json:"state" schema:"state" yaml:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" schema:"zipCode" yaml:"zipCode" validate:"required,zipcode"`
}

type AvailabilityInput struct {
	IsAvailable   *bool  `json:"isAvailable,omitempty" schema:"isAvailable" yaml:"isAvailable"`
	AvailableFrom string `json:"availableFrom,omitempty" schema:"availableFrom" yaml:"availableFrom"`
	AvailableTo   string `json:"availableTo,omitempty" schema:"availableTo" yaml:"availableTo"`
}

type RoomInput struct {
	RoomName    string   `json:"roomName" schema:"roomName" yaml:"roomName" validate:"required,max=100"`
	Rent        *float64 `json:"rent" schema:"rent" yaml:"rent" validate:"required,gte=0"`
	Size        *float64 `json:"size,omitempty" schema:"size" yaml:"size" validate:"omitempty,gte=0"`
	Amenities   []string `json:"amenities,omitempty" schema:"amenities" yaml:"amenities"`
	Status      string   `json:"status,omitempty" schema:"status" yaml:"status" validate:"omitempty,oneof=available booked"`
	Description string   `json:"description,omitempty" schema:"description" yaml:"description" validate:"max=1000"`
}

type PropertyInput struct {
	Title        string            `json:"title" schema:"title" yaml:"title" validate:"required,min=3,max=100"`
	Description  string            `json:"description" schema:"description" yaml:"description" validate:"required,max=5000"`
	Price        *float64          `json:"price" schema:"price" yaml:"price" validate:"required,gte=0"`
	Location     LocationInput     `json:"location" schema:"location" yaml:"location"`
	PropertyType string            `json:"propertyType" schema:"propertyType" yaml:"propertyType" validate:"required,oneof=apartment studio"`
	Amenities    []string          `json:"amenities,omitempty" schema:"amenities" yaml:"amenities"`
	Bedrooms     *int              `json:"bedrooms" schema:"bedrooms" yaml:"bedrooms" validate:"required,gte=0"`
	Bathrooms    *int              `json:"bathrooms" schema:"bathrooms" yaml:"bathrooms" validate:"required,gte=0"`
	Area         *float64          `json:"area" schema:"area" yaml:"area" validate:"required,gte=0"`
	MaxGuests    *int              `json:"maxGuests" schema:"maxGuests" yaml:"maxGuests" validate:"required,gte=1"`
	GuestType    string            `json:"guestType" schema:"guestType" yaml:"guestType" validate:"required,oneof=family bachelors girls boys any"`
	Availability AvailabilityInput `json:"availability" schema:"availability" yaml:"availability"`
	Rules        []string          `json:"rules,omitempty" schema:"rules" yaml:"rules"`
	Rooms        []RoomInput       `json:"rooms,omitempty" schema:"rooms" yaml:"rooms" validate:"dive"`
}

type LocationPatch struct {
	Address *string `json:"address,omitempty" schema:"address" yaml:"address" validate:"omitempty,min=1,max=200"`
	City    *string `json:"city,omitempty" schema:"city" yaml:"city" validate:"omitempty,min=1,max=100"`
	State   *string `json:"state,omitempty" schema:"state" yaml:"state" validate:"omitempty,min=1,max=100"`
	ZipCode *string `json:"zipCode,omitempty" schema:"zipCode" yaml:"zipCode" validate:"omitempty,zipcode"`
}

type AvailabilityPatch struct {
	IsAvailable   *bool   `json:"isAvailable,omitempty" schema:"isAvailable" yaml:"isAvailable"`
	AvailableFrom *string `json:"availableFrom,omitempty" schema:"availableFrom" yaml:"availableFrom"`
	AvailableTo   *string `json:"availableTo,omitempty" schema:"availableTo" yaml:"availableTo"`
}

// PropertyPatch is the allow-list of fields a landlord may change.
type PropertyPatch struct {
	Title        *string            `json:"title,omitempty" schema:"title" yaml:"title" validate:"omitempty,min=3,max=100"`
	Description  *string            `json:"description,omitempty" schema:"description" yaml:"description" validate:"omitempty,min=1,max=5000"`
	Price        *float64           `json:"price,omitempty" schema:"price" yaml:"price" validate:"omitempty,gte=0"`
	Location     *LocationPatch     `json:"location,omitempty" schema:"location" yaml:"location"`
	PropertyType *string            `json:"propertyType,omitempty" schema:"propertyType" yaml:"propertyType" validate:"omitempty,oneof=apartment studio"`
	Amenities    []string           `json:"amenities,omitempty" schema:"amenities" yaml:"amenities"`
	Bedrooms     *int               `json:"bedrooms,omitempty" schema:"bedrooms" yaml:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int               `json:"bathrooms,omitempty" schema:"bathrooms" yaml:"bathrooms" validate:"omitempty,gte=0"`
	Area         *float64           `json:"area,omitempty" schema:"area" yaml:"area" validate:"omitempty,gte=0"`
	MaxGuests    *int               `json:"maxGuests,omitempty" schema:"maxGuests" yaml:"maxGuests" validate:"omitempty,gte=1"`
	GuestType    *string            `json:"guestType,omitempty" schema:"guestType" yaml:"guestType" validate:"omitempty,oneof=family bachelors girls boys any"`
	Availability *AvailabilityPatch `json:"availability,omitempty" schema:"availability" yaml:"availability"`
	Rules        []string           `json:"rules,omitempty" schema:"rules" yaml:"rules"`
	Rooms        []RoomInput        `json:"rooms,omitempty" schema:"rooms" yaml:"rooms" validate:"omitempty,dive"`
}

type SendMessageRequest struct {
	PropertyID    string `json:"propertyId" validate:"required,objectid"`
	Subject       string `json:"subject" validate:"required,max=200"`
	Message       string `json:"message" validate:"required,max=2000"`
	InquiryType   string `json:"inquiryType,omitempty" validate:"omitempty,oneof=general viewing booking pricing other"`
	PreferredDate string `json:"preferredDate,omitempty"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

type FavoritesRequest struct {
	Favorites []string `json:"favorites" validate:"required,dive,objectid"`
}

type AddFavoriteRequest struct {
	PropertyID string `json:"propertyId" validate:"required,objectid"`
}

type ReviewRequest struct {
	Comment string `json:"comment" validate:"required,min=5,max=500"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Normalize trims the free-text fields so that validation sees what will be
// stored.
func (in *PropertyInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location.Address = strings.TrimSpace(in.Location.Address)
	in.Location.City = strings.TrimSpace(in.Location.City)
	in.Location.State = strings.TrimSpace(in.Location.State)
	in.Location.ZipCode = strings.TrimSpace(in.Location.ZipCode)
	normalizeRooms(in.Rooms)
}

func (p *PropertyPatch) Normalize() {
	p.Title = trimPtr(p.Title)
	p.Description = trimPtr(p.Description)
	if loc := p.Location; loc != nil {
		loc.Address = trimPtr(loc.Address)
		loc.City = trimPtr(loc.City)
		loc.State = trimPtr(loc.State)
		loc.ZipCode = trimPtr(loc.ZipCode)
	}
	normalizeRooms(p.Rooms)
}

func normalizeRooms(rooms []RoomInput) {
	for i := range rooms {
		rooms[i].RoomName = strings.TrimSpace(rooms[i].RoomName)
		rooms[i].Description = strings.TrimSpace(rooms[i].Description)
	}
}
