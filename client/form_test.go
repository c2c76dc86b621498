package client

import (
	"net/url"
	"testing"

	"github.com/dcode-github/rishstay/models"
	"github.com/stretchr/testify/assert"
)

func TestFormValues(t *testing.T) {
	price, rent, guests := 15000.0, 7500.0, 2
	available := false
	in := models.PropertyInput{
		Title:        "Loft",
		Price:        &price,
		Location:     models.LocationInput{City: "Pune", ZipCode: "411001"},
		Amenities:    []string{"wifi", "ac"},
		MaxGuests:    &guests,
		Availability: models.AvailabilityInput{IsAvailable: &available},
		Rooms: []models.RoomInput{
			{RoomName: "A", Rent: &rent},
			{RoomName: "B", Amenities: []string{"desk"}},
		},
	}

	assert.Equal(t, url.Values{
		"title":                    {"Loft"},
		"price":                    {"15000"},
		"location.city":            {"Pune"},
		"location.zipCode":         {"411001"},
		"amenities":                {"wifi", "ac"},
		"maxGuests":                {"2"},
		"availability.isAvailable": {"false"},
		"rooms.0.roomName":         {"A"},
		"rooms.0.rent":             {"7500"},
		"rooms.1.roomName":         {"B"},
		"rooms.1.amenities":        {"desk"},
	}, formValues(in))
}

func TestFormValuesSkipsUnsetPatchFields(t *testing.T) {
	title := "New title"
	patch := models.PropertyPatch{Title: &title, Location: &models.LocationPatch{}}
	assert.Equal(t, url.Values{"title": {"New title"}}, formValues(patch))
}

func TestListQueryValues(t *testing.T) {
	min, beds := 1000.5, 2
	q := ListQuery{Address: "baner", MinPrice: &min, Bedrooms: &beds, Page: 3}
	assert.Equal(t, url.Values{
		"address":  {"baner"},
		"minPrice": {"1000.5"},
		"bedrooms": {"2"},
		"page":     {"3"},
	}, q.values())
}
