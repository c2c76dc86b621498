package store

import (
	"testing"

	"github.com/dcode-github/rishstay/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, NewPage(0, 0))
	assert.Equal(t, Page{Page: 1, Limit: 20}, NewPage(-3, -1))
	assert.Equal(t, Page{Page: 3, Limit: 5}, NewPage(3, 5))
	assert.Equal(t, Page{Page: 2, Limit: MaxLimit}, NewPage(2, 1000))
}

func TestPageWindow(t *testing.T) {
	p := NewPage(2, 10)
	assert.Equal(t, 10, p.Skip())

	start, end := p.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = p.Window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = p.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func sampleProperty() *models.Property {
	return &models.Property{
		ID:           primitive.NewObjectID(),
		Price:        15000,
		Location:     models.Location{Address: "12 Baner Road", City: "Pune", State: "Maharashtra"},
		PropertyType: models.PropertyTypeApartment,
		Bedrooms:     2,
		MaxGuests:    4,
		GuestType:    "family",
		Availability: models.Availability{IsAvailable: true},
	}
}

func TestPropertyFilterMatch(t *testing.T) {
	p := sampleProperty()
	f64 := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	tests := []struct {
		name   string
		filter PropertyFilter
		want   bool
	}{
		{"empty filter", PropertyFilter{}, true},
		{"address substring, any case", PropertyFilter{Address: "baner"}, true},
		{"city substring", PropertyFilter{Address: "PUN"}, true},
		{"state substring", PropertyFilter{Address: "rashtra"}, true},
		{"address miss", PropertyFilter{Address: "Mumbai"}, false},
		{"type match", PropertyFilter{PropertyType: "apartment"}, true},
		{"type miss", PropertyFilter{PropertyType: "studio"}, false},
		{"price inside range", PropertyFilter{MinPrice: f64(10000), MaxPrice: f64(15000)}, true},
		{"price below min", PropertyFilter{MinPrice: f64(15001)}, false},
		{"price above max", PropertyFilter{MaxPrice: f64(14999)}, false},
		{"bedrooms minimum met", PropertyFilter{MinBedrooms: i(2)}, true},
		{"bedrooms minimum missed", PropertyFilter{MinBedrooms: i(3)}, false},
		{"guests minimum met", PropertyFilter{MinGuests: i(4)}, true},
		{"guests minimum missed", PropertyFilter{MinGuests: i(5)}, false},
		{"guest type miss", PropertyFilter{GuestType: "bachelors"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(p))
		})
	}
}

func TestIsSimilarCandidate(t *testing.T) {
	base := sampleProperty()

	sameCity := sampleProperty()
	sameCity.PropertyType = models.PropertyTypeStudio
	sameCity.Location.City = "pune"
	assert.True(t, IsSimilarCandidate(base, sameCity))

	sameType := sampleProperty()
	sameType.Location.City = "Nagpur"
	assert.True(t, IsSimilarCandidate(base, sameType))

	unrelated := sampleProperty()
	unrelated.Location.City = "Nagpur"
	unrelated.PropertyType = models.PropertyTypeStudio
	assert.False(t, IsSimilarCandidate(base, unrelated))

	unavailable := sampleProperty()
	unavailable.Availability.IsAvailable = false
	assert.False(t, IsSimilarCandidate(base, unavailable))

	assert.False(t, IsSimilarCandidate(base, base))
}
