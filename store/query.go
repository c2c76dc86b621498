package store

import (
	"strings"

	"github.com/dcode-github/rishstay/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page and limit into their valid ranges.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the bounds of this page within a result set of n items.
func (p Page) Window(n int) (int, int) {
	start := p.Skip()
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// PropertyFilter holds the optional criteria of the public property listing.
type PropertyFilter struct {
	Address      string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinGuests    *int
	GuestType    string
}

func (f PropertyFilter) Match(p *models.Property) bool {
	if f.Address != "" {
		needle := strings.ToLower(f.Address)
		if !strings.Contains(strings.ToLower(p.Location.Address), needle) &&
			!strings.Contains(strings.ToLower(p.Location.City), needle) &&
			!strings.Contains(strings.ToLower(p.Location.State), needle) {
			return false
		}
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinBedrooms != nil && p.Bedrooms < *f.MinBedrooms {
		return false
	}
	if f.MinGuests != nil && p.MaxGuests < *f.MinGuests {
		return false
	}
	if f.GuestType != "" && p.GuestType != f.GuestType {
		return false
	}
	return true
}

// IsSimilarCandidate is the coarse pre-filter applied before ranking:
// another available property in the same city or of the same type.
func IsSimilarCandidate(base, p *models.Property) bool {
	if p.ID == base.ID || !p.Availability.IsAvailable {
		return false
	}
	return strings.EqualFold(p.Location.City, base.Location.City) || p.PropertyType == base.PropertyType
}
