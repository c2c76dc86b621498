package memstore

import (
	"context"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.properties[p.ID] = cloneProperty(p)
	s.propertyOrder = append(s.propertyOrder, p.ID)
	return nil
}

func (s *Store) PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, notFound("property by id")
	}
	return cloneProperty(p), nil
}

func (s *Store) PropertyDetail(ctx context.Context, id primitive.ObjectID) (*models.PropertyDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, notFound("property detail")
	}
	detail := &models.PropertyDetail{Property: *cloneProperty(p)}
	if owner, ok := s.users[p.Landlord]; ok {
		detail.Landlord = owner.Public()
	}
	return detail, nil
}

// newestProperties returns the properties accepted by keep, newest first.
func (s *Store) newestProperties(keep func(*models.Property) bool) []models.Property {
	out := []models.Property{}
	for i := len(s.propertyOrder) - 1; i >= 0; i-- {
		p := s.properties[s.propertyOrder[i]]
		if keep(p) {
			out = append(out, *cloneProperty(p))
		}
	}
	return out
}

func paged(all []models.Property, page store.Page) ([]models.Property, int64) {
	start, end := page.Window(len(all))
	return append([]models.Property{}, all[start:end]...), int64(len(all))
}

func (s *Store) ListProperties(ctx context.Context, f store.PropertyFilter, page store.Page) ([]models.Property, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, total := paged(s.newestProperties(f.Match), page)
	return out, total, nil
}

func (s *Store) PropertiesByLandlord(ctx context.Context, landlord primitive.ObjectID) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestProperties(func(p *models.Property) bool { return p.Landlord == landlord }), nil
}

func (s *Store) PropertiesByIDs(ctx context.Context, ids []primitive.ObjectID, page store.Page) ([]models.Property, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out, total := paged(s.newestProperties(func(p *models.Property) bool { return want[p.ID] }), page)
	return out, total, nil
}

func (s *Store) SimilarCandidates(ctx context.Context, base *models.Property, max int) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.newestProperties(func(p *models.Property) bool { return store.IsSimilarCandidate(base, p) })
	if len(all) > max {
		all = all[:max]
	}
	return all, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.properties[p.ID]
	if !ok || existing.Landlord != p.Landlord {
		return notFound("update property")
	}
	p.UpdatedAt = time.Now()
	s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (s *Store) ToggleAvailability(ctx context.Context, id, landlord primitive.ObjectID) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok || p.Landlord != landlord {
		return nil, notFound("toggle availability")
	}
	p.Availability.IsAvailable = !p.Availability.IsAvailable
	p.UpdatedAt = time.Now()
	return cloneProperty(p), nil
}

func (s *Store) DeleteProperty(ctx context.Context, id, landlord primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok || p.Landlord != landlord {
		return notFound("delete property")
	}
	delete(s.properties, id)
	s.propertyOrder = removeID(s.propertyOrder, id)
	return nil
}
