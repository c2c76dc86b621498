package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.properties.InsertOne(ctx, p)
	return translate("create property", err)
}

func (s *Store) PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	if err := s.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate("property by id", err)
	}
	return &p, nil
}

type propertyWithOwner struct {
	models.Property `bson:",inline"`
	Owner           []models.PublicUser `bson:"owner"`
}

func (s *Store) PropertyDetail(ctx context.Context, id primitive.ObjectID) (*models.PropertyDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "landlord",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$project", Value: bson.M{
			"owner.password":  0,
			"owner.favorites": 0,
		}}},
	}

	cursor, err := s.properties.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate("property detail", err)
	}
	defer cursor.Close(ctx)

	var rows []propertyWithOwner
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translate("decode property detail", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("property detail: %w", store.ErrNotFound)
	}

	detail := &models.PropertyDetail{Property: rows[0].Property}
	if len(rows[0].Owner) > 0 {
		owner := rows[0].Owner[0]
		detail.Landlord = &owner
	}
	return detail, nil
}

// propertyQuery translates the listing filter into a MongoDB query document.
func propertyQuery(f store.PropertyFilter) bson.M {
	q := bson.M{}
	if f.Address != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Address), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"location.address": re},
			bson.M{"location.city": re},
			bson.M{"location.state": re},
		}
	}
	if f.PropertyType != "" {
		q["propertyType"] = f.PropertyType
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	if f.MinBedrooms != nil {
		q["bedrooms"] = bson.M{"$gte": *f.MinBedrooms}
	}
	if f.MinGuests != nil {
		q["maxGuests"] = bson.M{"$gte": *f.MinGuests}
	}
	if f.GuestType != "" {
		q["guestType"] = f.GuestType
	}
	return q
}

func (s *Store) findProperties(ctx context.Context, op string, filter interface{}, opts *options.FindOptions) ([]models.Property, error) {
	cursor, err := s.properties.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(op, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, translate(op, err)
	}
	return properties, nil
}

func (s *Store) pagedProperties(ctx context.Context, op string, filter bson.M, page store.Page) ([]models.Property, int64, error) {
	total, err := s.properties.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(op, err)
	}

	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))
	properties, err := s.findProperties(ctx, op, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (s *Store) ListProperties(ctx context.Context, f store.PropertyFilter, page store.Page) ([]models.Property, int64, error) {
	return s.pagedProperties(ctx, "list properties", propertyQuery(f), page)
}

func (s *Store) PropertiesByLandlord(ctx context.Context, landlord primitive.ObjectID) ([]models.Property, error) {
	return s.findProperties(ctx, "properties by landlord", bson.M{"landlord": landlord}, options.Find().SetSort(newestFirst()))
}

func (s *Store) PropertiesByIDs(ctx context.Context, ids []primitive.ObjectID, page store.Page) ([]models.Property, int64, error) {
	if len(ids) == 0 {
		return []models.Property{}, 0, nil
	}
	return s.pagedProperties(ctx, "properties by ids", bson.M{"_id": bson.M{"$in": ids}}, page)
}

func similarQuery(base *models.Property) bson.M {
	return bson.M{
		"_id":                      bson.M{"$ne": base.ID},
		"availability.isAvailable": true,
		"$or": bson.A{
			bson.M{"location.city": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(base.Location.City) + "$", Options: "i"}},
			bson.M{"propertyType": base.PropertyType},
		},
	}
}

func (s *Store) SimilarCandidates(ctx context.Context, base *models.Property, max int) ([]models.Property, error) {
	opts := options.Find().SetSort(newestFirst()).SetLimit(int64(max))
	return s.findProperties(ctx, "similar candidates", similarQuery(base), opts)
}

func (s *Store) UpdateProperty(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now()
	res, err := s.properties.ReplaceOne(ctx, bson.M{"_id": p.ID, "landlord": p.Landlord}, p)
	if err != nil {
		return translate("update property", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update property %s: %w", p.ID.Hex(), store.ErrNotFound)
	}
	return nil
}

func (s *Store) ToggleAvailability(ctx context.Context, id, landlord primitive.ObjectID) (*models.Property, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "availability.isAvailable", Value: bson.D{{Key: "$not", Value: bson.A{"$availability.isAvailable"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	var p models.Property
	err := s.properties.FindOneAndUpdate(ctx, bson.M{"_id": id, "landlord": landlord}, update, afterUpdate()).Decode(&p)
	if err != nil {
		return nil, translate("toggle availability", err)
	}
	return &p, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id, landlord primitive.ObjectID) error {
	res, err := s.properties.DeleteOne(ctx, bson.M{"_id": id, "landlord": landlord})
	if err != nil {
		return translate("delete property", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete property %s: %w", id.Hex(), store.ErrNotFound)
	}
	return nil
}
