package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.messages.InsertOne(ctx, m)
	return translate("create message", err)
}

func (s *Store) MessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	if err := s.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, translate("message by id", err)
	}
	return &m, nil
}

func (s *Store) findMessages(ctx context.Context, op string, filter bson.M) ([]models.Message, error) {
	cursor, err := s.messages.Find(ctx, filter, options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, translate(op, err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, translate(op, err)
	}
	return messages, nil
}

func (s *Store) MessagesBySender(ctx context.Context, sender primitive.ObjectID) ([]models.Message, error) {
	return s.findMessages(ctx, "messages by sender", bson.M{"sender": sender})
}

func (s *Store) MessagesByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Message, error) {
	return s.findMessages(ctx, "messages by recipient", bson.M{"recipient": recipient})
}

func (s *Store) MessagesByProperty(ctx context.Context, property primitive.ObjectID) ([]models.Message, error) {
	return s.findMessages(ctx, "messages by property", bson.M{"property": property})
}

func (s *Store) MessagesByPropertyFor(ctx context.Context, property, user primitive.ObjectID) ([]models.Message, error) {
	return s.findMessages(ctx, "messages by property for user", bson.M{
		"property": property,
		"$or":      bson.A{bson.M{"sender": user}, bson.M{"recipient": user}},
	})
}

func (s *Store) HasSentOnProperty(ctx context.Context, property, sender primitive.ObjectID) (bool, error) {
	n, err := s.messages.CountDocuments(ctx, bson.M{"property": property, "sender": sender}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate("has sent on property", err)
	}
	return n > 0, nil
}

func (s *Store) AdvanceMessage(ctx context.Context, id primitive.ObjectID, to, reply string) (*models.Message, error) {
	from := models.StatusesBefore(to)
	if len(from) == 0 {
		return nil, fmt.Errorf("advance message to %q: %w", to, store.ErrNotFound)
	}

	set := bson.M{"status": to}
	if to == models.MessageReplied {
		set["reply"] = reply
		set["repliedAt"] = time.Now()
	}

	var m models.Message
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	if err := s.messages.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, afterUpdate()).Decode(&m); err != nil {
		return nil, translate("advance message", err)
	}
	return &m, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.messages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete message", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete message %s: %w", id.Hex(), store.ErrNotFound)
	}
	return nil
}
