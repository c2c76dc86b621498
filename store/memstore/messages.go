package memstore

import (
	"context"
	"time"

	"github.com/dcode-github/rishstay/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.messages[m.ID] = cloneMessage(m)
	s.messageOrder = append(s.messageOrder, m.ID)
	return nil
}

func (s *Store) MessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, notFound("message by id")
	}
	return cloneMessage(m), nil
}

func (s *Store) messagesWhere(keep func(*models.Message) bool) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Message{}
	for i := len(s.messageOrder) - 1; i >= 0; i-- {
		m := s.messages[s.messageOrder[i]]
		if keep(m) {
			out = append(out, *cloneMessage(m))
		}
	}
	return out
}

func (s *Store) MessagesBySender(ctx context.Context, sender primitive.ObjectID) ([]models.Message, error) {
	return s.messagesWhere(func(m *models.Message) bool { return m.Sender == sender }), nil
}

func (s *Store) MessagesByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Message, error) {
	return s.messagesWhere(func(m *models.Message) bool { return m.Recipient == recipient }), nil
}

func (s *Store) MessagesByProperty(ctx context.Context, property primitive.ObjectID) ([]models.Message, error) {
	return s.messagesWhere(func(m *models.Message) bool { return m.Property == property }), nil
}

func (s *Store) MessagesByPropertyFor(ctx context.Context, property, user primitive.ObjectID) ([]models.Message, error) {
	return s.messagesWhere(func(m *models.Message) bool {
		return m.Property == property && m.Involves(user)
	}), nil
}

func (s *Store) HasSentOnProperty(ctx context.Context, property, sender primitive.ObjectID) (bool, error) {
	found := s.messagesWhere(func(m *models.Message) bool {
		return m.Property == property && m.Sender == sender
	})
	return len(found) > 0, nil
}

func (s *Store) AdvanceMessage(ctx context.Context, id primitive.ObjectID, to, reply string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok || !models.CanAdvance(m.Status, to) {
		return nil, notFound("advance message")
	}
	m.Status = to
	if to == models.MessageReplied {
		now := time.Now()
		m.Reply = reply
		m.RepliedAt = &now
	}
	return cloneMessage(m), nil
}

func (s *Store) DeleteMessage(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return notFound("delete message")
	}
	delete(s.messages, id)
	s.messageOrder = removeID(s.messageOrder, id)
	return nil
}
