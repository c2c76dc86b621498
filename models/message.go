package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageUnread  = "unread"
	MessageRead    = "read"
	MessageReplied = "replied"

	InquiryGeneral = "general"
)

var InquiryTypes = []string{"general", "viewing", "booking", "pricing", "other"}

type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Sender        primitive.ObjectID `bson:"sender" json:"sender"`
	Recipient     primitive.ObjectID `bson:"recipient" json:"recipient"`
	Property      primitive.ObjectID `bson:"property" json:"property"`
	Subject       string             `bson:"subject" json:"subject"`
	Message       string             `bson:"message" json:"message"`
	InquiryType   string             `bson:"inquiryType" json:"inquiryType"`
	PreferredDate *time.Time         `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Reply         string             `bson:"reply,omitempty" json:"reply,omitempty"`
	RepliedAt     *time.Time         `bson:"repliedAt,omitempty" json:"repliedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

var statusRank = map[string]int{
	MessageUnread:  0,
	MessageRead:    1,
	MessageReplied: 2,
}

// CanAdvance reports whether a message may move from one status to another.
// Status only ever moves forward: unread -> read -> replied.
func CanAdvance(from, to string) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t > f
}

// StatusesBefore lists the statuses a message may be in to advance to the given one.
func StatusesBefore(to string) []string {
	var out []string
	for _, s := range []string{MessageUnread, MessageRead, MessageReplied} {
		if CanAdvance(s, to) {
			out = append(out, s)
		}
	}
	return out
}

func (m *Message) Involves(userID primitive.ObjectID) bool {
	return m.Sender == userID || m.Recipient == userID
}
