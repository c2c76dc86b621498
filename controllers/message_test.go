package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messageFixture struct {
	*harness
	landlord account
	tenant   account
	property models.Property
}

func newMessageFixture(t *testing.T) messageFixture {
	h := newHarness(t)
	f := messageFixture{
		harness:  h,
		landlord: h.signup("Arjun Mehta", "arjun@example.com", models.RoleLandlord),
		tenant:   h.signup("Riya Sharma", "riya@example.com", models.RoleTenant),
	}
	f.property = h.createProperty(f.landlord.token, nil)
	return f
}

func (f messageFixture) send(token string, body map[string]interface{}) models.Message {
	f.t.Helper()
	if _, ok := body["propertyId"]; !ok {
		body["propertyId"] = f.property.ID.Hex()
	}
	status, resp := f.request(http.MethodPost, "/api/message/send", token, body)
	require.Equal(f.t, http.StatusCreated, status, "%s %v", resp.Message, resp.Errors)
	var msg models.Message
	decodeData(f.t, resp, &msg)
	return msg
}

func (f messageFixture) messageCount() int {
	f.t.Helper()
	msgs, err := f.store.MessagesByProperty(context.Background(), f.property.ID)
	require.NoError(f.t, err)
	return len(msgs)
}

func TestSendMessagePreferredDate(t *testing.T) {
	f := newMessageFixture(t)

	t.Run("past date is rejected", func(t *testing.T) {
		status, resp := f.request(http.MethodPost, "/api/message/send", f.tenant.token, map[string]interface{}{
			"propertyId":    f.property.ID.Hex(),
			"subject":       "Viewing",
			"message":       "Can I see the flat?",
			"preferredDate": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"preferredDate"}, resp.fields())
		assert.Zero(t, f.messageCount())
	})

	t.Run("future date is stored as unread", func(t *testing.T) {
		preferred := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
		msg := f.send(f.tenant.token, map[string]interface{}{
			"subject":       "Viewing",
			"message":       "Can I see the flat?",
			"inquiryType":   "viewing",
			"preferredDate": preferred.Format(time.RFC3339),
		})
		assert.Equal(t, models.MessageUnread, msg.Status)
		assert.Equal(t, "viewing", msg.InquiryType)
		assert.Equal(t, f.tenant.id, msg.Sender.Hex())
		assert.Equal(t, f.landlord.id, msg.Recipient.Hex())
		require.NotNil(t, msg.PreferredDate)
		assert.True(t, preferred.Equal(*msg.PreferredDate))
		assert.Equal(t, 1, f.messageCount())
	})
}

func TestSendMessageValidation(t *testing.T) {
	f := newMessageFixture(t)

	t.Run("defaults the inquiry type", func(t *testing.T) {
		msg := f.send(f.tenant.token, map[string]interface{}{"subject": "Hello", "message": "Is parking included?"})
		assert.Equal(t, models.InquiryGeneral, msg.InquiryType)
	})

	t.Run("unknown property", func(t *testing.T) {
		status, resp := f.request(http.MethodPost, "/api/message/send", f.tenant.token, map[string]interface{}{
			"propertyId": primitive.NewObjectID().Hex(),
			"subject":    "Hello",
			"message":    "Still available?",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Property not found", resp.Message)
	})

	t.Run("invalid fields", func(t *testing.T) {
		status, resp := f.request(http.MethodPost, "/api/message/send", f.tenant.token, map[string]interface{}{
			"propertyId":  "abc",
			"message":     "Still available?",
			"inquiryType": "haggling",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.ElementsMatch(t, []string{"propertyId", "subject", "inquiryType"}, resp.fields())
	})

	t.Run("requires a token", func(t *testing.T) {
		status, _ := f.request(http.MethodPost, "/api/message/send", "", map[string]interface{}{})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestPropertyMessagesForSender(t *testing.T) {
	f := newMessageFixture(t)
	other := f.signup("Kabir Singh", "kabir@example.com", models.RoleTenant)

	first := f.send(f.tenant.token, map[string]interface{}{"subject": "First", "message": "Is it furnished?"})
	second := f.send(f.tenant.token, map[string]interface{}{"subject": "Second", "message": "Are pets allowed?"})
	path := "/api/message/property/" + f.property.ID.Hex()

	t.Run("sender sees their conversation", func(t *testing.T) {
		status, resp := f.request(http.MethodGet, path, f.tenant.token, nil)
		require.Equal(t, http.StatusOK, status)
		var msgs []models.Message
		decodeData(t, resp, &msgs)
		ids := []primitive.ObjectID{}
		for _, m := range msgs {
			ids = append(ids, m.ID)
		}
		assert.ElementsMatch(t, []primitive.ObjectID{first.ID, second.ID}, ids)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		status, resp := f.request(http.MethodGet, path, other.token, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Not authorized to view messages for this property", resp.Message)
	})

	t.Run("landlord sees every message", func(t *testing.T) {
		f.send(other.token, map[string]interface{}{"subject": "Third", "message": "Any deposit?"})

		status, resp := f.request(http.MethodGet, path, f.landlord.token, nil)
		require.Equal(t, http.StatusOK, status)
		var msgs []models.Message
		decodeData(t, resp, &msgs)
		assert.Len(t, msgs, 3)

		status, resp = f.request(http.MethodGet, path, f.tenant.token, nil)
		require.Equal(t, http.StatusOK, status)
		decodeData(t, resp, &msgs)
		assert.Len(t, msgs, 2)
	})
}

func TestInboxAndOutbox(t *testing.T) {
	f := newMessageFixture(t)
	msg := f.send(f.tenant.token, map[string]interface{}{"subject": "Hello", "message": "Still available?"})

	var msgs []models.Message
	status, resp := f.request(http.MethodGet, "/api/message/received", f.landlord.token, nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, resp, &msgs)
	require.Len(t, msgs, 1)
	assert.Equal(t, msg.ID, msgs[0].ID)

	status, resp = f.request(http.MethodGet, "/api/message/sent", f.tenant.token, nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, resp, &msgs)
	require.Len(t, msgs, 1)

	status, resp = f.request(http.MethodGet, "/api/message/received", f.tenant.token, nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, resp, &msgs)
	assert.Empty(t, msgs)
}

func TestMessageStatusOnlyMovesForward(t *testing.T) {
	f := newMessageFixture(t)
	msg := f.send(f.tenant.token, map[string]interface{}{"subject": "Hello", "message": "Still available?"})
	markPath := "/api/message/mark-read/" + msg.ID.Hex()
	replyPath := "/api/message/reply/" + msg.ID.Hex()

	t.Run("only the recipient may update", func(t *testing.T) {
		status, resp := f.request(http.MethodPut, markPath, f.tenant.token, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Not authorized to update this message", resp.Message)

		status, _ = f.request(http.MethodPut, replyPath, f.tenant.token, map[string]string{"reply": "Answering myself"})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("mark read", func(t *testing.T) {
		status, resp := f.request(http.MethodPut, markPath, f.landlord.token, nil)
		require.Equal(t, http.StatusOK, status)
		var updated models.Message
		decodeData(t, resp, &updated)
		assert.Equal(t, models.MessageRead, updated.Status)

		status, resp = f.request(http.MethodPut, markPath, f.landlord.token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Message already read", resp.Message)
	})

	t.Run("reply", func(t *testing.T) {
		status, resp := f.request(http.MethodPut, replyPath, f.landlord.token, map[string]string{"reply": "   "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"reply"}, resp.fields())

		status, resp = f.request(http.MethodPut, replyPath, f.landlord.token, map[string]string{"reply": "Yes, it is."})
		require.Equal(t, http.StatusOK, status)
		var updated models.Message
		decodeData(t, resp, &updated)
		assert.Equal(t, models.MessageReplied, updated.Status)
		assert.Equal(t, "Yes, it is.", updated.Reply)
		assert.NotNil(t, updated.RepliedAt)

		status, resp = f.request(http.MethodPut, replyPath, f.landlord.token, map[string]string{"reply": "Again"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Message has already been replied to", resp.Message)
	})

	t.Run("mark read after reply keeps replied", func(t *testing.T) {
		status, _ := f.request(http.MethodPut, markPath, f.landlord.token, nil)
		require.Equal(t, http.StatusOK, status)
		stored, err := f.store.MessageByID(context.Background(), msg.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MessageReplied, stored.Status)
	})
}

func TestDeleteMessage(t *testing.T) {
	f := newMessageFixture(t)
	other := f.signup("Kabir Singh", "kabir@example.com", models.RoleTenant)
	msg := f.send(f.tenant.token, map[string]interface{}{"subject": "Hello", "message": "Still available?"})
	path := "/api/message/" + msg.ID.Hex()

	status, resp := f.request(http.MethodDelete, path, other.token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized to delete this message", resp.Message)

	status, _ = f.request(http.MethodDelete, path, f.tenant.token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, f.messageCount())

	status, _ = f.request(http.MethodDelete, path, f.tenant.token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.request(http.MethodDelete, "/api/message/nope", f.tenant.token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
