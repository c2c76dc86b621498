package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func SendMessage(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req models.SendMessageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Subject = strings.TrimSpace(req.Subject)
		req.Message = strings.TrimSpace(req.Message)
		req.Phone = strings.TrimSpace(req.Phone)

		errs := utils.ValidateStruct(&req)
		var preferred *time.Time
		if raw := strings.TrimSpace(req.PreferredDate); raw != "" {
			t, err := utils.ParseDate(raw)
			switch {
			case err != nil:
				errs = append(errs, models.FieldError{Field: "preferredDate", Message: "preferredDate must be a valid date"})
			case !t.After(time.Now()):
				errs = append(errs, models.FieldError{Field: "preferredDate", Message: "Preferred date must be in the future"})
			default:
				preferred = &t
			}
		}
		if len(errs) > 0 {
			writeValidation(w, errs)
			return
		}

		ctx := r.Context()
		propertyID, _ := primitive.ObjectIDFromHex(req.PropertyID)
		property, err := d.Store.PropertyByID(ctx, propertyID)
		if err != nil {
			storeError(w, r, err, "Property not found")
			return
		}

		inquiry := req.InquiryType
		if inquiry == "" {
			inquiry = models.InquiryGeneral
		}
		msg := &models.Message{
			Sender:        callerID,
			Recipient:     property.Landlord,
			Property:      property.ID,
			Subject:       req.Subject,
			Message:       req.Message,
			InquiryType:   inquiry,
			PreferredDate: preferred,
			Phone:         req.Phone,
			Status:        models.MessageUnread,
		}
		if err := d.Store.CreateMessage(ctx, msg); err != nil {
			internalError(w, r, "Error saving message", err)
			return
		}
		log.Printf("Message %s sent by %s about property %s", msg.ID.Hex(), callerID.Hex(), property.ID.Hex())
		writeData(w, http.StatusCreated, "Message sent successfully", msg)
	}
}

func ReceivedMessages(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		msgs, err := d.Store.MessagesByRecipient(r.Context(), callerID)
		if err != nil {
			internalError(w, r, "Error fetching received messages", err)
			return
		}
		writeData(w, http.StatusOK, "", msgs)
	}
}

func SentMessages(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		msgs, err := d.Store.MessagesBySender(r.Context(), callerID)
		if err != nil {
			internalError(w, r, "Error fetching sent messages", err)
			return
		}
		writeData(w, http.StatusOK, "", msgs)
	}
}

// PropertyMessages lists the messages about one property. The landlord sees
// all of them; anyone else must have written about the property before and
// only sees their own conversation.
func PropertyMessages(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		propertyID, ok := pathID(w, r, "propertyId", "property")
		if !ok {
			return
		}
		ctx := r.Context()

		property, err := d.Store.PropertyByID(ctx, propertyID)
		if err != nil {
			storeError(w, r, err, "Property not found")
			return
		}

		var msgs []models.Message
		if property.OwnedBy(callerID) {
			msgs, err = d.Store.MessagesByProperty(ctx, propertyID)
		} else {
			var sent bool
			sent, err = d.Store.HasSentOnProperty(ctx, propertyID, callerID)
			if err == nil && !sent {
				log.Printf("User %s has no conversation on property %s", callerID.Hex(), propertyID.Hex())
				writeError(w, http.StatusForbidden, "Not authorized to view messages for this property")
				return
			}
			if err == nil {
				msgs, err = d.Store.MessagesByPropertyFor(ctx, propertyID, callerID)
			}
		}
		if err != nil {
			internalError(w, r, "Error fetching property messages", err)
			return
		}
		writeData(w, http.StatusOK, "", msgs)
	}
}

// receivedMessage loads the message in the path and checks the caller is
// its recipient.
func receivedMessage(w http.ResponseWriter, r *http.Request, d *Deps) (*models.Message, bool) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(w, r, "id", "message")
	if !ok {
		return nil, false
	}
	msg, err := d.Store.MessageByID(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Message not found")
		return nil, false
	}
	if msg.Recipient != callerID {
		log.Printf("User %s is not the recipient of message %s", callerID.Hex(), id.Hex())
		writeError(w, http.StatusForbidden, "Not authorized to update this message")
		return nil, false
	}
	return msg, true
}

func MarkMessageRead(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, ok := receivedMessage(w, r, d)
		if !ok {
			return
		}
		if !models.CanAdvance(msg.Status, models.MessageRead) {
			writeData(w, http.StatusOK, "Message already read", msg)
			return
		}

		ctx := r.Context()
		updated, err := d.Store.AdvanceMessage(ctx, msg.ID, models.MessageRead, "")
		if errors.Is(err, store.ErrNotFound) {
			// Advanced concurrently; report what is stored now.
			updated, err = d.Store.MessageByID(ctx, msg.ID)
		}
		if err != nil {
			storeError(w, r, err, "Message not found")
			return
		}
		writeData(w, http.StatusOK, "Message marked as read", updated)
	}
}

func ReplyMessage(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ReplyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Reply = strings.TrimSpace(req.Reply)
		if errs := utils.ValidateStruct(&req); len(errs) > 0 {
			writeValidation(w, errs)
			return
		}

		msg, ok := receivedMessage(w, r, d)
		if !ok {
			return
		}
		if !models.CanAdvance(msg.Status, models.MessageReplied) {
			writeError(w, http.StatusBadRequest, "Message has already been replied to")
			return
		}

		updated, err := d.Store.AdvanceMessage(r.Context(), msg.ID, models.MessageReplied, req.Reply)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Message has already been replied to")
				return
			}
			internalError(w, r, "Error saving reply", err)
			return
		}
		writeData(w, http.StatusOK, "Reply sent successfully", updated)
	}
}

func DeleteMessage(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id", "message")
		if !ok {
			return
		}
		ctx := r.Context()

		msg, err := d.Store.MessageByID(ctx, id)
		if err != nil {
			storeError(w, r, err, "Message not found")
			return
		}
		if !msg.Involves(callerID) {
			log.Printf("User %s tried to delete message %s", callerID.Hex(), id.Hex())
			writeError(w, http.StatusForbidden, "Not authorized to delete this message")
			return
		}
		if err := d.Store.DeleteMessage(ctx, id); err != nil {
			storeError(w, r, err, "Message not found")
			return
		}
		writeData(w, http.StatusOK, "Message deleted successfully", nil)
	}
}
