package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func GetReviews(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := d.Store.ListReviews(r.Context())
		if err != nil {
			internalError(w, r, "Error fetching reviews", err)
			return
		}
		writeData(w, http.StatusOK, "", reviews)
	}
}

func MyReview(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		review, err := d.Store.ReviewByUser(r.Context(), callerID)
		if err != nil {
			storeError(w, r, err, "You have not submitted a review yet")
			return
		}
		writeData(w, http.StatusOK, "", review)
	}
}

func decodeReview(w http.ResponseWriter, r *http.Request) (models.ReviewRequest, bool) {
	var req models.ReviewRequest
	ok := decodeAndValidate(w, r, &req, func() {
		req.Comment = strings.TrimSpace(req.Comment)
	})
	return req, ok
}

func AddReview(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		req, ok := decodeReview(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		user, err := d.Store.UserByID(ctx, callerID)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		review := &models.Review{
			UserID:   callerID,
			Comment:  req.Comment,
			UserName: user.Name,
			UserRole: user.Role,
		}
		if err := d.Store.CreateReview(ctx, review); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				log.Printf("User %s already has a review", callerID.Hex())
				writeError(w, http.StatusBadRequest, "You have already submitted a review")
				return
			}
			internalError(w, r, "Error saving review", err)
			return
		}
		writeData(w, http.StatusCreated, "Review added successfully", review)
	}
}

// authoredReview loads the review in the path and checks the caller wrote it.
func authoredReview(w http.ResponseWriter, r *http.Request, d *Deps) (*models.Review, primitive.ObjectID, bool) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return nil, callerID, false
	}
	id, ok := pathID(w, r, "id", "review")
	if !ok {
		return nil, callerID, false
	}
	review, err := d.Store.ReviewByID(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Review not found")
		return nil, callerID, false
	}
	if review.UserID != callerID {
		log.Printf("User %s is not the author of review %s", callerID.Hex(), id.Hex())
		writeError(w, http.StatusForbidden, "Not authorized to modify this review")
		return nil, callerID, false
	}
	return review, callerID, true
}

func UpdateReview(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, callerID, ok := authoredReview(w, r, d)
		if !ok {
			return
		}
		req, ok := decodeReview(w, r)
		if !ok {
			return
		}
		updated, err := d.Store.UpdateReview(r.Context(), review.ID, callerID, req.Comment)
		if err != nil {
			storeError(w, r, err, "Review not found")
			return
		}
		writeData(w, http.StatusOK, "Review updated successfully", updated)
	}
}

func DeleteReview(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, callerID, ok := authoredReview(w, r, d)
		if !ok {
			return
		}
		if err := d.Store.DeleteReview(r.Context(), review.ID, callerID); err != nil {
			storeError(w, r, err, "Review not found")
			return
		}
		writeData(w, http.StatusOK, "Review deleted successfully", nil)
	}
}
