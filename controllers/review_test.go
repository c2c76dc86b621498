package controllers_test

import (
	"net/http"
	"testing"

	"github.com/dcode-github/rishstay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews(t *testing.T) {
	h := newHarness(t)
	author := h.signup("Riya Sharma", "riya@example.com", models.RoleTenant)
	other := h.signup("Arjun Mehta", "arjun@example.com", models.RoleLandlord)

	t.Run("no review yet", func(t *testing.T) {
		status, resp := h.request(http.MethodGet, "/api/reviews/me", author.token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "You have not submitted a review yet", resp.Message)
	})

	t.Run("comment is validated", func(t *testing.T) {
		status, resp := h.request(http.MethodPost, "/api/reviews/add", author.token, map[string]string{"comment": " ok "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"comment"}, resp.fields())
	})

	var review models.Review
	t.Run("add snapshots the author", func(t *testing.T) {
		status, resp := h.request(http.MethodPost, "/api/reviews/add", author.token, map[string]string{"comment": "Found a great flat in a week"})
		require.Equal(t, http.StatusCreated, status)
		decodeData(t, resp, &review)
		assert.Equal(t, "Riya Sharma", review.UserName)
		assert.Equal(t, models.RoleTenant, review.UserRole)
		assert.Equal(t, author.id, review.UserID.Hex())
	})

	t.Run("second review is rejected", func(t *testing.T) {
		status, resp := h.request(http.MethodPost, "/api/reviews/add", author.token, map[string]string{"comment": "Writing another one"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "You have already submitted a review", resp.Message)
	})

	t.Run("public list", func(t *testing.T) {
		status, resp := h.request(http.MethodGet, "/api/reviews", "", nil)
		require.Equal(t, http.StatusOK, status)
		var reviews []models.Review
		decodeData(t, resp, &reviews)
		require.Len(t, reviews, 1)
		assert.Equal(t, review.ID, reviews[0].ID)
	})

	t.Run("only the author may modify", func(t *testing.T) {
		status, resp := h.request(http.MethodPut, "/api/reviews/update/"+review.ID.Hex(), other.token, map[string]string{"comment": "Rewritten by someone else"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Not authorized to modify this review", resp.Message)

		status, _ = h.request(http.MethodDelete, "/api/reviews/delete/"+review.ID.Hex(), other.token, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("update", func(t *testing.T) {
		status, resp := h.request(http.MethodPut, "/api/reviews/update/"+review.ID.Hex(), author.token, map[string]string{"comment": "Found a great flat in three days"})
		require.Equal(t, http.StatusOK, status)
		var updated models.Review
		decodeData(t, resp, &updated)
		assert.Equal(t, "Found a great flat in three days", updated.Comment)

		status, resp = h.request(http.MethodGet, "/api/reviews/me", author.token, nil)
		require.Equal(t, http.StatusOK, status)
		decodeData(t, resp, &updated)
		assert.Equal(t, review.ID, updated.ID)
	})

	t.Run("delete allows a new review", func(t *testing.T) {
		status, _ := h.request(http.MethodDelete, "/api/reviews/delete/"+review.ID.Hex(), author.token, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = h.request(http.MethodPost, "/api/reviews/add", author.token, map[string]string{"comment": "Back with a fresh review"})
		assert.Equal(t, http.StatusCreated, status)
	})
}
