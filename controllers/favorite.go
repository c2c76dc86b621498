package controllers

import (
	"log"
	"net/http"

	"github.com/dcode-github/rishstay/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// favoritesOwner checks that the caller is the user named in the path.
func favoritesOwner(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return callerID, false
	}
	if mux.Vars(r)["id"] != callerID.Hex() {
		log.Printf("User %s tried to access favorites of %s", callerID.Hex(), mux.Vars(r)["id"])
		writeError(w, http.StatusForbidden, "Not authorized to access these favorites")
		return callerID, false
	}
	return callerID, true
}

func ReplaceFavorites(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := favoritesOwner(w, r)
		if !ok {
			return
		}
		var req models.FavoritesRequest
		if !decodeAndValidate(w, r, &req, nil) {
			return
		}

		seen := make(map[primitive.ObjectID]bool, len(req.Favorites))
		ids := make([]primitive.ObjectID, 0, len(req.Favorites))
		for _, raw := range req.Favorites {
			id, _ := primitive.ObjectIDFromHex(raw)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}

		user, err := d.Store.SetFavorites(r.Context(), userID, ids)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		writeData(w, http.StatusOK, "Favorites updated", user.Favorites)
	}
}

func AddFavorite(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := favoritesOwner(w, r)
		if !ok {
			return
		}
		var req models.AddFavoriteRequest
		if !decodeAndValidate(w, r, &req, nil) {
			return
		}
		ctx := r.Context()

		propertyID, _ := primitive.ObjectIDFromHex(req.PropertyID)
		if _, err := d.Store.PropertyByID(ctx, propertyID); err != nil {
			storeError(w, r, err, "Property not found")
			return
		}
		user, err := d.Store.AddFavorite(ctx, userID, propertyID)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		writeData(w, http.StatusOK, "Added to favorites", user.Favorites)
	}
}

func RemoveFavorite(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := favoritesOwner(w, r)
		if !ok {
			return
		}
		propertyID, ok := pathID(w, r, "propertyId", "property")
		if !ok {
			return
		}
		user, err := d.Store.RemoveFavorite(r.Context(), userID, propertyID)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		writeData(w, http.StatusOK, "Removed from favorites", user.Favorites)
	}
}

func GetFavorites(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := favoritesOwner(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		user, err := d.Store.UserByID(ctx, userID)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		page := pageFromQuery(r.URL.Query())
		properties, total, err := d.Store.PropertiesByIDs(ctx, user.Favorites, page)
		if err != nil {
			internalError(w, r, "Error fetching favorite properties", err)
			return
		}
		writeData(w, http.StatusOK, "", models.FavoritesPage{
			Favorites:  properties,
			Pagination: models.NewPagination(page.Page, page.Limit, total),
		})
	}
}
