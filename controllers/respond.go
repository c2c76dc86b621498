package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/dcode-github/rishstay/cache"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const UserIDKey = ContextKey("userID")

// Deps are the collaborators shared by every handler.
type Deps struct {
	Store  store.Store
	Images storage.ImageStore
	Cache  cache.PropertyCache
	JWT    *utils.JWTManager

	// listings counts cache invalidations made by this process.
	listings atomic.Uint64
}

// invalidateListings drops every cached list page after a property write.
func (d *Deps) invalidateListings(ctx context.Context) {
	d.listings.Add(1)
	d.Cache.Invalidate(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, models.APIResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIResponse{Success: false, Message: message})
}

func writeValidation(w http.ResponseWriter, errs []models.FieldError) {
	writeJSON(w, http.StatusBadRequest, models.APIResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// internalError logs the cause and answers with a generic message.
func internalError(w http.ResponseWriter, r *http.Request, what string, err error) {
	log.Printf("%s %s: %s: %v", r.Method, r.URL.Path, what, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// storeError maps store.ErrNotFound to 404 and everything else to 500.
func storeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	internalError(w, r, notFound, err)
}

func callerID(r *http.Request) (primitive.ObjectID, bool) {
	raw, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func requireCaller(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := callerID(r)
	if !ok {
		log.Println("User ID missing in context")
		writeError(w, http.StatusUnauthorized, "User ID missing in context")
	}
	return id, ok
}

func pathID(w http.ResponseWriter, r *http.Request, name, label string) (primitive.ObjectID, bool) {
	raw := mux.Vars(r)[name]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		log.Printf("Invalid %s ID %q: %v", label, raw, err)
		writeError(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("Invalid request body on %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes a JSON body and runs its validate tags,
// answering 400 itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, normalize func()) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if normalize != nil {
		normalize()
	}
	if errs := utils.ValidateStruct(dst); len(errs) > 0 {
		writeValidation(w, errs)
		return false
	}
	return true
}

func queryFloat(q url.Values, key string) *float64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid numeric value for %s: %s", key, raw)
		return nil
	}
	return &v
}

func queryInt(q url.Values, key string) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s", key, raw)
		return nil
	}
	return &v
}

func pageFromQuery(q url.Values) store.Page {
	page, limit := 0, 0
	if v := queryInt(q, "page"); v != nil {
		page = *v
	}
	if v := queryInt(q, "limit"); v != nil {
		limit = *v
	}
	return store.NewPage(page, limit)
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, "ok", nil)
	}
}
