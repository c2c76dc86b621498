package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/dcode-github/rishstay/cache"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		user, err := d.Store.UserByID(ctx, callerID)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		if user.Role != models.RoleLandlord {
			log.Printf("User %s with role %s tried to list a property", callerID.Hex(), user.Role)
			writeError(w, http.StatusForbidden, "Only landlords can list properties")
			return
		}

		var in models.PropertyInput
		files, errs, err := decodePropertyBody(w, r, &in)
		if err != nil {
			log.Printf("Error decoding property: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		in.Normalize()
		errs = append(errs, utils.ValidateStruct(&in)...)
		var property *models.Property
		if len(errs) == 0 {
			property, errs = NewProperty(in, callerID)
		}
		if len(errs) > 0 {
			writeValidation(w, errs)
			return
		}

		if len(files) > 0 {
			images, err := uploadImages(ctx, d.Images, files)
			if err != nil {
				internalError(w, r, "Error uploading images", err)
				return
			}
			property.Images = images
		}

		if err := d.Store.CreateProperty(ctx, property); err != nil {
			if derr := storage.DeleteAll(ctx, d.Images, property.ImageIDs()); derr != nil {
				log.Printf("Error removing images of unsaved property: %v", derr)
			}
			internalError(w, r, "Error inserting property", err)
			return
		}
		d.invalidateListings(ctx)

		log.Printf("Property %s created by %s", property.ID.Hex(), callerID.Hex())
		writeData(w, http.StatusCreated, "Property created successfully", property)
	}
}

func filterFromQuery(q url.Values) store.PropertyFilter {
	return store.PropertyFilter{
		Address:      q.Get("address"),
		PropertyType: q.Get("propertyType"),
		MinPrice:     queryFloat(q, "minPrice"),
		MaxPrice:     queryFloat(q, "maxPrice"),
		MinBedrooms:  queryInt(q, "bedrooms"),
		MinGuests:    queryInt(q, "guests"),
		GuestType:    q.Get("guestType"),
	}
}

func GetAllProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()
		cacheKey := cache.Key(query)

		if cached, ok := d.Cache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}

		generation := d.listings.Load()
		page := pageFromQuery(query)
		properties, total, err := d.Store.ListProperties(ctx, filterFromQuery(query), page)
		if err != nil {
			internalError(w, r, "Error fetching properties", err)
			return
		}

		response := models.APIResponse{
			Success: true,
			Data: models.PropertyPage{
				Properties: properties,
				Pagination: models.NewPagination(page.Page, page.Limit, total),
			},
		}
		body, err := json.Marshal(response)
		if err != nil {
			internalError(w, r, "Error encoding properties", err)
			return
		}
		// A write that landed while the page was being read may not be in it.
		// Other instances can still race this way; CacheTTL bounds that.
		if d.listings.Load() == generation {
			d.Cache.Set(ctx, cacheKey, body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

func GetProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "property")
		if !ok {
			return
		}
		detail, err := d.Store.PropertyDetail(r.Context(), id)
		if err != nil {
			storeError(w, r, err, "Property not found")
			return
		}
		writeData(w, http.StatusOK, "", detail)
	}
}

func MyProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := requireCaller(w, r)
		if !ok {
			return
		}
		properties, err := d.Store.PropertiesByLandlord(r.Context(), callerID)
		if err != nil {
			internalError(w, r, "Error fetching landlord properties", err)
			return
		}
		writeData(w, http.StatusOK, "", properties)
	}
}

// ownedProperty loads the property named in the path and checks that the
// caller is its landlord.
func ownedProperty(w http.ResponseWriter, r *http.Request, d *Deps) (*models.Property, primitive.ObjectID, bool) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return nil, callerID, false
	}
	id, ok := pathID(w, r, "id", "property")
	if !ok {
		return nil, callerID, false
	}
	property, err := d.Store.PropertyByID(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Property not found")
		return nil, callerID, false
	}
	if !property.OwnedBy(callerID) {
		log.Printf("User %s is not the landlord of property %s", callerID.Hex(), id.Hex())
		writeError(w, http.StatusForbidden, "Not authorized to modify this property")
		return nil, callerID, false
	}
	return property, callerID, true
}

func UpdateProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, callerID, ok := ownedProperty(w, r, d)
		if !ok {
			return
		}
		ctx := r.Context()

		var patch models.PropertyPatch
		files, errs, err := decodePropertyBody(w, r, &patch)
		if err != nil {
			log.Printf("Error decoding property update: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		patch.Normalize()
		errs = append(errs, utils.ValidateStruct(&patch)...)
		if len(errs) == 0 {
			errs = applyPatch(property, patch)
		}
		if len(errs) > 0 {
			writeValidation(w, errs)
			return
		}

		oldImages := property.ImageIDs()
		replaced := len(files) > 0
		if replaced {
			images, err := uploadImages(ctx, d.Images, files)
			if err != nil {
				internalError(w, r, "Error uploading images", err)
				return
			}
			property.Images = images
		}

		if err := d.Store.UpdateProperty(ctx, property); err != nil {
			if replaced {
				if derr := storage.DeleteAll(ctx, d.Images, property.ImageIDs()); derr != nil {
					log.Printf("Error removing images of failed update: %v", derr)
				}
			}
			storeError(w, r, err, "Property not found")
			return
		}
		if replaced {
			if err := storage.DeleteAll(ctx, d.Images, oldImages); err != nil {
				log.Printf("Error removing replaced images of property %s: %v", property.ID.Hex(), err)
			}
		}
		d.invalidateListings(ctx)

		log.Printf("Property %s updated by %s", property.ID.Hex(), callerID.Hex())
		writeData(w, http.StatusOK, "Property updated successfully", property)
	}
}

func DeleteProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, callerID, ok := ownedProperty(w, r, d)
		if !ok {
			return
		}
		ctx := r.Context()

		if err := d.Store.DeleteProperty(ctx, property.ID, callerID); err != nil {
			storeError(w, r, err, "Property not found")
			return
		}
		if err := storage.DeleteAll(ctx, d.Images, property.ImageIDs()); err != nil {
			log.Printf("Error removing images of property %s: %v", property.ID.Hex(), err)
		}
		d.invalidateListings(ctx)

		log.Printf("Property %s deleted by %s", property.ID.Hex(), callerID.Hex())
		writeData(w, http.StatusOK, "Property deleted successfully", nil)
	}
}

func ToggleAvailability(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, callerID, ok := ownedProperty(w, r, d)
		if !ok {
			return
		}
		ctx := r.Context()

		updated, err := d.Store.ToggleAvailability(ctx, property.ID, callerID)
		if err != nil {
			storeError(w, r, err, "Property not found")
			return
		}
		d.invalidateListings(ctx)
		writeData(w, http.StatusOK, "Property availability updated", updated)
	}
}

// ServePropertyImage streams an image from stores that keep the bytes
// themselves, such as GridFS.
func ServePropertyImage(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		server, ok := d.Images.(storage.ImageServer)
		if !ok {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		publicID := mux.Vars(r)["publicId"]
		body, contentType, err := server.Open(r.Context(), publicID)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				writeError(w, http.StatusNotFound, "Image not found")
				return
			}
			internalError(w, r, "Error opening image", err)
			return
		}
		defer body.Close()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(w, body); err != nil {
			log.Printf("Error streaming image %s: %v", publicID, err)
		}
	}
}
