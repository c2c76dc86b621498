package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	MaxImages      = 10
	MaxImageBytes  = 5 << 20
	maxUploadBytes = MaxImages*MaxImageBytes + 1<<20
	imagesField    = "images"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type imageFile struct {
	header      *multipart.FileHeader
	contentType string
}

// decodePropertyBody fills dst from either a multipart form or a JSON body.
// Field errors describe malformed form values and rejected images; a non-nil
// error means the body could not be read at all.
func decodePropertyBody(w http.ResponseWriter, r *http.Request, dst interface{}) ([]imageFile, []models.FieldError, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, err
	}

	var errs []models.FieldError
	if err := formDecoder.Decode(dst, presentValues(r.MultipartForm.Value)); err != nil {
		var merr schema.MultiError
		if !errors.As(err, &merr) {
			return nil, nil, err
		}
		errs = append(errs, formErrors(merr)...)
	}

	images, imgErrs := inspectImages(r.MultipartForm.File[imagesField])
	return images, append(errs, imgErrs...), nil
}

// presentValues drops blank form values. Browsers submit untouched inputs
// as empty strings, and schema would decode those into zero-valued pointers
// that pass "required" on create and overwrite stored values on update.
func presentValues(form map[string][]string) map[string][]string {
	out := make(map[string][]string, len(form))
	for key, vals := range form {
		kept := make([]string, 0, len(vals))
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[key] = kept
		}
	}
	return out
}

func formErrors(merr schema.MultiError) []models.FieldError {
	keys := make([]string, 0, len(merr))
	for k := range merr {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.FieldError, 0, len(keys))
	for _, k := range keys {
		log.Printf("Malformed form field %s: %v", k, merr[k])
		out = append(out, models.FieldError{Field: k, Message: fmt.Sprintf("%s has an invalid value", k)})
	}
	return out
}

func inspectImages(files []*multipart.FileHeader) ([]imageFile, []models.FieldError) {
	if len(files) > MaxImages {
		return nil, []models.FieldError{{
			Field:   imagesField,
			Message: fmt.Sprintf("You can upload at most %d images", MaxImages),
		}}
	}

	var errs []models.FieldError
	images := make([]imageFile, 0, len(files))
	for _, fh := range files {
		if fh.Size > MaxImageBytes {
			errs = append(errs, models.FieldError{Field: imagesField, Message: fmt.Sprintf("%s is larger than 5MB", fh.Filename)})
			continue
		}
		ct, err := sniffContentType(fh)
		if err != nil {
			log.Printf("Error reading uploaded file %s: %v", fh.Filename, err)
			errs = append(errs, models.FieldError{Field: imagesField, Message: fmt.Sprintf("%s could not be read", fh.Filename)})
			continue
		}
		if !strings.HasPrefix(ct, "image/") {
			errs = append(errs, models.FieldError{Field: imagesField, Message: fmt.Sprintf("%s is not an image", fh.Filename)})
			continue
		}
		images = append(images, imageFile{header: fh, contentType: ct})
	}
	return images, errs
}

func sniffContentType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// uploadImages stores every file concurrently and keeps the upload order.
// If any upload fails the ones that succeeded are removed again.
func uploadImages(ctx context.Context, s storage.ImageStore, files []imageFile) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			src, err := f.header.Open()
			if err != nil {
				return err
			}
			defer src.Close()

			img, err := s.Upload(gctx, storage.Upload{
				Filename:    f.header.Filename,
				ContentType: f.contentType,
				Size:        f.header.Size,
				Body:        src,
			})
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.header.Filename, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var done []string
		for _, img := range images {
			if img.PublicID != "" {
				done = append(done, img.PublicID)
			}
		}
		if derr := storage.DeleteAll(ctx, s, done); derr != nil {
			log.Printf("Error removing partially uploaded images: %v", derr)
		}
		return nil, err
	}
	return images, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseOptionalDate(field, raw string) (*time.Time, *models.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return nil, &models.FieldError{Field: field, Message: fmt.Sprintf("%s must be a valid date", field)}
	}
	return &t, nil
}

var availabilityOrderError = models.FieldError{
	Field:   "availability.availableTo",
	Message: "Available to date must be after available from date",
}

func buildRooms(in []models.RoomInput) []models.Room {
	rooms := make([]models.Room, 0, len(in))
	for _, ri := range in {
		room := models.Room{
			RoomName:    strings.TrimSpace(ri.RoomName),
			Amenities:   cleanList(ri.Amenities),
			Status:      ri.Status,
			Description: strings.TrimSpace(ri.Description),
		}
		if ri.Rent != nil {
			room.Rent = *ri.Rent
		}
		if ri.Size != nil {
			room.Size = *ri.Size
		}
		if room.Status == "" {
			room.Status = models.RoomAvailable
		}
		rooms = append(rooms, room)
	}
	return rooms
}

// NewProperty turns a validated create request into a property owned by
// landlord. Date and availability errors are returned as field errors.
func NewProperty(in models.PropertyInput, landlord primitive.ObjectID) (*models.Property, []models.FieldError) {
	var errs []models.FieldError

	avail := models.Availability{IsAvailable: true}
	if in.Availability.IsAvailable != nil {
		avail.IsAvailable = *in.Availability.IsAvailable
	}
	from, ferr := parseOptionalDate("availability.availableFrom", in.Availability.AvailableFrom)
	if ferr != nil {
		errs = append(errs, *ferr)
	}
	to, terr := parseOptionalDate("availability.availableTo", in.Availability.AvailableTo)
	if terr != nil {
		errs = append(errs, *terr)
	}
	avail.AvailableFrom, avail.AvailableTo = from, to
	if len(errs) == 0 && !avail.Valid() {
		errs = append(errs, availabilityOrderError)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	p := &models.Property{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       *in.Price,
		Location: models.Location{
			Address: strings.TrimSpace(in.Location.Address),
			City:    strings.TrimSpace(in.Location.City),
			State:   strings.TrimSpace(in.Location.State),
			ZipCode: strings.TrimSpace(in.Location.ZipCode),
		},
		PropertyType: in.PropertyType,
		Amenities:    cleanList(in.Amenities),
		Images:       []models.Image{},
		Bedrooms:     *in.Bedrooms,
		Bathrooms:    *in.Bathrooms,
		Area:         *in.Area,
		MaxGuests:    *in.MaxGuests,
		GuestType:    in.GuestType,
		Landlord:     landlord,
		Availability: avail,
		Rules:        cleanList(in.Rules),
		Rooms:        buildRooms(in.Rooms),
	}
	return p, nil
}

// applyPatch copies the allowed fields of patch onto p. An empty date
// string clears that bound.
func applyPatch(p *models.Property, patch models.PropertyPatch) []models.FieldError {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if loc := patch.Location; loc != nil {
		if loc.Address != nil {
			p.Location.Address = strings.TrimSpace(*loc.Address)
		}
		if loc.City != nil {
			p.Location.City = strings.TrimSpace(*loc.City)
		}
		if loc.State != nil {
			p.Location.State = strings.TrimSpace(*loc.State)
		}
		if loc.ZipCode != nil {
			p.Location.ZipCode = strings.TrimSpace(*loc.ZipCode)
		}
	}
	if patch.PropertyType != nil {
		p.PropertyType = *patch.PropertyType
	}
	if patch.Amenities != nil {
		p.Amenities = cleanList(patch.Amenities)
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.MaxGuests != nil {
		p.MaxGuests = *patch.MaxGuests
	}
	if patch.GuestType != nil {
		p.GuestType = *patch.GuestType
	}
	if patch.Rules != nil {
		p.Rules = cleanList(patch.Rules)
	}
	if patch.Rooms != nil {
		p.Rooms = buildRooms(patch.Rooms)
	}

	if av := patch.Availability; av != nil {
		var errs []models.FieldError
		if av.IsAvailable != nil {
			p.Availability.IsAvailable = *av.IsAvailable
		}
		if av.AvailableFrom != nil {
			t, ferr := parseOptionalDate("availability.availableFrom", *av.AvailableFrom)
			if ferr != nil {
				errs = append(errs, *ferr)
			}
			p.Availability.AvailableFrom = t
		}
		if av.AvailableTo != nil {
			t, ferr := parseOptionalDate("availability.availableTo", *av.AvailableTo)
			if ferr != nil {
				errs = append(errs, *ferr)
			}
			p.Availability.AvailableTo = t
		}
		if len(errs) > 0 {
			return errs
		}
	}
	if !p.Availability.Valid() {
		return []models.FieldError{availabilityOrderError}
	}
	return nil
}
