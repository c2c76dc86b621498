package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strconv"

	"github.com/dcode-github/rishstay/models"
)

// Image is a file to attach to a property create or update.
type Image struct {
	Filename string
	Content  io.Reader
}

// ListQuery mirrors the filters of the public property listing.
type ListQuery struct {
	Address      string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	Guests       *int
	GuestType    string
	Page         int
	Limit        int
}

func (q ListQuery) values() url.Values {
	v := pageQuery(q.Page, q.Limit)
	if q.Address != "" {
		v.Set("address", q.Address)
	}
	if q.PropertyType != "" {
		v.Set("propertyType", q.PropertyType)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Bedrooms != nil {
		v.Set("bedrooms", strconv.Itoa(*q.Bedrooms))
	}
	if q.Guests != nil {
		v.Set("guests", strconv.Itoa(*q.Guests))
	}
	if q.GuestType != "" {
		v.Set("guestType", q.GuestType)
	}
	return v
}

func (c *Client) ListProperties(ctx context.Context, q ListQuery) (*models.PropertyPage, error) {
	var page models.PropertyPage
	req := &request{method: http.MethodGet, path: "/api/property", query: q.values()}
	if err := c.do(ctx, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*models.PropertyDetail, error) {
	var detail models.PropertyDetail
	if err := c.call(ctx, http.MethodGet, "/api/property/"+url.PathEscape(id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) MyProperties(ctx context.Context, s *Session) ([]models.Property, error) {
	var props []models.Property
	if err := c.call(ctx, http.MethodGet, "/api/property/my-properties", s, nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *Client) SimilarProperties(ctx context.Context, id string, limit int) ([]models.Property, error) {
	var props []models.Property
	req := &request{
		method: http.MethodGet,
		path:   "/api/property/similar/" + url.PathEscape(id),
		query:  pageQuery(0, limit),
	}
	if err := c.do(ctx, req, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// CreateProperty sends JSON when there are no images and a multipart form
// otherwise.
func (c *Client) CreateProperty(ctx context.Context, s *Session, in models.PropertyInput, images ...Image) (*models.Property, error) {
	req, err := c.propertyRequest(http.MethodPost, "/api/property/create", s, in, images)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProperty changes the fields set in patch. Any images given replace
// the stored set.
func (c *Client) UpdateProperty(ctx context.Context, s *Session, id string, patch models.PropertyPatch, images ...Image) (*models.Property, error) {
	req, err := c.propertyRequest(http.MethodPut, "/api/property/update/"+url.PathEscape(id), s, patch, images)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProperty(ctx context.Context, s *Session, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/property/delete/"+url.PathEscape(id), s, nil, nil)
}

func (c *Client) ToggleAvailability(ctx context.Context, s *Session, id string) (*models.Property, error) {
	var p models.Property
	if err := c.call(ctx, http.MethodPatch, "/api/property/toggle-availability/"+url.PathEscape(id), s, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) propertyRequest(method, path string, s *Session, payload interface{}, images []Image) (*request, error) {
	if len(images) == 0 {
		return c.jsonRequest(method, path, s, payload)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range formValues(payload) {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				return nil, fmt.Errorf("write field %s: %w", key, err)
			}
		}
	}
	for _, img := range images {
		part, err := mw.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", img.Filename, err)
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, fmt.Errorf("attach %s: %w", img.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}
	return &request{method: method, path: path, session: s, body: &buf, contentType: mw.FormDataContentType()}, nil
}

// formValues flattens a request struct into form keys using its schema
// tags: nested structs become "parent.child" and slices of structs
// "parent.N.child".
func formValues(v interface{}) url.Values {
	out := url.Values{}
	encodeForm(reflect.ValueOf(v), "", out)
	return out
}

func encodeForm(v reflect.Value, key string, out url.Values) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			name := t.Field(i).Tag.Get("schema")
			if name == "" || name == "-" {
				continue
			}
			if key != "" {
				name = key + "." + name
			}
			encodeForm(v.Field(i), name, out)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if reflect.Indirect(elem).Kind() == reflect.Struct {
				encodeForm(elem, key+"."+strconv.Itoa(i), out)
			} else {
				encodeForm(elem, key, out)
			}
		}
	case reflect.String:
		if s := v.String(); s != "" {
			out.Add(key, s)
		}
	case reflect.Bool:
		out.Add(key, strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.Add(key, strconv.FormatInt(v.Int(), 10))
	case reflect.Float32, reflect.Float64:
		out.Add(key, strconv.FormatFloat(v.Float(), 'f', -1, 64))
	}
}
