package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/middleware"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/routes"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/store/memstore"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type apiResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  []models.FieldError `json:"errors"`
}

func (r apiResponse) fields() []string {
	out := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		out = append(out, fe.Field)
	}
	return out
}

type recordingCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	hits          int
	invalidations int
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *recordingCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.invalidations++
}

type harness struct {
	t       *testing.T
	store   *memstore.Store
	images  *storage.Memory
	cache   *recordingCache
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithStore(t, nil)
}

// newHarnessWithStore lets a test wrap the in-memory store the handlers use.
func newHarnessWithStore(t *testing.T, wrap func(*memstore.Store) store.Store) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		store:  memstore.New(),
		images: storage.NewMemory("http://api.test"),
		cache:  &recordingCache{entries: make(map[string][]byte)},
	}
	var st store.Store = h.store
	if wrap != nil {
		st = wrap(h.store)
	}
	deps := &controllers.Deps{
		Store:  st,
		Images: h.images,
		Cache:  h.cache,
		JWT:    utils.NewJWTManager("test-secret", time.Hour),
	}
	router := mux.NewRouter()
	routes.Routes(router, deps)
	h.handler = router
	return h
}

func (h *harness) send(req *http.Request, token string) (int, apiResponse) {
	h.t.Helper()
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func (h *harness) request(method, path, token string, body interface{}) (int, apiResponse) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

type formFile struct {
	name    string
	content []byte
}

func (h *harness) multipart(method, path, token string, fields map[string][]string, files ...formFile) (int, apiResponse) {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(h.t, mw.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("images", f.name)
		require.NoError(h.t, err)
		_, err = part.Write(f.content)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.send(req, token)
}

func decodeData(t *testing.T, resp apiResponse, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), string(resp.Data))
}

type account struct {
	token string
	id    string
	email string
}

var phoneSeq = 9000000000

func (h *harness) signup(name, email, role string) account {
	h.t.Helper()
	phoneSeq++
	status, resp := h.request(http.MethodPost, "/api/auth/createuser", "", map[string]string{
		"name":     name,
		"email":    email,
		"phone":    itoa(phoneSeq),
		"password": "secret123",
		"role":     role,
	})
	require.Equal(h.t, http.StatusCreated, status, resp.Message)

	var auth models.AuthResponse
	decodeData(h.t, resp, &auth)
	return account{token: auth.AuthToken, id: auth.User.ID.Hex(), email: email}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func propertyBody() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Two bedroom flat in Baner",
		"description":  "Bright flat close to the IT park",
		"price":        18000,
		"location":     map[string]interface{}{"address": "12 Baner Road", "city": "Pune", "state": "Maharashtra", "zipCode": "411045"},
		"propertyType": "apartment",
		"amenities":    []string{"wifi", "parking"},
		"bedrooms":     2,
		"bathrooms":    2,
		"area":         950,
		"maxGuests":    4,
		"guestType":    "family",
		"availability": map[string]interface{}{"isAvailable": true, "availableFrom": "2030-01-01", "availableTo": "2030-12-31"},
		"rules":        []string{"No smoking"},
		"rooms": []map[string]interface{}{
			{"roomName": "Master", "rent": 9000, "size": 180, "amenities": []string{"ac"}, "status": "available"},
		},
	}
}

func (h *harness) createProperty(token string, edit func(map[string]interface{})) models.Property {
	h.t.Helper()
	body := propertyBody()
	if edit != nil {
		edit(body)
	}
	status, resp := h.request(http.MethodPost, "/api/property/create", token, body)
	require.Equal(h.t, http.StatusCreated, status, "%s %v", resp.Message, resp.Errors)

	var p models.Property
	decodeData(h.t, resp, &p)
	return p
}

func (h *harness) getProperty(id string) (int, models.PropertyDetail) {
	h.t.Helper()
	status, resp := h.request(http.MethodGet, "/api/property/"+id, "", nil)
	var detail models.PropertyDetail
	if status == http.StatusOK {
		decodeData(h.t, resp, &detail)
	}
	return status, detail
}
