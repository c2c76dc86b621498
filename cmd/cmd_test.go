package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dcode-github/rishstay/cache"
	"github.com/dcode-github/rishstay/config"
	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/routes"
	"github.com/dcode-github/rishstay/storage"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/store/memstore"
	"github.com/dcode-github/rishstay/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRootCmd(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "rishstay", root.Use)
	assert.True(t, root.SilenceUsage)

	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "indexes", "seed", "browse"}, names)
}

func TestNewHTTPServerTimeouts(t *testing.T) {
	cfg := &config.Config{Port: "9090", RequestTimeout: 3 * time.Minute}
	server := newHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":9090", server.Addr)
	assert.Equal(t, 10*time.Second, server.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Minute, server.ReadTimeout)
	assert.Equal(t, 3*time.Minute, server.WriteTimeout)
	assert.Greater(t, server.ReadTimeout, server.ReadHeaderTimeout)
}

func TestIndexesCmd(t *testing.T) {
	cmd := IndexesCmd()
	assert.Equal(t, "indexes", cmd.Use)
	assert.Equal(t, "Create the MongoDB indexes and exit", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestSeedCmdFlags(t *testing.T) {
	cmd := SeedCmd()
	assert.Equal(t, "seed", cmd.Use)

	flag := cmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "seed.yaml", flag.DefValue)
}

func TestBrowseCmdFlags(t *testing.T) {
	cmd := BrowseCmd()
	for name, def := range map[string]string{
		"address":    "",
		"type":       "",
		"guest-type": "",
		"min-price":  "0",
		"max-price":  "0",
		"page":       "1",
		"limit":      "20",
	} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
	assert.NotNil(t, cmd.Flags().Lookup("server"))
}

func TestSeedFromRepositoryFixture(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	f, err := os.Open("../seed.yaml")
	require.NoError(t, err)
	defer f.Close()

	res, err := seedFromFile(ctx, st, f)
	require.NoError(t, err)
	assert.Equal(t, seedResult{Users: 2, Properties: 2, Reviews: 1}, res)

	landlord, err := st.UserByEmail(ctx, "arjun@rishstay.test")
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("landlord123", landlord.Password))

	props, err := st.PropertiesByLandlord(ctx, landlord.ID)
	require.NoError(t, err)
	require.Len(t, props, 2)
	for _, p := range props {
		assert.True(t, p.Availability.IsAvailable)
	}
	flat := props[1]
	assert.Equal(t, "Two bedroom flat in Baner", flat.Title)
	require.Len(t, flat.Rooms, 2)
	assert.Equal(t, models.RoomAvailable, flat.Rooms[0].Status)
	require.NotNil(t, flat.Availability.AvailableFrom)
}

func TestSeedFromFileIsRepeatable(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	fixture := `
users:
  - {name: Neha Kapoor, email: NEHA@example.com, phone: "9811111111", password: secret123, role: tenant}
reviews:
  - {author: neha@example.com, comment: Lovely service all round}
`
	res, err := seedFromFile(ctx, st, strings.NewReader(fixture))
	require.NoError(t, err)
	assert.Equal(t, seedResult{Users: 1, Reviews: 1}, res)

	res, err = seedFromFile(ctx, st, strings.NewReader(fixture))
	require.NoError(t, err)
	assert.Equal(t, seedResult{}, res)
}

func TestSeedFromFileRejectsBadRecords(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		fixture string
		want    string
	}{
		{
			name:    "invalid user",
			fixture: "users:\n  - {name: X, email: nope, phone: '1', password: secret123, role: tenant}\n",
			want:    "user 0",
		},
		{
			name: "tenant owner",
			fixture: `
users:
  - {name: Riya Sharma, email: riya@example.com, phone: "9822222222", password: secret123, role: tenant}
properties:
  - owner: riya@example.com
    title: Not allowed
`,
			want: "is not a landlord",
		},
		{
			name:    "unknown owner",
			fixture: "properties:\n  - {owner: ghost@example.com, title: Nowhere}\n",
			want:    "ghost@example.com",
		},
		{
			name:    "malformed yaml",
			fixture: "users: [",
			want:    "parse fixture",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seedFromFile(ctx, memstore.New(), strings.NewReader(tt.fixture))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPrintProperties(t *testing.T) {
	id := primitive.NewObjectID()
	page := &models.PropertyPage{
		Properties: []models.Property{{
			ID:           id,
			Title:        "Studio near Koregaon Park",
			Location:     models.Location{City: "Pune"},
			PropertyType: "studio",
			Price:        12000,
			Availability: models.Availability{IsAvailable: true},
		}},
		Pagination: models.NewPagination(1, 20, 1),
	}

	var buf bytes.Buffer
	require.NoError(t, printProperties(&buf, page))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ID", "TITLE", "CITY", "TYPE", "PRICE", "AVAILABLE"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], id.Hex())
	assert.Contains(t, lines[1], "12000")
	assert.Equal(t, "Page 1 of 1, 1 properties", lines[3])
}

func TestBrowseCmdAgainstServer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	f, err := os.Open("../seed.yaml")
	require.NoError(t, err)
	defer f.Close()
	_, err = seedFromFile(ctx, st, f)
	require.NoError(t, err)

	router := mux.NewRouter()
	routes.Routes(router, &controllers.Deps{
		Store:  st,
		Images: storage.NewMemory(""),
		Cache:  cache.Noop{},
		JWT:    utils.NewJWTManager("test-secret", time.Hour),
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	cmd := BrowseCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--server", srv.URL, "--type", "studio", "--max-price", "15000"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "Studio near Koregaon Park")
	assert.NotContains(t, out.String(), "Two bedroom flat in Baner")
	assert.Contains(t, out.String(), "1 properties")

	_, total, err := st.ListProperties(ctx, store.PropertyFilter{}, store.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
