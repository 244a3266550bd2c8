package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/metrics"
	"github.com/slingshot/slingshot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/searchconsole/v1"
)

func newTestSearchClient(t *testing.T, handler http.Handler) *SearchConsoleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSearchConsoleClient(
		staticTokenSource(),
		logging.NewLogger(),
		metrics.NewMetrics("slingshot_test"),
		option.WithEndpoint(srv.URL),
	)
}

func TestListSites(t *testing.T) {
	client := newTestSearchClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"siteEntry":[
			{"siteUrl":"https://example.com/","permissionLevel":"siteOwner"},
			{"siteUrl":"sc-domain:example.org","permissionLevel":"siteFullUser"}
		]}`))
	}))

	sites, err := client.ListSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "https://example.com/", sites[0].SiteURL)
	assert.Equal(t, "siteOwner", sites[0].PermissionLevel)
}

func TestQueryDefaults(t *testing.T) {
	var captured searchconsole.SearchAnalyticsQueryRequest
	client := newTestSearchClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rows":[]}`))
	}))

	_, err := client.Query(context.Background(), models.SearchQuery{
		SiteURL:   "https://example.com/",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"query"}, captured.Dimensions)
	assert.EqualValues(t, 100, captured.RowLimit)
	assert.Equal(t, "2024-01-01", captured.StartDate)
}

func TestQueryMissingSiteURL(t *testing.T) {
	client := NewSearchConsoleClient(staticTokenSource(), logging.NewLogger(), nil)

	_, err := client.Query(context.Background(), models.SearchQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})

	var valErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "siteUrl", valErr.Field)
}

func TestShapedQueries(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *SearchConsoleClient) error
		wantDims []string
		wantRows int64
	}{
		{
			name: "time series",
			call: func(c *SearchConsoleClient) error {
				_, err := c.TimeSeries(context.Background(), "https://example.com/", "2024-01-01", "2024-01-31")
				return err
			},
			wantDims: []string{"date"},
			wantRows: 1000,
		},
		{
			name: "top queries",
			call: func(c *SearchConsoleClient) error {
				_, err := c.TopQueries(context.Background(), "https://example.com/", "2024-01-01", "2024-01-31")
				return err
			},
			wantDims: []string{"query"},
			wantRows: 50,
		},
		{
			name: "top pages",
			call: func(c *SearchConsoleClient) error {
				_, err := c.TopPages(context.Background(), "https://example.com/", "2024-01-01", "2024-01-31")
				return err
			},
			wantDims: []string{"page"},
			wantRows: 50,
		},
		{
			name: "countries",
			call: func(c *SearchConsoleClient) error {
				_, err := c.Countries(context.Background(), "https://example.com/", "2024-01-01", "2024-01-31")
				return err
			},
			wantDims: []string{"country"},
			wantRows: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured searchconsole.SearchAnalyticsQueryRequest
			client := newTestSearchClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"rows":[]}`))
			}))

			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.wantDims, captured.Dimensions)
			assert.Equal(t, tt.wantRows, captured.RowLimit)
		})
	}
}

func TestSitemaps(t *testing.T) {
	client := newTestSearchClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sitemap":[{"path":"https://example.com/sitemap.xml","isPending":false}]}`))
	}))

	resp, err := client.Sitemaps(context.Background(), "https://example.com/")
	require.NoError(t, err)
	require.Len(t, resp.Sitemap, 1)
	assert.Equal(t, "https://example.com/sitemap.xml", resp.Sitemap[0].Path)
}

func TestQueryAuthFailure(t *testing.T) {
	client := newTestSearchClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))

	_, err := client.TimeSeries(context.Background(), "https://example.com/", "2024-01-01", "2024-01-31")

	var authErr *apperrors.ErrProviderAuth
	assert.ErrorAs(t, err, &authErr)
}
