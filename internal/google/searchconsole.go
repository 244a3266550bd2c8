package google

import (
	"context"
	"time"

	"github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/metrics"
	"github.com/slingshot/slingshot/internal/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/searchconsole/v1"
)

const providerGSC = "gsc"

// Row limits per report shape. Date series get a high limit so long
// ranges are not truncated; ranked reports stay small.
const (
	queryRowLimit      = 100
	timeSeriesRowLimit = 1000
	topQueriesRowLimit = 50
	topPagesRowLimit   = 50
	countriesRowLimit  = 20
)

// SearchConsoleClient queries the Search Console API on behalf of one
// user's token source.
type SearchConsoleClient struct {
	ts      oauth2.TokenSource
	logger  *logging.Logger
	metrics *metrics.Metrics
	opts    []option.ClientOption
}

// NewSearchConsoleClient creates a Search Console client. Extra options
// are appended after the token source for endpoint overrides in tests.
func NewSearchConsoleClient(ts oauth2.TokenSource, logger *logging.Logger, m *metrics.Metrics, opts ...option.ClientOption) *SearchConsoleClient {
	return &SearchConsoleClient{ts: ts, logger: logger, metrics: m, opts: opts}
}

func (c *SearchConsoleClient) clientOptions() []option.ClientOption {
	return append([]option.ClientOption{option.WithTokenSource(c.ts)}, c.opts...)
}

func (c *SearchConsoleClient) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerGSC, operation, status)
		c.metrics.ObserveProviderCallDuration(providerGSC, operation, time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.ErrorWithContext(ctx, "search console call failed", "operation", operation, "error", err.Error())
	}
}

// ListSites returns the user's verified sites.
func (c *SearchConsoleClient) ListSites(ctx context.Context) ([]models.Site, error) {
	start := time.Now()

	svc, err := searchconsole.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "listSites", start, err)
		return nil, mapError(providerGSC, err)
	}

	resp, err := svc.Sites.List().Context(ctx).Do()
	c.record(ctx, "listSites", start, err)
	if err != nil {
		return nil, mapError(providerGSC, err)
	}

	sites := make([]models.Site, 0, len(resp.SiteEntry))
	for _, entry := range resp.SiteEntry {
		sites = append(sites, models.Site{
			SiteURL:         entry.SiteUrl,
			PermissionLevel: entry.PermissionLevel,
		})
	}
	return sites, nil
}

// Query runs a search analytics query. Dates in q must already be
// absolute; dimensions default to query with a row limit of 100.
func (c *SearchConsoleClient) Query(ctx context.Context, q models.SearchQuery) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	if q.SiteURL == "" {
		return nil, &errors.ErrValidation{Field: "siteUrl", Reason: "must not be empty"}
	}
	if len(q.Dimensions) == 0 {
		q.Dimensions = []string{"query"}
	}
	if q.RowLimit <= 0 {
		q.RowLimit = queryRowLimit
	}
	start := time.Now()

	svc, err := searchconsole.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "query", start, err)
		return nil, mapError(providerGSC, err)
	}

	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Dimensions: q.Dimensions,
		RowLimit:   q.RowLimit,
	}

	resp, err := svc.Searchanalytics.Query(q.SiteURL, req).Context(ctx).Do()
	c.record(ctx, "query", start, err)
	if err != nil {
		return nil, mapError(providerGSC, err)
	}
	return resp, nil
}

// TimeSeries returns daily click/impression rows for a site.
func (c *SearchConsoleClient) TimeSeries(ctx context.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return c.Query(ctx, models.SearchQuery{
		SiteURL:    siteURL,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []string{"date"},
		RowLimit:   timeSeriesRowLimit,
	})
}

// TopQueries returns the highest-traffic search queries for a site.
func (c *SearchConsoleClient) TopQueries(ctx context.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return c.Query(ctx, models.SearchQuery{
		SiteURL:    siteURL,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []string{"query"},
		RowLimit:   topQueriesRowLimit,
	})
}

// TopPages returns the highest-traffic pages for a site.
func (c *SearchConsoleClient) TopPages(ctx context.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return c.Query(ctx, models.SearchQuery{
		SiteURL:    siteURL,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []string{"page"},
		RowLimit:   topPagesRowLimit,
	})
}

// Countries returns search performance grouped by country.
func (c *SearchConsoleClient) Countries(ctx context.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	return c.Query(ctx, models.SearchQuery{
		SiteURL:    siteURL,
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []string{"country"},
		RowLimit:   countriesRowLimit,
	})
}

// Sitemaps lists the sitemaps submitted for a site.
func (c *SearchConsoleClient) Sitemaps(ctx context.Context, siteURL string) (*searchconsole.SitemapsListResponse, error) {
	if siteURL == "" {
		return nil, &errors.ErrValidation{Field: "siteUrl", Reason: "must not be empty"}
	}
	start := time.Now()

	svc, err := searchconsole.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "sitemaps", start, err)
		return nil, mapError(providerGSC, err)
	}

	resp, err := svc.Sitemaps.List(siteURL).Context(ctx).Do()
	c.record(ctx, "sitemaps", start, err)
	if err != nil {
		return nil, mapError(providerGSC, err)
	}
	return resp, nil
}
