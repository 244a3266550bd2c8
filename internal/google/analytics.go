// Package google holds the GA4 and Search Console report clients.
// Clients are constructed per request from the caller's token source;
// there are no process-wide service singletons.
package google

import (
	"context"
	"strings"
	"time"

	"github.com/slingshot/slingshot/internal/errors"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/metrics"
	"github.com/slingshot/slingshot/internal/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/analyticsadmin/v1beta"
	"google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const providerGA4 = "ga4"

// topPagesLimit caps the top-pages report.
const topPagesLimit = 20

// reportMetrics is the fixed metric order for the main GA4 report.
// The normalizer depends on these positions.
var reportMetrics = []string{
	"sessions",
	"activeUsers",
	"screenPageViews",
	"bounceRate",
	"averageSessionDuration",
	"conversions",
}

var reportDimensions = []string{"date", "pagePath", "country"}

// AnalyticsClient queries the GA4 Data and Admin APIs on behalf of one
// user's token source.
type AnalyticsClient struct {
	ts      oauth2.TokenSource
	logger  *logging.Logger
	metrics *metrics.Metrics
	opts    []option.ClientOption
}

// NewAnalyticsClient creates a GA4 client. Extra options are appended
// after the token source, so tests can point the client at a fake
// endpoint.
func NewAnalyticsClient(ts oauth2.TokenSource, logger *logging.Logger, m *metrics.Metrics, opts ...option.ClientOption) *AnalyticsClient {
	return &AnalyticsClient{ts: ts, logger: logger, metrics: m, opts: opts}
}

func (c *AnalyticsClient) clientOptions() []option.ClientOption {
	return append([]option.ClientOption{option.WithTokenSource(c.ts)}, c.opts...)
}

func (c *AnalyticsClient) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerGA4, operation, status)
		c.metrics.ObserveProviderCallDuration(providerGA4, operation, time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.ErrorWithContext(ctx, "ga4 call failed", "operation", operation, "error", err.Error())
	}
}

// ListProperties flattens property summaries across every account the
// user can see. Pages through account summaries 200 at a time.
func (c *AnalyticsClient) ListProperties(ctx context.Context) ([]models.Property, error) {
	start := time.Now()

	svc, err := analyticsadmin.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "listProperties", start, err)
		return nil, mapError(providerGA4, err)
	}

	properties := make([]models.Property, 0)
	pageToken := ""
	for {
		call := svc.AccountSummaries.List().PageSize(200)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Context(ctx).Do()
		if err != nil {
			c.record(ctx, "listProperties", start, err)
			return nil, mapError(providerGA4, err)
		}

		for _, account := range resp.AccountSummaries {
			for _, prop := range account.PropertySummaries {
				properties = append(properties, models.Property{
					PropertyID:  strings.TrimPrefix(prop.Property, "properties/"),
					DisplayName: prop.DisplayName,
					Account:     account.DisplayName,
				})
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	c.record(ctx, "listProperties", start, nil)
	return properties, nil
}

// RunReport fetches the standard dashboard report for a property.
// Dates must be absolute YYYY-MM-DD values.
func (c *AnalyticsClient) RunReport(ctx context.Context, propertyID, startDate, endDate string) (*analyticsdata.RunReportResponse, error) {
	if propertyID == "" {
		return nil, &errors.ErrValidation{Field: "propertyId", Reason: "must not be empty"}
	}
	start := time.Now()

	svc, err := analyticsdata.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "runReport", start, err)
		return nil, mapError(providerGA4, err)
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges:         []*analyticsdata.DateRange{{StartDate: startDate, EndDate: endDate}},
		Metrics:            metricList(reportMetrics),
		Dimensions:         dimensionList(reportDimensions),
		KeepEmptyRows:      true,
		MetricAggregations: []string{"TOTAL"},
	}

	resp, err := svc.Properties.RunReport("properties/"+propertyID, req).Context(ctx).Do()
	c.record(ctx, "runReport", start, err)
	if err != nil {
		return nil, mapError(providerGA4, err)
	}
	return resp, nil
}

// RealtimeSnapshot fetches current active users and page views by country.
func (c *AnalyticsClient) RealtimeSnapshot(ctx context.Context, propertyID string) (*analyticsdata.RunRealtimeReportResponse, error) {
	if propertyID == "" {
		return nil, &errors.ErrValidation{Field: "propertyId", Reason: "must not be empty"}
	}
	start := time.Now()

	svc, err := analyticsdata.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "realtime", start, err)
		return nil, mapError(providerGA4, err)
	}

	req := &analyticsdata.RunRealtimeReportRequest{
		Metrics:    metricList([]string{"activeUsers", "screenPageViews"}),
		Dimensions: dimensionList([]string{"country"}),
	}

	resp, err := svc.Properties.RunRealtimeReport("properties/"+propertyID, req).Context(ctx).Do()
	c.record(ctx, "realtime", start, err)
	if err != nil {
		return nil, mapError(providerGA4, err)
	}
	return resp, nil
}

// TopPages fetches the most viewed pages, ordered by views descending.
func (c *AnalyticsClient) TopPages(ctx context.Context, propertyID, startDate, endDate string) (*analyticsdata.RunReportResponse, error) {
	if propertyID == "" {
		return nil, &errors.ErrValidation{Field: "propertyId", Reason: "must not be empty"}
	}
	start := time.Now()

	svc, err := analyticsdata.NewService(ctx, c.clientOptions()...)
	if err != nil {
		c.record(ctx, "topPages", start, err)
		return nil, mapError(providerGA4, err)
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: startDate, EndDate: endDate}},
		Metrics:    metricList([]string{"screenPageViews", "sessions", "bounceRate"}),
		Dimensions: dimensionList([]string{"pagePath", "pageTitle"}),
		OrderBys: []*analyticsdata.OrderBy{{
			Desc:   true,
			Metric: &analyticsdata.MetricOrderBy{MetricName: "screenPageViews"},
		}},
		Limit: topPagesLimit,
	}

	resp, err := svc.Properties.RunReport("properties/"+propertyID, req).Context(ctx).Do()
	c.record(ctx, "topPages", start, err)
	if err != nil {
		return nil, mapError(providerGA4, err)
	}
	return resp, nil
}

func metricList(names []string) []*analyticsdata.Metric {
	out := make([]*analyticsdata.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, &analyticsdata.Metric{Name: name})
	}
	return out
}

func dimensionList(names []string) []*analyticsdata.Dimension {
	out := make([]*analyticsdata.Dimension, 0, len(names))
	for _, name := range names {
		out = append(out, &analyticsdata.Dimension{Name: name})
	}
	return out
}
