package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	gclient "github.com/slingshot/slingshot/internal/google"
	"github.com/slingshot/slingshot/internal/models"
	"github.com/slingshot/slingshot/internal/normalize"
	"google.golang.org/api/searchconsole/v1"
)

func (s *Server) searchClient(c *gin.Context) (*gclient.SearchConsoleClient, error) {
	ts, err := s.providerTokenSource(c)
	if err != nil {
		return nil, err
	}
	return gclient.NewSearchConsoleClient(ts, s.logger, s.metrics, s.googleOpts...), nil
}

// handleGSCSites lists the user's verified Search Console sites
func (s *Server) handleGSCSites(c *gin.Context) {
	client, err := s.searchClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	sites, err := client.ListSites(c.Request.Context())
	if err != nil {
		s.respondAppError(c, err)
		return
	}
	respondOK(c, sites)
}

// handleGSCSearchAnalytics runs a free-form search analytics query.
// Dimensions arrive comma-separated; rowLimit is clamped by the client.
func (s *Server) handleGSCSearchAnalytics(c *gin.Context) {
	client, err := s.searchClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	startDate, endDate := dateRange(c)
	query := models.SearchQuery{
		SiteURL:   c.Query("siteUrl"),
		StartDate: startDate,
		EndDate:   endDate,
	}
	if dims := c.Query("dimensions"); dims != "" {
		query.Dimensions = strings.Split(dims, ",")
	}
	if raw := c.Query("rowLimit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			query.RowLimit = limit
		}
	}

	resp, err := client.Query(c.Request.Context(), query)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	if wantNormalized(c) {
		respondOK(c, gin.H{
			"totals": normalize.SearchTotals(resp.Rows),
			"rows":   normalize.SearchSeries(resp.Rows),
		})
		return
	}
	respondOK(c, resp)
}

type searchReportFunc func(*gclient.SearchConsoleClient, *gin.Context, string, string, string) (*searchconsole.SearchAnalyticsQueryResponse, error)

// runSearchReport factors the shared shape of the fixed-dimension
// Search Console reports.
func (s *Server) runSearchReport(c *gin.Context, report searchReportFunc) {
	client, err := s.searchClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	startDate, endDate := dateRange(c)
	resp, err := report(client, c, c.Query("siteUrl"), startDate, endDate)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	if wantNormalized(c) {
		respondOK(c, gin.H{
			"totals": normalize.SearchTotals(resp.Rows),
			"rows":   normalize.SearchSeries(resp.Rows),
		})
		return
	}
	respondOK(c, resp)
}

// handleGSCTopQueries returns the highest-traffic search queries
func (s *Server) handleGSCTopQueries(c *gin.Context) {
	s.runSearchReport(c, func(client *gclient.SearchConsoleClient, c *gin.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
		return client.TopQueries(c.Request.Context(), siteURL, startDate, endDate)
	})
}

// handleGSCTopPages returns the highest-traffic pages
func (s *Server) handleGSCTopPages(c *gin.Context) {
	s.runSearchReport(c, func(client *gclient.SearchConsoleClient, c *gin.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
		return client.TopPages(c.Request.Context(), siteURL, startDate, endDate)
	})
}

// handleGSCTimeSeries returns daily click and impression rows
func (s *Server) handleGSCTimeSeries(c *gin.Context) {
	s.runSearchReport(c, func(client *gclient.SearchConsoleClient, c *gin.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
		return client.TimeSeries(c.Request.Context(), siteURL, startDate, endDate)
	})
}

// handleGSCCountries returns search performance grouped by country
func (s *Server) handleGSCCountries(c *gin.Context) {
	s.runSearchReport(c, func(client *gclient.SearchConsoleClient, c *gin.Context, siteURL, startDate, endDate string) (*searchconsole.SearchAnalyticsQueryResponse, error) {
		return client.Countries(c.Request.Context(), siteURL, startDate, endDate)
	})
}

// handleGSCSitemaps lists submitted sitemaps for a site
func (s *Server) handleGSCSitemaps(c *gin.Context) {
	client, err := s.searchClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	resp, err := client.Sitemaps(c.Request.Context(), c.Query("siteUrl"))
	if err != nil {
		s.respondAppError(c, err)
		return
	}
	respondOK(c, resp)
}
