package api

import (
	"github.com/gin-gonic/gin"
	"github.com/slingshot/slingshot/internal/errors"
	gclient "github.com/slingshot/slingshot/internal/google"
	"github.com/slingshot/slingshot/internal/models"
	"github.com/slingshot/slingshot/internal/normalize"
	"github.com/slingshot/slingshot/pkg/headers"
	"golang.org/x/oauth2"
)

// providerTokenSource resolves the Google tokens for a request. Tokens
// supplied directly on the request win over the stored credential, so
// clients that manage their own tokens never touch the store.
func (s *Server) providerTokenSource(c *gin.Context) (oauth2.TokenSource, error) {
	if tokens, ok := headers.ParseProviderTokens(c.Request.Header); ok {
		return s.oauthSvc.TokenSource(c.Request.Context(), tokens.AccessToken, tokens.RefreshToken, nil), nil
	}

	userID := CurrentUser(c)
	cred, ok := s.store.GetCredential(userID, models.ProviderGoogle)
	if !ok {
		return nil, &errors.ErrMissingCredential{UserID: userID}
	}
	return s.oauthSvc.TokenSource(c.Request.Context(), cred.AccessToken, cred.RefreshToken, cred.ExpiresAt), nil
}

func (s *Server) analyticsClient(c *gin.Context) (*gclient.AnalyticsClient, error) {
	ts, err := s.providerTokenSource(c)
	if err != nil {
		return nil, err
	}
	return gclient.NewAnalyticsClient(ts, s.logger, s.metrics, s.googleOpts...), nil
}

// dateRange resolves the startDate and endDate query parameters,
// defaulting to the trailing 30 days.
func dateRange(c *gin.Context) (string, string) {
	start := gclient.ResolveDate(c.Query("startDate"), "30daysAgo")
	end := gclient.ResolveDate(c.Query("endDate"), "today")
	return start, end
}

func wantNormalized(c *gin.Context) bool {
	return c.Query("normalize") == "true"
}

// handleGA4Properties lists GA4 properties across the user's accounts
func (s *Server) handleGA4Properties(c *gin.Context) {
	client, err := s.analyticsClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	properties, err := client.ListProperties(c.Request.Context())
	if err != nil {
		s.respondAppError(c, err)
		return
	}
	respondOK(c, properties)
}

// handleGA4Realtime returns a realtime snapshot for a property
func (s *Server) handleGA4Realtime(c *gin.Context) {
	client, err := s.analyticsClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	resp, err := client.RealtimeSnapshot(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		s.respondAppError(c, err)
		return
	}
	respondOK(c, resp)
}

// handleGA4Report returns the standard traffic report. With
// normalize=true the raw provider rows are reduced to chart-ready
// totals and a daily time series.
func (s *Server) handleGA4Report(c *gin.Context) {
	client, err := s.analyticsClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	startDate, endDate := dateRange(c)
	resp, err := client.RunReport(c.Request.Context(), c.Param("propertyId"), startDate, endDate)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	if wantNormalized(c) {
		respondOK(c, gin.H{
			"totals":     normalize.Totals(resp),
			"timeseries": normalize.TimeSeries(resp),
		})
		return
	}
	respondOK(c, resp)
}

// handleGA4TopPages returns the most viewed pages for a property
func (s *Server) handleGA4TopPages(c *gin.Context) {
	client, err := s.analyticsClient(c)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	startDate, endDate := dateRange(c)
	resp, err := client.TopPages(c.Request.Context(), c.Param("propertyId"), startDate, endDate)
	if err != nil {
		s.respondAppError(c, err)
		return
	}

	if wantNormalized(c) {
		respondOK(c, normalize.TopPages(resp))
		return
	}
	respondOK(c, resp)
}
