package models

// Property is a Google Analytics 4 property flattened from an account summary.
type Property struct {
	PropertyID  string `json:"propertyId"`
	DisplayName string `json:"displayName"`
	Account     string `json:"account"`
}

// Site is a verified Search Console site.
type Site struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

// SearchQuery describes a Search Console analytics request.
// Dates must already be resolved to absolute YYYY-MM-DD values.
type SearchQuery struct {
	SiteURL    string
	StartDate  string
	EndDate    string
	Dimensions []string
	RowLimit   int64
}

// TrafficTotals are the aggregate GA4 metrics for a date range.
type TrafficTotals struct {
	PageViews          int64   `json:"pageViews"`
	Users              int64   `json:"users"`
	Sessions           int64   `json:"sessions"`
	BounceRate         float64 `json:"bounceRate"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
}

// TrafficPoint is one GA4 report row reduced to chartable values.
type TrafficPoint struct {
	Date      string `json:"date"`
	PageViews int64  `json:"pageViews"`
	Users     int64  `json:"users"`
	Sessions  int64  `json:"sessions"`
}

// PageStat is one row of a GA4 top-pages report.
type PageStat struct {
	Path       string  `json:"path"`
	Title      string  `json:"title"`
	PageViews  int64   `json:"pageViews"`
	Sessions   int64   `json:"sessions"`
	BounceRate float64 `json:"bounceRate"`
}

// SearchTotals are the aggregate Search Console metrics for a date range.
// CTR is a percentage; Position is an average rank.
type SearchTotals struct {
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// SearchPoint is one Search Console row keyed by its first dimension.
type SearchPoint struct {
	Key         string  `json:"key"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}
