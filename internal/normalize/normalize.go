// Package normalize reduces raw provider responses to the stable
// shapes the dashboard charts consume. All functions are pure and
// tolerate empty input by returning zero values, never errors.
package normalize

import (
	"math"
	"strconv"

	"github.com/slingshot/slingshot/internal/models"
	"google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/searchconsole/v1"
)

// Positions in the GA4 report metric order:
// sessions, activeUsers, screenPageViews, bounceRate,
// averageSessionDuration, conversions.
const (
	idxSessions = iota
	idxUsers
	idxPageViews
	idxBounceRate
	idxAvgDuration
)

// Totals extracts aggregate traffic metrics from the report's TOTAL
// aggregation row. Bounce rate is scaled from a fraction to a whole
// percentage; duration is rounded to whole seconds.
func Totals(resp *analyticsdata.RunReportResponse) models.TrafficTotals {
	var totals models.TrafficTotals
	if resp == nil || len(resp.Totals) == 0 {
		return totals
	}
	values := resp.Totals[0].MetricValues
	if len(values) <= idxAvgDuration {
		return totals
	}

	totals.Sessions = parseInt(values[idxSessions].Value)
	totals.Users = parseInt(values[idxUsers].Value)
	totals.PageViews = parseInt(values[idxPageViews].Value)
	totals.BounceRate = math.Round(parseFloat(values[idxBounceRate].Value) * 100)
	totals.AvgSessionDuration = math.Round(parseFloat(values[idxAvgDuration].Value))
	return totals
}

// TimeSeries maps report rows to chart points in provider row order.
// The first dimension of each row is the date.
func TimeSeries(resp *analyticsdata.RunReportResponse) []models.TrafficPoint {
	if resp == nil {
		return []models.TrafficPoint{}
	}
	points := make([]models.TrafficPoint, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 || len(row.MetricValues) <= idxPageViews {
			continue
		}
		points = append(points, models.TrafficPoint{
			Date:      row.DimensionValues[0].Value,
			Sessions:  parseInt(row.MetricValues[idxSessions].Value),
			Users:     parseInt(row.MetricValues[idxUsers].Value),
			PageViews: parseInt(row.MetricValues[idxPageViews].Value),
		})
	}
	return points
}

// TopPages maps a top-pages report (pagePath, pageTitle dimensions;
// screenPageViews, sessions, bounceRate metrics) to page stats.
func TopPages(resp *analyticsdata.RunReportResponse) []models.PageStat {
	if resp == nil {
		return []models.PageStat{}
	}
	pages := make([]models.PageStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) < 2 || len(row.MetricValues) < 3 {
			continue
		}
		pages = append(pages, models.PageStat{
			Path:       row.DimensionValues[0].Value,
			Title:      row.DimensionValues[1].Value,
			PageViews:  parseInt(row.MetricValues[0].Value),
			Sessions:   parseInt(row.MetricValues[1].Value),
			BounceRate: math.Round(parseFloat(row.MetricValues[2].Value) * 100),
		})
	}
	return pages
}

// SearchTotals aggregates Search Console rows. Clicks and impressions
// are summed. CTR and position are unweighted row means: CTR scaled to
// a percentage with two decimals, position rounded to one decimal.
// Rows with zero impressions still count toward the mean.
func SearchTotals(rows []*searchconsole.ApiDataRow) models.SearchTotals {
	var totals models.SearchTotals
	if len(rows) == 0 {
		return totals
	}

	var clicks, impressions, ctrSum, positionSum float64
	for _, row := range rows {
		clicks += row.Clicks
		impressions += row.Impressions
		ctrSum += row.Ctr
		positionSum += row.Position
	}

	n := float64(len(rows))
	totals.Clicks = int64(math.Round(clicks))
	totals.Impressions = int64(math.Round(impressions))
	totals.CTR = round2(ctrSum / n * 100)
	totals.Position = round1(positionSum / n)
	return totals
}

// SearchSeries maps rows to points keyed by their first dimension
// value, in provider row order.
func SearchSeries(rows []*searchconsole.ApiDataRow) []models.SearchPoint {
	points := make([]models.SearchPoint, 0, len(rows))
	for _, row := range rows {
		key := ""
		if len(row.Keys) > 0 {
			key = row.Keys[0]
		}
		points = append(points, models.SearchPoint{
			Key:         key,
			Clicks:      int64(math.Round(row.Clicks)),
			Impressions: int64(math.Round(row.Impressions)),
			CTR:         round2(row.Ctr * 100),
			Position:    round1(row.Position),
		})
	}
	return points
}

func parseInt(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// GA4 occasionally formats whole numbers as floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(math.Round(f))
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
