package domain

import "time"

// Billable services tracked in the usage table
const (
	ServiceTwitterAPIIO = "twitterapi.io"
	ServiceXAPI         = "x-api"
)

// ServiceCostPerCall is the estimated USD cost of one successful call
var ServiceCostPerCall = map[string]float64{
	ServiceTwitterAPIIO: 0.0015, // one page of up to 10 tweets at $0.15 per 1k
	ServiceXAPI:         0.005,
}

// UsageRecord counts billable calls for one service in one calendar month
type UsageRecord struct {
	Service       string  `json:"service"`
	Month         string  `json:"month"` // YYYY-MM
	CallCount     int64   `json:"callCount"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// UsageMonth formats the month key used for usage counters
func UsageMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// EstimateCost fills EstimatedCost from the cost table
func (u *UsageRecord) EstimateCost() {
	u.EstimatedCost = float64(u.CallCount) * ServiceCostPerCall[u.Service]
}
