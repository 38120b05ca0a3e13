package types

import "errors"

var (
	// ErrNotFound signals an empty upstream result set. It is a valid outcome,
	// not a failure, and results carrying it are never cached.
	ErrNotFound = errors.New("not found")

	// ErrRateLimitExceeded is returned when the rolling per-minute or per-day
	// call budget has been spent. It clears once the window elapses.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrMissingAPIKey short-circuits a fetch before any network attempt.
	ErrMissingAPIKey = errors.New("upstream API key is not configured")
)

// PlaceSummary is the normalized shape of a place text-search result.
type PlaceSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	MapsURL string `json:"maps_url,omitempty"`
}

// PlaceReview keeps only what the itinerary prompt needs from a review.
type PlaceReview struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// PlaceDetails is the normalized shape of a place details lookup.
type PlaceDetails struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Rating       float64       `json:"rating"`
	TotalRatings int           `json:"total_ratings"`
	Photos       []string      `json:"photos"`
	Reviews      []PlaceReview `json:"reviews"`
	Website      string        `json:"website,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	OpeningHours []string      `json:"opening_hours,omitempty"`
	MapsURL      string        `json:"maps_url,omitempty"`
}

// GeoPoint is a geocoded coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WeatherDay summarizes one forecast day.
type WeatherDay struct {
	Summary string  `json:"summary"`
	AvgTemp float64 `json:"avg_temp"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}

// WeatherSummary maps an ISO date (YYYY-MM-DD) to its forecast.
type WeatherSummary map[string]WeatherDay

// BatchResult is one entry of a batch details lookup. Exactly one of Details
// or Error is set; Query preserves the caller's original spelling.
type BatchResult struct {
	Query   string        `json:"query"`
	Details *PlaceDetails `json:"details,omitempty"`
	Error   string        `json:"error,omitempty"`
}
