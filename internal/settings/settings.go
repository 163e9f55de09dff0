// Package settings stores the user's threshold configuration and region
// watchlist. Neither is consulted when classifying or deriving alerts.
package settings

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/query"
)

// Threshold holds the amber and red concentration limits for one class of
// geography. Amber above Red is accepted as entered.
type Threshold struct {
	GeographyType string    `json:"geography_type"`
	Amber         int       `json:"amber"`
	Red           int       `json:"red"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ThresholdCommand sets the limits for a geography type.
type ThresholdCommand struct {
	Amber int `json:"amber"`
	Red   int `json:"red"`
}

// WatchlistEntry is a region flagged for priority monitoring.
type WatchlistEntry struct {
	ID        uuid.UUID `json:"id"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultThresholds are installed by the initial migration and by
// RestoreDefaults.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{GeographyType: "Coastal", Amber: 60, Red: 80},
		{GeographyType: "Inland", Amber: 70, Red: 90},
		{GeographyType: "Wildfire-Prone", Amber: 55, Red: 75},
	}
}

// DefaultWatchlist is installed alongside DefaultThresholds.
func DefaultWatchlist() []string {
	return []string{"Southeast Florida", "Gulf Coast Texas", "California Coast"}
}

var thresholdProjection = query.
	NewProjectionMap("threshold_configs", "t").
	Project("geography_type", "geography_type").
	Project("amber", "amber").
	Project("red", "red").
	Project("updated_at", "updated_at")

var thresholdSort = query.SortField{Field: "geography_type"}

var watchlistProjection = query.
	NewProjectionMap("watchlist", "w").
	Project("id", "id").
	Project("region", "region").
	Project("created_at", "created_at")

// Insertion order, with region breaking ties between rows added together.
var watchlistSort = []query.SortField{
	{Field: "created_at"},
	{Field: "region"},
}

// WatchlistFilter narrows a watchlist listing. Search matches a
// case-insensitive substring of the region.
type WatchlistFilter struct {
	Search string            `json:"search,omitempty"`
	Sort   []query.SortField `json:"-"`
}

// WatchlistFilterFromQuery reads search and sort ("region" or "-created_at").
func WatchlistFilterFromQuery(values url.Values) WatchlistFilter {
	return WatchlistFilter{
		Search: values.Get("search"),
		Sort:   query.ParseSortFields(values.Get("sort")),
	}
}
