package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FACorreiaa/go-trip-planner/internal/api/batch"
	"github.com/FACorreiaa/go-trip-planner/internal/api/geocode"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/weather"
)

// NewTravelRegistry declares the travel lookup tool set over the fetcher
// services. Declaration order is the order shown to the runtime.
func NewTravelRegistry(
	placesSvc places.Service,
	geocodeSvc geocode.Service,
	weatherSvc weather.Service,
	batchSvc batch.Service,
	logger *slog.Logger,
) *Registry {
	searchPlace := &Tool{
		Tool: mcp.Tool{
			Name:        "searchPlace",
			Description: "Search for a place by free-text query and return its id, name, address and maps link.",
			Annotations: &mcp.ToolAnnotations{Title: "Search Place"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Place to search for, e.g. 'Taj Mahal, India'",
					},
				},
				"required": []string{"query"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			query, err := readString(args, "query", true)
			if err != nil {
				return nil, err
			}
			return placesSvc.SearchPlace(ctx, query)
		},
	}

	placeDetails := &Tool{
		Tool: mcp.Tool{
			Name:        "placeDetails",
			Description: "Fetch full details for a place: rating, photos, recent reviews, website, phone and opening hours.",
			Annotations: &mcp.ToolAnnotations{Title: "Place Details"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Place to look up, e.g. 'Louvre Museum, Paris'",
					},
				},
				"required": []string{"query"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			query, err := readString(args, "query", true)
			if err != nil {
				return nil, err
			}
			return placesSvc.PlaceDetails(ctx, query)
		},
	}

	batchPlaceDetails := &Tool{
		Tool: mcp.Tool{
			Name:        "batchPlaceDetails",
			Description: "Fetch details for many places at once. Returns one entry per unique query in first-occurrence order.",
			Annotations: &mcp.ToolAnnotations{Title: "Batch Place Details"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"queries": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Places to look up",
					},
				},
				"required": []string{"queries"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			queries, err := readStringSlice(args, "queries")
			if err != nil {
				return nil, err
			}
			return batchSvc.FetchPlaceDetails(ctx, queries), nil
		},
	}

	geocodeTool := &Tool{
		Tool: mcp.Tool{
			Name:        "geocode",
			Description: "Resolve an address or place name to latitude and longitude.",
			Annotations: &mcp.ToolAnnotations{Title: "Geocode Address"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"address": map[string]any{
						"type":        "string",
						"description": "Address to geocode",
					},
				},
				"required": []string{"address"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			address, err := readString(args, "address", true)
			if err != nil {
				return nil, err
			}
			return geocodeSvc.Geocode(ctx, address)
		},
	}

	weatherSummary := &Tool{
		Tool: mcp.Tool{
			Name:        "weatherSummary",
			Description: "Daily forecast summary for a coordinate: condition, average, min and max temperature per ISO date.",
			Annotations: &mcp.ToolAnnotations{Title: "Weather Summary"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"lat":  map[string]any{"type": "number", "description": "Latitude"},
					"lng":  map[string]any{"type": "number", "description": "Longitude"},
					"days": map[string]any{"type": "integer", "description": "Forecast days, default 5"},
				},
				"required": []string{"lat", "lng"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			lat, err := readFloat(args, "lat")
			if err != nil {
				return nil, err
			}
			lng, err := readFloat(args, "lng")
			if err != nil {
				return nil, err
			}
			days, err := readInt(args, "days", 5)
			if err != nil {
				return nil, err
			}
			return weatherSvc.WeatherSummary(ctx, lat, lng, days)
		},
	}

	return NewRegistry(logger, searchPlace, placeDetails, batchPlaceDetails, geocodeTool, weatherSummary)
}
