package tools

import "google.golang.org/genai"

// FunctionDeclarations exports the travel lookup tool set in the shape the
// Gemini client expects, so an orchestrator can attach the fetchers as
// callable tools on a GenerateContentConfig.
func FunctionDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "searchPlace",
			Description: "Search for a place by free-text query and return its id, name, address and maps link.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Place to search for"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "placeDetails",
			Description: "Fetch full details for a place: rating, photos, recent reviews, website, phone and opening hours.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Place to look up"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "batchPlaceDetails",
			Description: "Fetch details for many places at once, one entry per unique query in first-occurrence order.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"queries": {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: "Places to look up",
					},
				},
				Required: []string{"queries"},
			},
		},
		{
			Name:        "geocode",
			Description: "Resolve an address or place name to latitude and longitude.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"address": {Type: genai.TypeString, Description: "Address to geocode"},
				},
				Required: []string{"address"},
			},
		},
		{
			Name:        "weatherSummary",
			Description: "Daily forecast summary for a coordinate keyed by ISO date.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"lat":  {Type: genai.TypeNumber, Description: "Latitude"},
					"lng":  {Type: genai.TypeNumber, Description: "Longitude"},
					"days": {Type: genai.TypeInteger, Description: "Forecast days, default 5"},
				},
				Required: []string{"lat", "lng"},
			},
		},
	}
}

// GenAITools wraps the declarations in the single genai.Tool a
// GenerateContentConfig takes.
func GenAITools() []*genai.Tool {
	return []*genai.Tool{{FunctionDeclarations: FunctionDeclarations()}}
}
