package places

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Wire shapes for the Places API (New). Rating fields are declared as `any`
// because the upstream has been observed returning both numbers and strings;
// they are coerced defensively below.
type searchResponse struct {
	Places []placePayload `json:"places"`
}

type placePayload struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"` // resource name, e.g. "places/ChIJ..."
	DisplayName      *localizedText  `json:"displayName"`
	FormattedAddress string          `json:"formattedAddress"`
	GoogleMapsURI    string          `json:"googleMapsUri"`
	WebsiteURI       string          `json:"websiteUri"`
	IntlPhoneNumber  string          `json:"internationalPhoneNumber"`
	NationalPhone    string          `json:"nationalPhoneNumber"`
	Rating           any             `json:"rating"`
	UserRatingCount  any             `json:"userRatingCount"`
	Photos           []photoPayload  `json:"photos"`
	Reviews          []reviewPayload `json:"reviews"`
	OpeningHours     *openingHours   `json:"regularOpeningHours"`
}

type localizedText struct {
	Text string `json:"text"`
}

type photoPayload struct {
	Name string `json:"name"`
}

type reviewPayload struct {
	Rating       any            `json:"rating"`
	PublishTime  string         `json:"publishTime"`
	OriginalText *localizedText `json:"originalText"`
}

type openingHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

// extractPlaceID returns the place id, falling back to the trailing segment
// of the resource name ("places/<id>"). Both missing is an explicit error:
// without an id the details lookup cannot proceed.
func extractPlaceID(p placePayload) (string, error) {
	if p.ID != "" {
		return p.ID, nil
	}
	if rest, ok := strings.CutPrefix(p.Name, "places/"); ok && rest != "" {
		return rest, nil
	}
	return "", fmt.Errorf("could not extract place id from search result")
}

// coerceFloat tolerates numbers arriving as float64, int or string.
// Anything else degrades to zero rather than failing the whole lookup.
func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceInt(v any) int {
	return int(coerceFloat(v))
}

// photoURLs builds display URLs for at most maxPhotos photo resources.
func photoURLs(photos []photoPayload, apiKey string, maxPhotos, maxWidthPx int) []string {
	urls := make([]string, 0, maxPhotos)
	for _, p := range photos {
		if len(urls) == maxPhotos {
			break
		}
		if p.Name == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(
			"https://places.googleapis.com/v1/%s/media?key=%s&maxWidthPx=%d",
			p.Name, apiKey, maxWidthPx))
	}
	return urls
}

// topReviews sorts reviews newest-first by publish time and keeps at most
// maxReviews, surfacing only text and rating. Unparseable timestamps sort
// last rather than breaking the lookup.
func topReviews(reviews []reviewPayload, maxReviews int) []types.PlaceReview {
	sorted := make([]reviewPayload, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parsePublishTime(sorted[i].PublishTime).After(parsePublishTime(sorted[j].PublishTime))
	})

	out := make([]types.PlaceReview, 0, maxReviews)
	for _, rv := range sorted {
		if len(out) == maxReviews {
			break
		}
		text := ""
		if rv.OriginalText != nil {
			text = rv.OriginalText.Text
		}
		out = append(out, types.PlaceReview{Text: text, Rating: coerceFloat(rv.Rating)})
	}
	return out
}

func parsePublishTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func displayName(p placePayload) string {
	if p.DisplayName != nil && p.DisplayName.Text != "" {
		return p.DisplayName.Text
	}
	return p.Name
}

func phoneNumber(p placePayload) string {
	if p.IntlPhoneNumber != "" {
		return p.IntlPhoneNumber
	}
	return p.NationalPhone
}
