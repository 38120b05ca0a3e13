package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestExtractPlaceID(t *testing.T) {
	t.Run("prefers explicit id", func(t *testing.T) {
		id, err := extractPlaceID(placePayload{ID: "ChIJabc", Name: "places/ChIJother"})
		require.NoError(t, err)
		assert.Equal(t, "ChIJabc", id)
	})

	t.Run("falls back to resource name", func(t *testing.T) {
		id, err := extractPlaceID(placePayload{Name: "places/ChIJxyz"})
		require.NoError(t, err)
		assert.Equal(t, "ChIJxyz", id)
	})

	t.Run("errors when neither is usable", func(t *testing.T) {
		_, err := extractPlaceID(placePayload{Name: "not-a-resource"})
		assert.Error(t, err)
	})
}

func TestCoercion(t *testing.T) {
	assert.Equal(t, 4.5, coerceFloat(4.5))
	assert.Equal(t, 4.0, coerceFloat(4))
	assert.Equal(t, 4.5, coerceFloat(" 4.5 "))
	assert.Equal(t, 0.0, coerceFloat("four and a half"))
	assert.Equal(t, 0.0, coerceFloat(nil))
	assert.Equal(t, 0.0, coerceFloat([]string{"4.5"}))

	assert.Equal(t, 1234, coerceInt(float64(1234)))
	assert.Equal(t, 1234, coerceInt("1234"))
	assert.Equal(t, 0, coerceInt(nil))
}

func TestPhotoURLs(t *testing.T) {
	photos := []photoPayload{
		{Name: "places/p1/photos/a"},
		{Name: ""},
		{Name: "places/p1/photos/b"},
		{Name: "places/p1/photos/c"},
	}

	urls := photoURLs(photos, "KEY", 2, 800)
	require.Len(t, urls, 2, "cap applies after skipping empty resource names")
	assert.Equal(t, "https://places.googleapis.com/v1/places/p1/photos/a/media?key=KEY&maxWidthPx=800", urls[0])
	assert.Equal(t, "https://places.googleapis.com/v1/places/p1/photos/b/media?key=KEY&maxWidthPx=800", urls[1])

	assert.Empty(t, photoURLs(nil, "KEY", 3, 800))
}

func TestTopReviews(t *testing.T) {
	reviews := []reviewPayload{
		{Rating: 3, PublishTime: "2024-01-01T00:00:00Z", OriginalText: &localizedText{Text: "old"}},
		{Rating: 5, PublishTime: "2025-06-01T00:00:00Z", OriginalText: &localizedText{Text: "newest"}},
		{Rating: 4, PublishTime: "garbage", OriginalText: &localizedText{Text: "undated"}},
		{Rating: "4.5", PublishTime: "2025-01-01T00:00:00Z"},
	}

	got := topReviews(reviews, 3)
	require.Len(t, got, 3)
	assert.Equal(t, types.PlaceReview{Text: "newest", Rating: 5}, got[0])
	assert.Equal(t, types.PlaceReview{Text: "", Rating: 4.5}, got[1])
	assert.Equal(t, types.PlaceReview{Text: "old", Rating: 3}, got[2])

	assert.Empty(t, topReviews(nil, 3))
}

func TestDisplayNameAndPhone(t *testing.T) {
	assert.Equal(t, "Eiffel Tower",
		displayName(placePayload{Name: "places/x", DisplayName: &localizedText{Text: "Eiffel Tower"}}))
	assert.Equal(t, "places/x", displayName(placePayload{Name: "places/x"}))

	assert.Equal(t, "+33 1 23", phoneNumber(placePayload{IntlPhoneNumber: "+33 1 23", NationalPhone: "01 23"}))
	assert.Equal(t, "01 23", phoneNumber(placePayload{NationalPhone: "01 23"}))
}
