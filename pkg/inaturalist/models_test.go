package inaturalist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMatch(t *testing.T) {
	taxa := []Taxon{
		{ID: 1, Name: "Phyllopteryx taeniolatus", PreferredCommonName: "Weedy Seadragon"},
		{ID: 2, Name: "Phycodurus eques", PreferredCommonName: "Leafy Seadragon"},
	}

	t.Run("exact common name match wins over rank", func(t *testing.T) {
		match := BestMatch(taxa, "leafy seadragon")
		require.NotNil(t, match)
		assert.Equal(t, 2, match.ID)
	})

	t.Run("exact scientific name match", func(t *testing.T) {
		match := BestMatch(taxa, "phycodurus eques")
		require.NotNil(t, match)
		assert.Equal(t, 2, match.ID)
	})

	t.Run("falls back to top-ranked result", func(t *testing.T) {
		match := BestMatch(taxa, "seadragon")
		require.NotNil(t, match)
		assert.Equal(t, 1, match.ID)
	})

	t.Run("empty result set", func(t *testing.T) {
		assert.Nil(t, BestMatch(nil, "anything"))
	})
}

func TestTaxonDisplayName(t *testing.T) {
	withCommon := Taxon{Name: "Phycodurus eques", PreferredCommonName: "Leafy Seadragon"}
	assert.Equal(t, "Leafy Seadragon", withCommon.DisplayName())

	withoutCommon := Taxon{Name: "Phycodurus eques"}
	assert.Equal(t, "Phycodurus eques", withoutCommon.DisplayName())
}

func TestObservationCoordinates(t *testing.T) {
	t.Run("from location string", func(t *testing.T) {
		obs := Observation{Location: "-35.123, 138.456"}
		lat, lng := obs.Coordinates()
		assert.Equal(t, "-35.123", lat)
		assert.Equal(t, "138.456", lng)
	})

	t.Run("from geojson in lng lat order", func(t *testing.T) {
		obs := Observation{Geojson: &Geojson{Type: "Point", Coordinates: []float64{138.456, -35.123}}}
		lat, lng := obs.Coordinates()
		assert.Equal(t, "-35.123", lat)
		assert.Equal(t, "138.456", lng)
	})

	t.Run("location string preferred over geojson", func(t *testing.T) {
		obs := Observation{
			Location: "-1,2",
			Geojson:  &Geojson{Type: "Point", Coordinates: []float64{99, 99}},
		}
		lat, lng := obs.Coordinates()
		assert.Equal(t, "-1", lat)
		assert.Equal(t, "2", lng)
	})

	t.Run("missing coordinates yield empty strings", func(t *testing.T) {
		obs := Observation{}
		lat, lng := obs.Coordinates()
		assert.Empty(t, lat)
		assert.Empty(t, lng)
	})

	t.Run("short geojson coordinates ignored", func(t *testing.T) {
		obs := Observation{Geojson: &Geojson{Type: "Point", Coordinates: []float64{138.456}}}
		lat, lng := obs.Coordinates()
		assert.Empty(t, lat)
		assert.Empty(t, lng)
	})
}

func TestObservationObserver(t *testing.T) {
	assert.Equal(t, "diverdan", (&Observation{User: &User{Login: "diverdan"}}).Observer())
	assert.Empty(t, (&Observation{}).Observer())
}

func TestObservationTaxonNames(t *testing.T) {
	obs := Observation{Taxon: &Taxon{Name: "Phycodurus eques", PreferredCommonName: "Leafy Seadragon"}}
	assert.Equal(t, "Phycodurus eques", obs.ScientificName())
	assert.Equal(t, "Leafy Seadragon", obs.CommonName())

	empty := Observation{}
	assert.Empty(t, empty.ScientificName())
	assert.Empty(t, empty.CommonName())
}

func TestObservationLivingStatus(t *testing.T) {
	tests := []struct {
		name        string
		annotations []Annotation
		want        string
	}{
		{"alive", []Annotation{{ControlledAttributeID: 17, ControlledValueID: 18}}, "alive"},
		{"dead", []Annotation{{ControlledAttributeID: 17, ControlledValueID: 19}}, "dead"},
		{"cannot determine", []Annotation{{ControlledAttributeID: 17, ControlledValueID: 20}}, ""},
		{"absent", nil, ""},
		{"unrelated annotation", []Annotation{{ControlledAttributeID: 1, ControlledValueID: 2}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Observation{Annotations: tt.annotations}
			assert.Equal(t, tt.want, obs.LivingStatus())
		})
	}
}

func TestPhotoSizeURL(t *testing.T) {
	photo := Photo{URL: "https://static.inaturalist.org/photos/123/square.jpeg?1588"}

	assert.Equal(t,
		"https://static.inaturalist.org/photos/123/original.jpeg?1588",
		photo.SizeURL("original"))
	assert.Equal(t,
		"https://static.inaturalist.org/photos/123/large.jpeg?1588",
		photo.SizeURL("large"))
}

func TestPhotoExtension(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"jpeg with query", "https://example.org/photos/1/square.jpeg?1588", "jpeg"},
		{"png", "https://example.org/photos/1/square.png", "png"},
		{"uppercase normalized", "https://example.org/photos/1/square.JPG", "jpg"},
		{"no extension", "https://example.org/photos/1/square", "jpg"},
		{"implausibly long", "https://example.org/photos/1/square.jpeg2000", "jpg"},
		{"empty after dot", "https://example.org/photos/1/square.", "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photo := Photo{URL: tt.url}
			assert.Equal(t, tt.want, photo.Extension())
		})
	}
}
