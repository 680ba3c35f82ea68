package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inatexport/pkg/inaturalist"
)

var exportedAt = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func seadragonObservation() *inaturalist.Observation {
	return &inaturalist.Observation{
		ID:           4217, // https://www.inaturalist.org/observations/4217
		ObservedOn:   "2025-05-20",
		Location:     "-35.021, 138.461",
		PlaceGuess:   "Rapid Bay, South Australia",
		QualityGrade: "research",
		User:         &inaturalist.User{Login: "diverdan"},
		Taxon: &inaturalist.Taxon{
			ID:                  129545,
			Name:                "Phycodurus eques",
			PreferredCommonName: "Leafy Seadragon",
		},
		Annotations: []inaturalist.Annotation{
			{ControlledAttributeID: 17, ControlledValueID: 18},
		},
	}
}

// seadragonRow is a fully populated row shared across export tests
func seadragonRow() Row {
	return NewRow(seadragonObservation(), []string{"4217_1.jpg"}, RowOptions{ExportedAt: exportedAt})
}

func TestNewRowFixedColumns(t *testing.T) {
	row := NewRow(seadragonObservation(), []string{"4217_1.jpg", "4217_2.jpg"}, RowOptions{
		LocationID:  "RapidBay",
		SubmitterID: "curator01",
		ExportedAt:  exportedAt,
	})

	assert.Equal(t, "4217", row.Value(ColObservationID))
	assert.Equal(t, "2025-05-20", row.Value(ColObservedOn))
	assert.Equal(t, "2025", row.Value(ColYear))
	assert.Equal(t, "5", row.Value(ColMonth))
	assert.Equal(t, "20", row.Value(ColDay))
	assert.Equal(t, "Phycodurus eques", row.Value(ColScientificName))
	assert.Equal(t, "Phycodurus", row.Value(ColGenus))
	assert.Equal(t, "eques", row.Value(ColSpecificEpithet))
	assert.Equal(t, "Leafy Seadragon", row.Value(ColCommonName))
	assert.Equal(t, "-35.021", row.Value(ColDecimalLatitude))
	assert.Equal(t, "138.461", row.Value(ColDecimalLongitude))
	assert.Equal(t, "Rapid Bay, South Australia", row.Value(ColVerbatimLocality))
	assert.Equal(t, "RapidBay", row.Value(ColLocationID))
	assert.Equal(t, "alive", row.Value(ColLivingStatus))
	assert.Equal(t, "curator01", row.Value(ColSubmitterID))
	assert.Equal(t, "diverdan", row.Value(ColObserver))
	assert.Equal(t, "research", row.Value(ColQualityGrade))
	assert.Equal(t, "https://www.inaturalist.org/observations/4217", row.Value(ColURL))
	assert.Equal(t, "2", row.Value(ColPhotoCount))
	assert.Equal(t, "4217_1.jpg; 4217_2.jpg", row.Value(ColPhotoFilenames))
}

func TestNewRowResearcherComments(t *testing.T) {
	row := NewRow(seadragonObservation(), nil, RowOptions{ExportedAt: exportedAt})

	comments := row.Value(ColResearcherComments)
	assert.Contains(t, comments, "2025-06-01T09:30:00Z")
	assert.Contains(t, comments, "https://www.inaturalist.org/observations/4217")
}

func TestNewRowMissingFieldsBecomeEmptyCells(t *testing.T) {
	obs := &inaturalist.Observation{ID: 99}
	row := NewRow(obs, nil, RowOptions{ExportedAt: exportedAt})

	assert.Equal(t, "99", row.Value(ColObservationID))
	assert.Empty(t, row.Value(ColObservedOn))
	assert.Empty(t, row.Value(ColYear))
	assert.Empty(t, row.Value(ColMonth))
	assert.Empty(t, row.Value(ColDay))
	assert.Empty(t, row.Value(ColScientificName))
	assert.Empty(t, row.Value(ColGenus))
	assert.Empty(t, row.Value(ColSpecificEpithet))
	assert.Empty(t, row.Value(ColDecimalLatitude))
	assert.Empty(t, row.Value(ColDecimalLongitude))
	assert.Empty(t, row.Value(ColLivingStatus))
	assert.Empty(t, row.Value(ColObserver))
	assert.Equal(t, "0", row.Value(ColPhotoCount))
	assert.Empty(t, row.Value(ColPhotoFilenames))
}

func TestSplitScientificName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantGenus   string
		wantEpithet string
	}{
		{"binomial", "Phycodurus eques", "Phycodurus", "eques"},
		{"single token", "Phycodurus", "Phycodurus", ""},
		{"empty", "", "", ""},
		{"trinomial keeps first two", "Phyllopteryx taeniolatus australis", "Phyllopteryx", "taeniolatus"},
		{"extra whitespace", "  Phycodurus   eques  ", "Phycodurus", "eques"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genus, epithet := splitScientificName(tt.input)
			assert.Equal(t, tt.wantGenus, genus)
			assert.Equal(t, tt.wantEpithet, epithet)
		})
	}
}

func TestSplitDate(t *testing.T) {
	y, m, d := splitDate("2025-05-09")
	assert.Equal(t, "2025", y)
	assert.Equal(t, "5", m)
	assert.Equal(t, "9", d)

	y, m, d = splitDate("not-a-date")
	assert.Empty(t, y)
	assert.Empty(t, m)
	assert.Empty(t, d)

	y, m, d = splitDate("")
	assert.Empty(t, y)
	assert.Empty(t, m)
	assert.Empty(t, d)
}

func TestRowPhotosIsACopy(t *testing.T) {
	row := NewRow(seadragonObservation(), []string{"a.jpg"}, RowOptions{ExportedAt: exportedAt})

	photos := row.Photos()
	photos[0] = "mutated.jpg"

	assert.Equal(t, []string{"a.jpg"}, row.Photos())
}
