package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inatexport/pkg/inaturalist"
)

// Output column names. The fixed set and its order are the ingestion
// contract with the downstream wildlife data management system; the
// Encounter.* names are its import field names.
const (
	ColObservationID      = "observation_id"
	ColObservedOn         = "observed_on"
	ColYear               = "Encounter.year"
	ColMonth              = "Encounter.month"
	ColDay                = "Encounter.day"
	ColScientificName     = "scientific_name"
	ColGenus              = "Encounter.genus"
	ColSpecificEpithet    = "Encounter.specificEpithet"
	ColCommonName         = "common_name"
	ColDecimalLatitude    = "Encounter.decimalLatitude"
	ColDecimalLongitude   = "Encounter.decimalLongitude"
	ColVerbatimLocality   = "Encounter.verbatimLocality"
	ColLocationID         = "Encounter.locationID"
	ColLivingStatus       = "Encounter.livingStatus"
	ColSubmitterID        = "Encounter.submitterID"
	ColObserver           = "observer"
	ColQualityGrade       = "quality_grade"
	ColURL                = "url"
	ColResearcherComments = "Encounter.researcherComments"
	ColPhotoCount         = "photo_count"
	ColPhotoFilenames     = "photo_filenames"
)

// FixedColumns is the fixed part of the output schema, in header order.
// The dynamic Encounter.mediaAssetN columns follow it.
var FixedColumns = []string{
	ColObservationID,
	ColObservedOn,
	ColYear,
	ColMonth,
	ColDay,
	ColScientificName,
	ColGenus,
	ColSpecificEpithet,
	ColCommonName,
	ColDecimalLatitude,
	ColDecimalLongitude,
	ColVerbatimLocality,
	ColLocationID,
	ColLivingStatus,
	ColSubmitterID,
	ColObserver,
	ColQualityGrade,
	ColURL,
	ColResearcherComments,
	ColPhotoCount,
	ColPhotoFilenames,
}

// Row is one normalized observation record: a flat mapping of output
// column name to string value plus the ordered local photo filenames
// that feed the media-asset columns. Immutable after creation.
type Row struct {
	cells  map[string]string
	photos []string
}

// RowOptions carries the pass-through export fields
type RowOptions struct {
	LocationID  string
	SubmitterID string
	ExportedAt  time.Time
}

// NewRow normalizes one observation and its downloaded photo filenames
// into a flat output row. Malformed upstream fields become empty cells,
// never errors.
func NewRow(obs *inaturalist.Observation, photoFilenames []string, opts RowOptions) Row {
	lat, lng := obs.Coordinates()
	year, month, day := splitDate(obs.ObservedOn)
	genus, epithet := splitScientificName(obs.ScientificName())
	sourceURL := inaturalist.ObservationURL(obs.ID)

	photos := make([]string, len(photoFilenames))
	copy(photos, photoFilenames)

	cells := map[string]string{
		ColObservationID:      strconv.Itoa(obs.ID),
		ColObservedOn:         obs.ObservedOn,
		ColYear:               year,
		ColMonth:              month,
		ColDay:                day,
		ColScientificName:     obs.ScientificName(),
		ColGenus:              genus,
		ColSpecificEpithet:    epithet,
		ColCommonName:         obs.CommonName(),
		ColDecimalLatitude:    lat,
		ColDecimalLongitude:   lng,
		ColVerbatimLocality:   obs.PlaceGuess,
		ColLocationID:         opts.LocationID,
		ColLivingStatus:       obs.LivingStatus(),
		ColSubmitterID:        opts.SubmitterID,
		ColObserver:           obs.Observer(),
		ColQualityGrade:       obs.QualityGrade,
		ColURL:                sourceURL,
		ColResearcherComments: researcherComments(opts.ExportedAt, sourceURL),
		ColPhotoCount:         strconv.Itoa(len(photos)),
		ColPhotoFilenames:     strings.Join(photos, "; "),
	}

	return Row{cells: cells, photos: photos}
}

// Value returns the cell value for a column, empty for unknown columns
func (r Row) Value(column string) string {
	return r.cells[column]
}

// ObservationID returns the row's observation id cell
func (r Row) ObservationID() string {
	return r.cells[ColObservationID]
}

// PhotoCount returns the number of photo filenames on the row
func (r Row) PhotoCount() int {
	return len(r.photos)
}

// Photos returns a copy of the row's photo filenames in order
func (r Row) Photos() []string {
	out := make([]string, len(r.photos))
	copy(out, r.photos)
	return out
}

// splitDate splits a YYYY-MM-DD date into year, month, and day strings.
// Unparseable or absent dates yield empty components.
func splitDate(observedOn string) (year, month, day string) {
	t, err := time.Parse("2006-01-02", observedOn)
	if err != nil {
		return "", "", ""
	}
	return strconv.Itoa(t.Year()), strconv.Itoa(int(t.Month())), strconv.Itoa(t.Day())
}

// splitScientificName splits a binomial name into genus and specific
// epithet. A name with fewer than two tokens yields an empty epithet.
func splitScientificName(name string) (genus, epithet string) {
	tokens := strings.Fields(name)
	if len(tokens) > 0 {
		genus = tokens[0]
	}
	if len(tokens) > 1 {
		epithet = tokens[1]
	}
	return genus, epithet
}

// researcherComments builds the audit trail string stored with each
// encounter in the destination system.
func researcherComments(exportedAt time.Time, sourceURL string) string {
	return fmt.Sprintf("Imported from iNaturalist on %s. Source: %s",
		exportedAt.UTC().Format(time.RFC3339), sourceURL)
}
