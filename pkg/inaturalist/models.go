package inaturalist

import (
	"strconv"
	"strings"
)

// TaxaResponse represents the response from the taxa search endpoint
type TaxaResponse struct {
	TotalResults int     `json:"total_results"`
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	Results      []Taxon `json:"results"`
}

// Taxon represents a taxon record returned by the API
type Taxon struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"` // scientific name
	Rank                string `json:"rank"`
	PreferredCommonName string `json:"preferred_common_name"`
	MatchedTerm         string `json:"matched_term"`
}

// DisplayName returns the common name when known, the scientific name otherwise
func (t *Taxon) DisplayName() string {
	if t.PreferredCommonName != "" {
		return t.PreferredCommonName
	}
	return t.Name
}

// BestMatch selects the taxon that best matches the queried name: an
// exact case-insensitive match on common name wins, then an exact match
// on scientific name, then the first (top-ranked) result. Returns nil
// for an empty result set.
func BestMatch(taxa []Taxon, query string) *Taxon {
	if len(taxa) == 0 {
		return nil
	}

	for i := range taxa {
		if strings.EqualFold(taxa[i].PreferredCommonName, query) {
			return &taxa[i]
		}
	}
	for i := range taxa {
		if strings.EqualFold(taxa[i].Name, query) {
			return &taxa[i]
		}
	}
	return &taxa[0]
}

// PlacesResponse represents the response from the places autocomplete endpoint
type PlacesResponse struct {
	TotalResults int     `json:"total_results"`
	Results      []Place `json:"results"`
}

// Place represents a place record returned by the API
type Place struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// ObservationsResponse represents one page of observation search results
type ObservationsResponse struct {
	TotalResults int           `json:"total_results"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Results      []Observation `json:"results"`
}

// Observation represents a single sighting record
type Observation struct {
	ID           int          `json:"id"`
	ObservedOn   string       `json:"observed_on"`
	Location     string       `json:"location"` // "lat,lng"
	Geojson      *Geojson     `json:"geojson"`
	PlaceGuess   string       `json:"place_guess"`
	QualityGrade string       `json:"quality_grade"`
	User         *User        `json:"user"`
	Taxon        *Taxon       `json:"taxon"`
	Photos       []Photo      `json:"photos"`
	Annotations  []Annotation `json:"annotations"`
}

// Geojson holds point geometry with coordinates in lng,lat order
type Geojson struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// User represents the observer who submitted the record
type User struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

// Photo represents one photo attached to an observation. URL points at
// the square thumbnail; other sizes are derived by substitution.
type Photo struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Annotation is a controlled-vocabulary tag on an observation
type Annotation struct {
	ControlledAttributeID int `json:"controlled_attribute_id"`
	ControlledValueID     int `json:"controlled_value_id"`
}

// Controlled vocabulary IDs for the "Alive or Dead" annotation
const (
	attributeAliveOrDead = 17
	valueAlive           = 18
	valueDead            = 19
	valueCannotDetermine = 20
)

// Coordinates returns the observation's latitude and longitude as
// strings. The comma-separated location field is preferred; the geojson
// point (lng,lat order) is the fallback. Missing coordinates yield
// empty strings.
func (o *Observation) Coordinates() (lat, lng string) {
	if o.Location != "" {
		parts := strings.SplitN(o.Location, ",", 2)
		if len(parts) > 0 {
			lat = strings.TrimSpace(parts[0])
		}
		if len(parts) > 1 {
			lng = strings.TrimSpace(parts[1])
		}
		return lat, lng
	}

	if o.Geojson != nil && len(o.Geojson.Coordinates) >= 2 {
		lng = strconv.FormatFloat(o.Geojson.Coordinates[0], 'f', -1, 64)
		lat = strconv.FormatFloat(o.Geojson.Coordinates[1], 'f', -1, 64)
	}
	return lat, lng
}

// Observer returns the observer's login, or empty when absent
func (o *Observation) Observer() string {
	if o.User == nil {
		return ""
	}
	return o.User.Login
}

// ScientificName returns the taxon's scientific name, or empty when absent
func (o *Observation) ScientificName() string {
	if o.Taxon == nil {
		return ""
	}
	return o.Taxon.Name
}

// CommonName returns the taxon's preferred common name, or empty when absent
func (o *Observation) CommonName() string {
	if o.Taxon == nil {
		return ""
	}
	return o.Taxon.PreferredCommonName
}

// LivingStatus maps the "Alive or Dead" annotation to alive, dead, or
// empty when the annotation is absent or cannot be determined.
func (o *Observation) LivingStatus() string {
	for _, a := range o.Annotations {
		if a.ControlledAttributeID != attributeAliveOrDead {
			continue
		}
		switch a.ControlledValueID {
		case valueAlive:
			return "alive"
		case valueDead:
			return "dead"
		}
	}
	return ""
}

// SizeURL returns the URL for the given size variant (original, large,
// medium, small, square) of the photo.
func (p Photo) SizeURL(size string) string {
	return strings.Replace(p.URL, "square", size, 1)
}

// Extension derives the photo's file extension from its URL, falling
// back to jpg when the URL carries none or an implausible one.
func (p Photo) Extension() string {
	u := p.URL
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	i := strings.LastIndexByte(u, '.')
	if i < 0 {
		return "jpg"
	}
	ext := u[i+1:]
	if ext == "" || len(ext) > 4 || strings.ContainsAny(ext, "/.") {
		return "jpg"
	}
	return strings.ToLower(ext)
}
