package inaturalist

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL for the iNaturalist API
	BaseURL = "https://api.inaturalist.org/v1"

	// WebBaseURL is the base URL for the iNaturalist website
	WebBaseURL = "https://www.inaturalist.org"

	// TaxaEndpoint is the endpoint for taxon name search
	TaxaEndpoint = "/taxa"

	// PlacesEndpoint is the endpoint for place name autocomplete
	PlacesEndpoint = "/places/autocomplete"

	// ObservationsEndpoint is the endpoint for observation search
	ObservationsEndpoint = "/observations"

	// DefaultPerPage is the default page size for observation search
	DefaultPerPage = 200

	// MaxPerPage is the maximum page size accepted by the API
	MaxPerPage = 200
)

// TaxaSearchURL constructs the URL for a species-rank taxon name search
func TaxaSearchURL(baseURL, query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("rank", "species")

	return fmt.Sprintf("%s%s?%s", baseURL, TaxaEndpoint, params.Encode())
}

// PlacesSearchURL constructs the URL for a place name lookup
func PlacesSearchURL(baseURL, query string) string {
	params := url.Values{}
	params.Set("q", query)

	return fmt.Sprintf("%s%s?%s", baseURL, PlacesEndpoint, params.Encode())
}

// ObservationsQuery holds the server-side filters for one page of
// observation search results.
type ObservationsQuery struct {
	TaxonID int
	D1      string // observed on or after, YYYY-MM-DD
	D2      string // observed on or before, YYYY-MM-DD
	PlaceID int    // 0 means no place filter
	Page    int
	PerPage int
}

// ObservationsURL constructs the URL for one page of observation search
// results, ordered by observation id ascending for reproducibility and
// restricted to records with photos.
func ObservationsURL(baseURL string, q ObservationsQuery) string {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	} else if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("taxon_id", strconv.Itoa(q.TaxonID))
	if q.D1 != "" {
		params.Set("d1", q.D1)
	}
	if q.D2 != "" {
		params.Set("d2", q.D2)
	}
	if q.PlaceID > 0 {
		params.Set("place_id", strconv.Itoa(q.PlaceID))
	}
	params.Set("has[]", "photos")
	params.Set("quality_grade", "any")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("order_by", "id")
	params.Set("order", "asc")

	return fmt.Sprintf("%s%s?%s", baseURL, ObservationsEndpoint, params.Encode())
}

// ObservationURL constructs the public web URL for an observation
func ObservationURL(observationID int) string {
	return fmt.Sprintf("%s/observations/%d", WebBaseURL, observationID)
}
