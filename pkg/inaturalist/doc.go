// Package inaturalist provides a client for the iNaturalist v1 API.
//
// This package includes:
//   - A configurable HTTP client with proper headers and error handling
//   - Type-safe models for taxa, places, observations, and photos
//   - Helper functions for constructing API endpoints
//   - Derivations over raw records (coordinates, living status, photo
//     size variants and extensions)
//
// Example usage:
//
//	client := inaturalist.NewClient(30*time.Second, log)
//
//	// Resolve a species name to a taxon
//	taxa, err := client.SearchTaxa(ctx, "leafy seadragon")
//	if err != nil {
//	    return err
//	}
//	taxon := inaturalist.BestMatch(taxa.Results, "leafy seadragon")
//
//	// Fetch one page of observations with photos
//	page, err := client.FetchObservations(ctx, inaturalist.ObservationsQuery{
//	    TaxonID: taxon.ID,
//	    D1:      "2025-05-01",
//	    Page:    1,
//	    PerPage: 200,
//	})
//
//	// Download the best available variant of a photo
//	data, err := client.DownloadPhoto(ctx, page.Results[0].Photos[0].SizeURL("original"))
//
// All network errors carry a typed *errors.Error so callers can decide
// between retrying, skipping, and aborting.
package inaturalist
