package pipeline

import (
	"context"

	"inatexport/pkg/inaturalist"
)

// Client defines the iNaturalist API operations the pipeline depends on
type Client interface {
	SearchTaxa(ctx context.Context, query string) (*inaturalist.TaxaResponse, error)
	SearchPlaces(ctx context.Context, query string) (*inaturalist.PlacesResponse, error)
	FetchObservations(ctx context.Context, q inaturalist.ObservationsQuery) (*inaturalist.ObservationsResponse, error)
	DownloadPhoto(ctx context.Context, url string) ([]byte, error)
}
