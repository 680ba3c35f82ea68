package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"inatexport/pkg/config"
	errs "inatexport/pkg/errors"
	"inatexport/pkg/export"
	"inatexport/pkg/inaturalist"
	"inatexport/pkg/logger"
	"inatexport/pkg/ratelimit"
	"inatexport/pkg/retry"
	"inatexport/pkg/storage"
)

// Photo size variants, in preference order
const (
	sizeOriginal = "original"
	sizeLarge    = "large"
)

// Pipeline orchestrates one export run: taxon resolution, paginated
// observation retrieval, photo acquisition, normalization, and export.
// Everything runs on a single logical thread so the inter-request
// pacing contract holds.
type Pipeline struct {
	client  Client
	store   *storage.Manager
	limiter ratelimit.Limiter
	cfg     *config.Config
	logger  logger.Logger
	now     func() time.Time
}

// Result summarizes a completed run
type Result struct {
	SpeciesRequested int
	SpeciesSkipped   []string
	Observations     int
	PhotosDownloaded int
	PhotosFailed     int
	OutputPath       string
}

// New creates a Pipeline from configuration. The output directory is
// created here, before any network activity, so an unwritable
// destination fails immediately.
func New(cfg *config.Config) (*Pipeline, error) {
	log := logger.GetLogger()

	store, err := storage.NewManager(cfg.Export.OutputDir)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		client:  inaturalist.NewClient(cfg.Fetch.RequestTimeout, log),
		store:   store,
		limiter: ratelimit.NewInterval(cfg.RateLimit.Delay),
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}, nil
}

// Run executes the full pipeline and writes the export output. Failures
// scoped to one species, one observation, or one photo are logged and
// skipped; filesystem errors and exhausted page retries abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	d1, d2 := p.dateRange()
	result := &Result{SpeciesRequested: len(p.cfg.Fetch.Species)}

	p.logger.InfoWithFields("starting export run", map[string]interface{}{
		"species":    p.cfg.Fetch.Species,
		"date_from":  d1,
		"date_to":    d2,
		"output_dir": p.store.OutputDir(),
		"rate_limit": p.cfg.RateLimit.Delay,
	})

	placeID, err := p.resolvePlace(ctx)
	if err != nil {
		return nil, err
	}

	var rows []export.Row

	for _, name := range p.cfg.Fetch.Species {
		speciesRows, err := p.processSpecies(ctx, name, d1, d2, placeID, result)
		if err != nil {
			if errs.IsType(err, errs.ErrorTypeTaxonNotFound) {
				p.logger.WarnWithFields("species not found, skipping", map[string]interface{}{
					"species": name,
				})
				result.SpeciesSkipped = append(result.SpeciesSkipped, name)
				continue
			}
			return nil, fmt.Errorf("processing species %q: %w", name, err)
		}
		rows = append(rows, speciesRows...)
	}

	table := export.BuildTable(rows)
	result.Observations = table.Len()

	outputPath, err := p.export(table)
	if err != nil {
		return nil, err
	}
	result.OutputPath = outputPath

	p.logger.InfoWithFields("export run complete", map[string]interface{}{
		"observations":      result.Observations,
		"photos_downloaded": result.PhotosDownloaded,
		"photos_failed":     result.PhotosFailed,
		"species_skipped":   len(result.SpeciesSkipped),
		"output":            outputPath,
	})

	return result, nil
}

// processSpecies resolves one species name and fetches, downloads, and
// normalizes all its qualifying observations.
func (p *Pipeline) processSpecies(ctx context.Context, name, d1, d2 string, placeID int, result *Result) ([]export.Row, error) {
	taxon, err := p.resolveTaxon(ctx, name)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("resolved species", map[string]interface{}{
		"species":         name,
		"taxon_id":        taxon.ID,
		"scientific_name": taxon.Name,
		"common_name":     taxon.PreferredCommonName,
	})

	observations, err := p.fetchObservations(ctx, taxon, d1, d2, placeID)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("fetched observations", map[string]interface{}{
		"species": name,
		"count":   len(observations),
	})

	exportedAt := p.now()
	rows := make([]export.Row, 0, len(observations))

	for i := range observations {
		obs := &observations[i]

		// Photos are mandatory for downstream use; a record without
		// them never enters the table.
		if len(obs.Photos) == 0 {
			continue
		}

		filenames, failed := p.acquirePhotos(ctx, obs)
		result.PhotosDownloaded += len(filenames)
		result.PhotosFailed += failed

		rows = append(rows, export.NewRow(obs, filenames, export.RowOptions{
			LocationID:  p.cfg.Export.LocationID,
			SubmitterID: p.cfg.Export.SubmitterID,
			ExportedAt:  exportedAt,
		}))
	}

	return rows, nil
}

// resolveTaxon maps a species name to its best-matching species-rank taxon
func (p *Pipeline) resolveTaxon(ctx context.Context, name string) (*inaturalist.Taxon, error) {
	p.limiter.Wait()

	resp, err := retry.DoWithResult(func() (*inaturalist.TaxaResponse, error) {
		return p.client.SearchTaxa(ctx, name)
	}, p.retryConfig(ctx))
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeTransientFetch, 0, "taxa search for %q: %v", name, err)
	}

	match := inaturalist.BestMatch(resp.Results, name)
	if match == nil {
		return nil, errs.Newf(errs.ErrorTypeTaxonNotFound, 0, "no taxon matches %q", name)
	}

	return match, nil
}

// resolvePlace maps the configured place name to a place id, or 0 when
// no place filter is configured. A place that cannot be resolved aborts
// the run: silently dropping the filter would export misfiltered data.
func (p *Pipeline) resolvePlace(ctx context.Context) (int, error) {
	place := p.cfg.Fetch.Place
	if place == "" {
		return 0, nil
	}

	p.limiter.Wait()

	resp, err := retry.DoWithResult(func() (*inaturalist.PlacesResponse, error) {
		return p.client.SearchPlaces(ctx, place)
	}, p.retryConfig(ctx))
	if err != nil {
		return 0, errs.Newf(errs.ErrorTypeTransientFetch, 0, "place search for %q: %v", place, err)
	}

	if len(resp.Results) == 0 {
		return 0, errs.Newf(errs.ErrorTypePlaceNotFound, 0, "no place matches %q", place)
	}

	p.logger.InfoWithFields("resolved place filter", map[string]interface{}{
		"place":    place,
		"place_id": resp.Results[0].ID,
		"matched":  resp.Results[0].DisplayName,
	})

	return resp.Results[0].ID, nil
}

// fetchObservations retrieves all observation pages for a taxon within
// the date window, pacing between page requests and retrying each page
// a bounded number of times before failing the run.
func (p *Pipeline) fetchObservations(ctx context.Context, taxon *inaturalist.Taxon, d1, d2 string, placeID int) ([]inaturalist.Observation, error) {
	perPage := p.cfg.Fetch.PerPage
	var all []inaturalist.Observation

	for page := 1; ; page++ {
		p.limiter.Wait()

		query := inaturalist.ObservationsQuery{
			TaxonID: taxon.ID,
			D1:      d1,
			D2:      d2,
			PlaceID: placeID,
			Page:    page,
			PerPage: perPage,
		}

		resp, err := retry.DoWithResult(func() (*inaturalist.ObservationsResponse, error) {
			return p.client.FetchObservations(ctx, query)
		}, p.retryConfig(ctx))
		if err != nil {
			return nil, errs.Newf(errs.ErrorTypeTransientFetch, 0,
				"observations page %d for taxon %d: %v", page, taxon.ID, err)
		}

		all = append(all, resp.Results...)

		p.logger.DebugWithFields("fetched observations page", map[string]interface{}{
			"taxon_id": taxon.ID,
			"page":     page,
			"results":  len(resp.Results),
			"total":    resp.TotalResults,
		})

		// A short page is the terminal condition; the reported total is
		// a secondary guard against an upstream that pads pages.
		if len(resp.Results) < perPage {
			break
		}
		if resp.TotalResults > 0 && len(all) >= resp.TotalResults {
			break
		}
	}

	return all, nil
}

// acquirePhotos downloads every photo of an observation, preferring the
// original size and falling back to large. A failed photo is logged and
// skipped; the observation keeps its remaining photos.
func (p *Pipeline) acquirePhotos(ctx context.Context, obs *inaturalist.Observation) (filenames []string, failed int) {
	for i, photo := range obs.Photos {
		filename := storage.PhotoFileName(obs.ID, i+1, photo.Extension())

		if p.store.PhotoExists(filename) {
			filenames = append(filenames, filename)
			continue
		}

		data, err := p.downloadWithFallback(ctx, photo)
		if err != nil {
			p.logger.WarnWithFields("photo download failed, skipping", map[string]interface{}{
				"observation_id": obs.ID,
				"photo_id":       photo.ID,
				"ordinal":        i + 1,
				"error":          err.Error(),
			})
			failed++
			continue
		}

		if err := p.store.SavePhoto(bytes.NewReader(data), filename); err != nil {
			p.logger.WarnWithFields("photo save failed, skipping", map[string]interface{}{
				"observation_id": obs.ID,
				"filename":       filename,
				"error":          err.Error(),
			})
			failed++
			continue
		}

		filenames = append(filenames, filename)
	}

	return filenames, failed
}

// downloadWithFallback fetches the original size variant, then large
func (p *Pipeline) downloadWithFallback(ctx context.Context, photo inaturalist.Photo) ([]byte, error) {
	data, err := p.client.DownloadPhoto(ctx, photo.SizeURL(sizeOriginal))
	if err == nil {
		return data, nil
	}

	p.logger.DebugWithFields("original size unavailable, trying large", map[string]interface{}{
		"photo_id": photo.ID,
		"error":    err.Error(),
	})

	data, fallbackErr := p.client.DownloadPhoto(ctx, photo.SizeURL(sizeLarge))
	if fallbackErr != nil {
		return nil, errs.Newf(errs.ErrorTypePhotoDownload, 0,
			"photo %d: original: %v; large: %v", photo.ID, err, fallbackErr)
	}
	return data, nil
}

// export writes the table to the configured output surface
func (p *Pipeline) export(table *export.Table) (string, error) {
	generatedAt := p.now()

	if p.cfg.Export.Review {
		return p.store.WriteFile(export.ReviewFileName, func(w io.Writer) error {
			return export.WriteReviewPage(w, table, p.store.PhotoRelPath, generatedAt)
		})
	}

	return p.store.WriteFile(export.CSVFileName(generatedAt), func(w io.Writer) error {
		return export.WriteCSV(w, table)
	})
}

// retryConfig builds the per-request retry policy: bounded attempts
// with the same fixed delay the pacer uses.
func (p *Pipeline) retryConfig(ctx context.Context) *retry.Config {
	return &retry.Config{
		MaxAttempts: p.cfg.Retry.MaxAttempts,
		Delay:       p.cfg.RateLimit.Delay,
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Logger:      p.logger,
	}
}

// dateRange computes the observed-on window from the days-back setting
func (p *Pipeline) dateRange() (d1, d2 string) {
	end := p.now()
	start := end.AddDate(0, 0, -p.cfg.Fetch.DaysBack)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}
