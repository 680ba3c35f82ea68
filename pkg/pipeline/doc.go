// Package pipeline orchestrates the observation export run.
//
// One run processes species sequentially: each name is resolved to a
// taxon, its observations are fetched page by page within the date
// window, every photo is downloaded to local storage, and each
// observation becomes one normalized row. Rows from all species are
// aggregated into a single table and exported either as a CSV file or
// as an interactive review page.
//
// Failure policy:
//   - A species that cannot be resolved is logged and skipped; the
//     remaining species still run.
//   - A photo that fails to download is logged and skipped; the
//     observation keeps its remaining photos.
//   - An unwritable output directory, an unresolvable place filter, and
//     a page fetch that exhausts its retries abort the run.
//
// The pipeline issues one request at a time and waits a fixed interval
// between API requests, so upstream pacing is a hard guarantee rather
// than an average.
package pipeline
