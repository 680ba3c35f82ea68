// Package export converts observations into the tabular output contract.
//
// The pipeline is two-pass: rows are normalized one observation at a
// time (NewRow), collected, and only then aggregated into a Table
// (BuildTable), because the number of Encounter.mediaAssetN columns is
// the maximum photo count across the whole dataset and cannot be known
// while streaming.
//
// Two export surfaces share the Table:
//   - WriteCSV / WriteCSVSelection write the delimited file directly.
//   - WriteReviewPage renders a self-contained HTML document with
//     per-row include/exclude checkboxes and a client-side
//     re-derivation of the same CSV restricted to checked rows. The
//     media-asset column count stays fixed at the full-dataset value,
//     so deselecting rows never changes the column set.
//
// ProjectCSV is the selection projection as a pure Go function; the
// page's embedded script mirrors it line for line, working from
// pre-rendered CSV records so toggling cannot alter cell values.
package export
