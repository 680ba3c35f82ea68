package export

import "fmt"

// MediaAssetPrefix is the name prefix of the dynamic photo columns
const MediaAssetPrefix = "Encounter.mediaAsset"

// Table is a rectangular aggregation of normalized rows. The media-asset
// column count is a property of the whole dataset (the maximum photo
// count across all rows), so rows are collected first and rendered only
// once the full set is known.
type Table struct {
	rows          []Row
	maxPhotoCount int
}

// BuildTable aggregates rows into a table, computing the dynamic
// media-asset column width from the maximum photo count across rows.
func BuildTable(rows []Row) *Table {
	maxPhotoCount := 0
	for _, row := range rows {
		if n := row.PhotoCount(); n > maxPhotoCount {
			maxPhotoCount = n
		}
	}

	return &Table{
		rows:          rows,
		maxPhotoCount: maxPhotoCount,
	}
}

// Len returns the number of rows in the table
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the table's rows in insertion order
func (t *Table) Rows() []Row {
	return t.rows
}

// MaxPhotoCount returns the dynamic media-asset column count
func (t *Table) MaxPhotoCount() int {
	return t.maxPhotoCount
}

// Columns returns the full ordered column set: the fixed schema followed
// by MaxPhotoCount() media-asset columns.
func (t *Table) Columns() []string {
	columns := make([]string, 0, len(FixedColumns)+t.maxPhotoCount)
	columns = append(columns, FixedColumns...)
	for i := 0; i < t.maxPhotoCount; i++ {
		columns = append(columns, fmt.Sprintf("%s%d", MediaAssetPrefix, i))
	}
	return columns
}

// Render produces the row's cells against the full column set. Rows with
// fewer photos than the table maximum get empty media-asset cells.
func (t *Table) Render(row Row) []string {
	cells := make([]string, 0, len(FixedColumns)+t.maxPhotoCount)
	for _, column := range FixedColumns {
		cells = append(cells, row.Value(column))
	}

	photos := row.Photos()
	for i := 0; i < t.maxPhotoCount; i++ {
		if i < len(photos) {
			cells = append(cells, photos[i])
		} else {
			cells = append(cells, "")
		}
	}
	return cells
}
