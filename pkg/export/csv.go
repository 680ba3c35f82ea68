package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Selection maps observation id to inclusion. A nil Selection includes
// every row; a missing key excludes its row.
type Selection map[string]bool

// Included reports whether the row with the given observation id is in
// the selection.
func (s Selection) Included(observationID string) bool {
	if s == nil {
		return true
	}
	return s[observationID]
}

// WriteCSV serializes the full table as UTF-8 delimited text with a
// header row matching the table's column set.
func WriteCSV(w io.Writer, t *Table) error {
	return WriteCSVSelection(w, t, nil)
}

// WriteCSVSelection serializes the rows included in the selection. The
// column set stays fixed at the full table's width regardless of which
// rows are selected, so filtering changes rows, never columns.
func WriteCSVSelection(w io.Writer, t *Table, selected Selection) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range t.Rows() {
		if !selected.Included(row.ObservationID()) {
			continue
		}
		if err := cw.Write(t.Render(row)); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", row.ObservationID(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ProjectCSV derives the delimited content for a selection as a string.
// It is a pure function over (table, selection): the same projection the
// review page recomputes client-side on every toggle.
func ProjectCSV(t *Table, selected Selection) (string, error) {
	var sb strings.Builder
	if err := WriteCSVSelection(&sb, t, selected); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// CSVFileName returns the timestamped output filename for a run
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("inat_observations_%s.csv", now.Format("20060102_150405"))
}
