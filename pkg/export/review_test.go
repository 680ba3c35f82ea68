package export

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photoRel(filename string) string {
	return path.Join("photos", filename)
}

func renderReview(t *testing.T, table *Table) string {
	t.Helper()
	var sb strings.Builder
	err := WriteReviewPage(&sb, table, photoRel, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return sb.String()
}

func TestWriteReviewPageRendersRows(t *testing.T) {
	table := BuildTable([]Row{
		rowWithPhotos(1, 1),
		rowWithPhotos(2, 3),
	})

	page := renderReview(t, table)

	assert.Contains(t, page, `data-id="1"`)
	assert.Contains(t, page, `data-id="2"`)
	assert.Contains(t, page, `src="photos/2_3.jpg"`)
}

func TestWriteReviewPageCheckboxesStartChecked(t *testing.T) {
	table := BuildTable([]Row{rowWithPhotos(1, 1), rowWithPhotos(2, 2)})

	page := renderReview(t, table)

	checkboxes := regexp.MustCompile(`<input type="checkbox" checked`).FindAllString(page, -1)
	assert.Len(t, checkboxes, 2)
}

func TestWriteReviewPagePayloadMatchesProjection(t *testing.T) {
	table := BuildTable([]Row{
		rowWithPhotos(1, 0),
		rowWithPhotos(2, 1),
		rowWithPhotos(3, 3),
	})

	page := renderReview(t, table)

	// Extract the embedded payload and rebuild the full CSV from it the
	// way the page's script does: header plus every selected line.
	m := regexp.MustCompile(`const DATA = (\{.*?\});`).FindStringSubmatch(page)
	require.NotNil(t, m, "payload not found in page")

	var data struct {
		Header string `json:"header"`
		Rows   []struct {
			ID   string `json:"id"`
			Line string `json:"line"`
		} `json:"rows"`
		CSVFileName string `json:"csvFileName"`
	}
	require.NoError(t, json.Unmarshal([]byte(m[1]), &data))
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "inat_observations_20250601_093000.csv", data.CSVFileName)

	lines := []string{data.Header}
	for _, r := range data.Rows {
		lines = append(lines, r.Line)
	}
	rebuilt := strings.Join(lines, "\n") + "\n"

	want, err := ProjectCSV(table, nil)
	require.NoError(t, err)
	assert.Equal(t, want, rebuilt)
}

func TestWriteReviewPagePayloadDeselection(t *testing.T) {
	table := BuildTable([]Row{
		rowWithPhotos(1, 1),
		rowWithPhotos(2, 3),
	})

	page := renderReview(t, table)

	m := regexp.MustCompile(`const DATA = (\{.*?\});`).FindStringSubmatch(page)
	require.NotNil(t, m)

	var data struct {
		Header string `json:"header"`
		Rows   []struct {
			ID   string `json:"id"`
			Line string `json:"line"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(m[1]), &data))

	// Dropping the widest row client-side leaves the other line untouched
	rebuilt := data.Header + "\n" + data.Rows[0].Line + "\n"

	want, err := ProjectCSV(table, Selection{"1": true})
	require.NoError(t, err)
	assert.Equal(t, want, rebuilt)
}

func TestWriteReviewPageIsSelfContained(t *testing.T) {
	table := BuildTable([]Row{rowWithPhotos(1, 1)})

	page := renderReview(t, table)

	// No external scripts or stylesheets; photos by relative path only
	assert.NotContains(t, page, `<script src=`)
	assert.NotContains(t, page, `<link rel="stylesheet"`)
	assert.NotContains(t, page, `src="http`)
}

func TestWriteReviewPageEmptyTable(t *testing.T) {
	table := BuildTable(nil)

	page := renderReview(t, table)

	assert.Contains(t, page, "0 observations")
	assert.NotContains(t, page, `<article`)
}
