package export

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

// ReviewFileName is the name of the review page in the output directory.
// The page references photos by relative path, so it must stay
// co-located with the photos/ directory.
const ReviewFileName = "review.html"

//go:embed review.tmpl
var reviewTemplateText string

var reviewTemplate = template.Must(template.New("review").Parse(reviewTemplateText))

// reviewRow is one observation as displayed on the review page
type reviewRow struct {
	ObservationID string
	Species       string
	ObservedOn    string
	Observer      string
	Locality      string
	QualityGrade  string
	URL           string
	Photos        []string
}

// payload is the embedded data the page's selection logic works from:
// the header line and one pre-rendered CSV line per row. Toggling only
// chooses which lines appear; values and column count never change.
type payload struct {
	Header      string       `json:"header"`
	Rows        []payloadRow `json:"rows"`
	CSVFileName string       `json:"csvFileName"`
}

type payloadRow struct {
	ID   string `json:"id"`
	Line string `json:"line"`
}

// reviewData is the root template context
type reviewData struct {
	GeneratedAt   string
	TotalRows     int
	ColumnCount   int
	MaxPhotoCount int
	Rows          []reviewRow
	Payload       template.JS
}

// WriteReviewPage renders the table into a self-contained interactive
// review document. photoRel maps a local photo filename to its path
// relative to the page. All selection state lives in the page itself;
// toggling rows triggers no network or filesystem I/O.
func WriteReviewPage(w io.Writer, t *Table, photoRel func(filename string) string, generatedAt time.Time) error {
	header, err := csvLine(t.Columns())
	if err != nil {
		return fmt.Errorf("failed to render CSV header: %w", err)
	}

	rows := make([]reviewRow, 0, t.Len())
	payloadRows := make([]payloadRow, 0, t.Len())

	for _, row := range t.Rows() {
		line, err := csvLine(t.Render(row))
		if err != nil {
			return fmt.Errorf("failed to render CSV row %s: %w", row.ObservationID(), err)
		}
		payloadRows = append(payloadRows, payloadRow{
			ID:   row.ObservationID(),
			Line: line,
		})

		photos := row.Photos()
		rels := make([]string, 0, len(photos))
		for _, p := range photos {
			rels = append(rels, photoRel(p))
		}

		species := row.Value(ColCommonName)
		if species == "" {
			species = row.Value(ColScientificName)
		}

		rows = append(rows, reviewRow{
			ObservationID: row.ObservationID(),
			Species:       species,
			ObservedOn:    row.Value(ColObservedOn),
			Observer:      row.Value(ColObserver),
			Locality:      row.Value(ColVerbatimLocality),
			QualityGrade:  row.Value(ColQualityGrade),
			URL:           row.Value(ColURL),
			Photos:        rels,
		})
	}

	payloadJSON, err := json.Marshal(payload{
		Header:      header,
		Rows:        payloadRows,
		CSVFileName: CSVFileName(generatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal review payload: %w", err)
	}

	data := reviewData{
		GeneratedAt:   generatedAt.UTC().Format(time.RFC3339),
		TotalRows:     t.Len(),
		ColumnCount:   len(t.Columns()),
		MaxPhotoCount: t.MaxPhotoCount(),
		Rows:          rows,
		Payload:       template.JS(payloadJSON),
	}

	var buf bytes.Buffer
	if err := reviewTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render review page: %w", err)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// csvLine renders one CSV record without a trailing newline
func csvLine(fields []string) (string, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(fields); err != nil {
		return "", err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
