package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// Required column names of the input table.
const (
	ColumnTitle     = "Title"
	ColumnYear      = "Year"
	ColumnGenre     = "Genre"
	ColumnRating    = "Rating"
	ColumnMetascore = "Metascore"
	ColumnRevenue   = "RevenueMillions"
)

var requiredColumns = []string{ColumnTitle, ColumnYear, ColumnGenre, ColumnRating, ColumnMetascore, ColumnRevenue}

// columnAliases maps alternative headers found in raw IMDB exports to canonical names.
var columnAliases = map[string]string{
	"Revenue (Millions)": ColumnRevenue,
}

// DataFormatError reports a malformed input table. Line is 1-based and 0 when the
// problem concerns the table as a whole.
type DataFormatError struct {
	Line   int
	Column string
	Reason string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("dataset: line %d, column %s: %s", e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("dataset: line %d: %s", e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("dataset: column %s: %s", e.Column, e.Reason)
	default:
		return "dataset: " + e.Reason
	}
}

// Decode reads a UTF-8 delimited table with a header row into movie records.
// A leading byte order mark is ignored.
func Decode(r io.Reader) ([]domain.MovieRecord, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataFormatError{Reason: "missing header row"}
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.MovieRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		line, _ := reader.FieldPos(0)
		record, err := decodeRow(row, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, dup := index[name]; dup {
			return nil, &DataFormatError{Line: 1, Column: name, Reason: "duplicate column"}
		}
		index[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &DataFormatError{Line: 1, Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}
	return index, nil
}

func decodeRow(row []string, index map[string]int, line int) (domain.MovieRecord, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	record := domain.MovieRecord{
		Title:  field(ColumnTitle),
		Genres: domain.SplitGenres(field(ColumnGenre)),
	}
	if record.Title == "" {
		return domain.MovieRecord{}, &DataFormatError{Line: line, Column: ColumnTitle, Reason: "title is empty"}
	}

	year, err := strconv.Atoi(field(ColumnYear))
	if err != nil || year <= 0 {
		return domain.MovieRecord{}, &DataFormatError{Line: line, Column: ColumnYear, Reason: fmt.Sprintf("invalid year %q", field(ColumnYear))}
	}
	record.Year = year

	rating, err := strconv.ParseFloat(field(ColumnRating), 64)
	if err != nil || math.IsNaN(rating) {
		return domain.MovieRecord{}, &DataFormatError{Line: line, Column: ColumnRating, Reason: fmt.Sprintf("invalid rating %q", field(ColumnRating))}
	}
	record.Rating = rating

	if record.Metascore, err = optionalFloat(field(ColumnMetascore)); err != nil {
		return domain.MovieRecord{}, &DataFormatError{Line: line, Column: ColumnMetascore, Reason: err.Error()}
	}
	if record.RevenueMillions, err = optionalFloat(field(ColumnRevenue)); err != nil {
		return domain.MovieRecord{}, &DataFormatError{Line: line, Column: ColumnRevenue, Reason: err.Error()}
	}
	return record, nil
}

// optionalFloat treats an empty cell (or the pandas-style NaN marker) as an absent value.
func optionalFloat(raw string) (*float64, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return &v, nil
}

func wrapCSVError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &DataFormatError{Line: parseErr.Line, Reason: parseErr.Err.Error()}
	}
	return fmt.Errorf("read dataset: %w", err)
}
