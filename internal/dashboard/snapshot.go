package dashboard

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
	"github.com/Clark-Hu/genre-dashboard/internal/summary"
)

// ErrUnknownYear is returned for a selector naming a year absent from the dataset.
var ErrUnknownYear = errors.New("year not present in dataset")

// Snapshot is the immutable state built once at startup: the raw table, the genre
// vocabulary and the year x genre table. It is safe for concurrent readers.
type Snapshot struct {
	movies     []domain.MovieRecord
	vocabulary domain.GenreVocabulary
	years      []int
	stats      []domain.GenreYearStat
	dropped    int
}

// NewSnapshot copies movies and aggregates them.
func NewSnapshot(movies []domain.MovieRecord) *Snapshot {
	owned := slices.Clone(movies)
	res := summary.Build(owned)
	return &Snapshot{
		movies:     owned,
		vocabulary: res.Vocabulary,
		years:      res.Years,
		stats:      res.Stats,
		dropped:    res.Dropped,
	}
}

// Len returns the number of movies in the dataset.
func (s *Snapshot) Len() int {
	return len(s.movies)
}

// Years returns the distinct release years in ascending order.
func (s *Snapshot) Years() []int {
	return slices.Clone(s.years)
}

// Vocabulary returns the genre vocabulary.
func (s *Snapshot) Vocabulary() domain.GenreVocabulary {
	return s.vocabulary
}

// Dropped returns how many (year, genre) pairs had no defined averages.
func (s *Snapshot) Dropped() int {
	return s.dropped
}

// Stats returns a copy of the summary rows in scope. For the ALL selector this is every
// row of every year, not the per-genre totals used by the charts.
func (s *Snapshot) Stats(sel domain.YearSelector) ([]domain.GenreYearStat, error) {
	if err := s.Check(sel); err != nil {
		return nil, err
	}
	var out []domain.GenreYearStat
	for _, st := range s.stats {
		if sel.Matches(st.Year) {
			out = append(out, st)
		}
	}
	return out, nil
}

// Options returns the dropdown values: ALL first, then every year.
func (s *Snapshot) Options() []domain.YearSelector {
	out := make([]domain.YearSelector, 0, len(s.years)+1)
	out = append(out, domain.All())
	for _, y := range s.years {
		out = append(out, domain.Year(y))
	}
	return out
}

// Check reports ErrUnknownYear when sel names a year absent from the dataset.
func (s *Snapshot) Check(sel domain.YearSelector) error {
	if sel.IsAll() {
		return nil
	}
	if _, ok := slices.BinarySearch(s.years, sel.Year()); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownYear, sel.Year())
	}
	return nil
}
