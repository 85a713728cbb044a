package domain

import "slices"

// GenreVocabulary is the sorted, de-duplicated set of genre tokens found in the dataset.
type GenreVocabulary struct {
	genres []string
}

// NewGenreVocabulary builds a vocabulary from any sequence of genre tokens. Duplicates are ignored.
func NewGenreVocabulary(genres ...string) GenreVocabulary {
	sorted := slices.Clone(genres)
	slices.Sort(sorted)
	return GenreVocabulary{genres: slices.Compact(sorted)}
}

// Contains reports whether genre belongs to the vocabulary.
func (v GenreVocabulary) Contains(genre string) bool {
	_, ok := slices.BinarySearch(v.genres, genre)
	return ok
}

// Index returns the position of genre in sorted order, or -1.
func (v GenreVocabulary) Index(genre string) int {
	i, ok := slices.BinarySearch(v.genres, genre)
	if !ok {
		return -1
	}
	return i
}

// Genres returns a copy of the genres in sorted order.
func (v GenreVocabulary) Genres() []string {
	return slices.Clone(v.genres)
}

// Len returns the number of distinct genres.
func (v GenreVocabulary) Len() int {
	return len(v.genres)
}

// GenreYearStat summarizes the movies of one genre released in one year.
// A row only exists when at least one movie matched, so every average is defined.
type GenreYearStat struct {
	Year                 int     `json:"year"`
	Genre                string  `json:"genre"`
	Total                int     `json:"total"`
	AvgRating            float64 `json:"avgRating"`
	AvgMetascore         float64 `json:"avgMetascore"`
	TotalRevenueMillions float64 `json:"totalRevenueMillions"`
}
