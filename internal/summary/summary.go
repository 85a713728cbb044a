// Package summary builds the per-year, per-genre statistics table from the raw movie table.
package summary

import (
	"slices"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// Result is the output of Build. Both fields are read-only after construction.
type Result struct {
	Vocabulary domain.GenreVocabulary
	Years      []int
	Stats      []domain.GenreYearStat
	// Dropped counts (year, genre) pairs without a defined average.
	Dropped int
}

// Build derives the genre vocabulary and the year x genre table.
//
// Every (year, genre) pair of the cross product is evaluated; a row is kept only when
// its rating average, metascore average and revenue total are all defined. A genre a
// movie is not tagged with never counts it, and a movie tagged with several genres
// counts once towards each of them. Rows are ordered by year, then genre.
func Build(movies []domain.MovieRecord) Result {
	var tokens []string
	byYear := make(map[int][]domain.MovieRecord)
	for _, m := range movies {
		tokens = append(tokens, m.Genres...)
		byYear[m.Year] = append(byYear[m.Year], m)
	}

	res := Result{Vocabulary: domain.NewGenreVocabulary(tokens...)}
	for year := range byYear {
		res.Years = append(res.Years, year)
	}
	slices.Sort(res.Years)

	genres := res.Vocabulary.Genres()
	for _, year := range res.Years {
		for _, genre := range genres {
			stat, ok := aggregate(year, genre, byYear[year])
			if !ok {
				res.Dropped++
				continue
			}
			res.Stats = append(res.Stats, stat)
		}
	}
	return res
}

type accumulator struct {
	total          int
	ratingSum      float64
	metascoreSum   float64
	metascoreCount int
	revenue        float64
}

func aggregate(year int, genre string, movies []domain.MovieRecord) (domain.GenreYearStat, bool) {
	var acc accumulator
	for _, m := range movies {
		if !m.HasGenre(genre) {
			continue
		}
		acc.total++
		acc.ratingSum += m.Rating
		if m.Metascore != nil {
			acc.metascoreSum += *m.Metascore
			acc.metascoreCount++
		}
		acc.revenue += m.Revenue()
	}

	// A missing metascore for every matching movie leaves the average undefined.
	if acc.total == 0 || acc.metascoreCount == 0 {
		return domain.GenreYearStat{}, false
	}

	return domain.GenreYearStat{
		Year:                 year,
		Genre:                genre,
		Total:                acc.total,
		AvgRating:            acc.ratingSum / float64(acc.total),
		AvgMetascore:         acc.metascoreSum / float64(acc.metascoreCount),
		TotalRevenueMillions: acc.revenue,
	}, true
}
