// Package dashboard turns the immutable dataset snapshot into the chart payloads of one
// dropdown selection.
package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// OtherGenres labels the slice that collects genres below the category cap.
const OtherGenres = "Other genres"

// ErrUnknownGenre is returned when a summary row carries a genre outside the vocabulary.
var ErrUnknownGenre = errors.New("genre not present in vocabulary")

// Options tune chart preparation.
type Options struct {
	// CategoryCap is the maximum number of pie slices, the "Other genres" slice included.
	CategoryCap int
	// TopN is the length of the ranked revenue chart.
	TopN int
}

// DefaultOptions returns a cap of 7 slices and a top 10 ranking.
func DefaultOptions() Options {
	return Options{CategoryCap: 7, TopN: 10}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.CategoryCap <= 0 {
		o.CategoryCap = def.CategoryCap
	}
	if o.TopN <= 0 {
		o.TopN = def.TopN
	}
	return o
}

type genreTotal struct {
	genre   string
	total   int
	revenue float64
}

// scope is the working subset shared by the three chart builders.
type scope struct {
	sel    domain.YearSelector
	genres []genreTotal
	movies []domain.MovieRecord
}

// Render prepares the three chart payloads for sel. It never mutates snap and returns
// identical payloads for identical inputs.
func Render(snap *Snapshot, sel domain.YearSelector, opts Options) (domain.ChartSet, error) {
	opts = opts.normalized()
	sc, err := snap.scope(sel)
	if err != nil {
		return domain.ChartSet{}, err
	}
	return domain.ChartSet{
		Scope:      sel.Value(),
		Pie:        pieChart(sc, opts.CategoryCap),
		Revenue:    revenueChart(sc),
		TopRevenue: topRevenueChart(sc, opts.TopN),
	}, nil
}

// scope selects the summary rows and movies for sel. For ALL the rows are re-summed per genre
// across years; only totals and revenue survive that grouping.
func (s *Snapshot) scope(sel domain.YearSelector) (scope, error) {
	if err := s.Check(sel); err != nil {
		return scope{}, err
	}

	sc := scope{sel: sel}
	positions := make(map[string]int)
	for _, st := range s.stats {
		if !sel.Matches(st.Year) {
			continue
		}
		// Rows are built from the vocabulary; a miss means the snapshot was assembled by hand.
		if !s.vocabulary.Contains(st.Genre) {
			return scope{}, fmt.Errorf("%w: %q", ErrUnknownGenre, st.Genre)
		}
		i, ok := positions[st.Genre]
		if !ok {
			i = len(sc.genres)
			positions[st.Genre] = i
			sc.genres = append(sc.genres, genreTotal{genre: st.Genre})
		}
		sc.genres[i].total += st.Total
		sc.genres[i].revenue += st.TotalRevenueMillions
	}

	for _, m := range s.movies {
		if sel.Matches(m.Year) {
			sc.movies = append(sc.movies, m)
		}
	}
	return sc, nil
}

func pieChart(sc scope, categoryCap int) domain.PieData {
	rows := slices.Clone(sc.genres)
	slices.SortStableFunc(rows, func(a, b genreTotal) int {
		return cmp.Or(cmp.Compare(b.total, a.total), cmp.Compare(a.genre, b.genre))
	})

	pie := domain.PieData{
		Title:    fmt.Sprintf("Movies by Genre (%s)", sc.sel.Label()),
		Subtitle: humanize.Comma(int64(len(sc.movies))) + " movies",
		Labels:   make([]string, 0, len(rows)),
		Values:   make([]float64, 0, len(rows)),
	}

	// The threshold is the total of the last individually shown slot. Scopes with fewer rows
	// than that read the smallest row instead, so nothing collapses.
	collapse := categoryCap >= 2 && len(rows) > 0
	threshold := 0
	if collapse {
		threshold = rows[min(categoryCap-2, len(rows)-1)].total
	}

	var other int
	var hasOther bool
	for _, r := range rows {
		if collapse && r.total < threshold {
			other += r.total
			hasOther = true
			continue
		}
		pie.Labels = append(pie.Labels, r.genre)
		pie.Values = append(pie.Values, float64(r.total))
	}
	if hasOther {
		pie.Labels = append(pie.Labels, OtherGenres)
		pie.Values = append(pie.Values, float64(other))
	}
	return pie
}

func revenueChart(sc scope) domain.BarData {
	rows := slices.Clone(sc.genres)
	slices.SortStableFunc(rows, func(a, b genreTotal) int {
		return cmp.Or(cmp.Compare(b.revenue, a.revenue), cmp.Compare(a.genre, b.genre))
	})

	bar := domain.BarData{
		Title:      fmt.Sprintf("Revenue by Genre (%s)", sc.sel.Label()),
		Categories: make([]string, 0, len(rows)),
		Values:     make([]float64, 0, len(rows)),
		SeriesKey:  "Genre",
		ValueLabel: "Total Revenue (Millions $USD)",
	}
	for _, r := range rows {
		bar.Categories = append(bar.Categories, r.genre)
		bar.Values = append(bar.Values, roundCents(r.revenue))
	}

	var gross float64
	for _, m := range sc.movies {
		gross += m.Revenue()
	}
	bar.Subtitle = fmt.Sprintf("$%sM across %s titles", humanize.CommafWithDigits(roundCents(gross), 2), humanize.Comma(int64(len(sc.movies))))
	return bar
}

// topRevenueChart ranks by revenue descending, keeps the first n and flips them into
// ascending display order. Movies without revenue rank after every known revenue.
func topRevenueChart(sc scope, n int) domain.RankedBarData {
	ranked := slices.Clone(sc.movies)
	slices.SortStableFunc(ranked, func(a, b domain.MovieRecord) int {
		aKnown, bKnown := a.RevenueMillions != nil, b.RevenueMillions != nil
		if aKnown != bKnown {
			if aKnown {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(b.Revenue(), a.Revenue()), cmp.Compare(a.Title, b.Title))
	})
	ranked = ranked[:min(n, len(ranked))]
	slices.Reverse(ranked)

	top := domain.RankedBarData{
		Title:      fmt.Sprintf("Top %d Most Profitable Movies by Year (%s)", n, sc.sel.Label()),
		Labels:     make([]string, 0, len(ranked)),
		Values:     make([]float64, 0, len(ranked)),
		ValueLabel: "Revenue (Millions $USD)",
	}
	for _, m := range ranked {
		top.Labels = append(top.Labels, m.Title)
		top.Values = append(top.Values, m.Revenue())
	}
	return top
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
