package domain

import "strings"

// MovieRecord is one row of the input dataset. Records are loaded once and never mutated.
type MovieRecord struct {
	Title           string   `json:"title"`
	Year            int      `json:"year"`
	Genres          []string `json:"genres"`
	Rating          float64  `json:"rating"`
	Metascore       *float64 `json:"metascore,omitempty"`
	RevenueMillions *float64 `json:"revenueMillions,omitempty"`
}

// HasGenre reports whether genre is one of the record's genre tokens.
func (m MovieRecord) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Revenue returns the revenue in millions, treating an absent value as zero.
func (m MovieRecord) Revenue() float64 {
	if m.RevenueMillions == nil {
		return 0
	}
	return *m.RevenueMillions
}

// GenreField joins the genre tokens back into their comma-separated source form.
func (m MovieRecord) GenreField() string {
	return strings.Join(m.Genres, GenreSeparator)
}

// GenreSeparator separates genre tokens inside the Genre column.
const GenreSeparator = ","

// SplitGenres turns a raw Genre field into trimmed, de-duplicated tokens in source order.
// An empty field yields an empty list.
func SplitGenres(field string) []string {
	parts := strings.Split(field, GenreSeparator)
	genres := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		g := strings.TrimSpace(p)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}

// Float64 returns a pointer to v, for optional metric fields.
func Float64(v float64) *float64 {
	return &v
}
