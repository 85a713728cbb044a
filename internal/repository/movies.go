package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// MoviesRepository stores the dataset rows in source order.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

var copyColumns = []string{
	"position",
	"title",
	"release_year",
	"genres",
	"rating",
	"metascore",
	"revenue_millions",
}

const movieColumns = `
    title,
    release_year,
    genres,
    rating,
    metascore,
    revenue_millions
`

// Replace swaps the stored dataset for records inside one transaction and returns the
// number of rows written. Readers see either the old or the new dataset, never a mix.
func (r *MoviesRepository) Replace(ctx context.Context, records []domain.MovieRecord) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM movies`); err != nil {
		return 0, fmt.Errorf("clear movies: %w", err)
	}

	rows := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		m := records[i]
		genres := m.Genres
		if genres == nil {
			genres = []string{}
		}
		return []any{i, m.Title, m.Year, genres, m.Rating, m.Metascore, m.RevenueMillions}, nil
	})
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"movies"}, copyColumns, rows)
	if err != nil {
		return 0, fmt.Errorf("copy movies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// ListAll returns every stored movie in source order. An empty table yields ErrEmpty.
func (r *MoviesRepository) ListAll(ctx context.Context) ([]domain.MovieRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY position`, movieColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.MovieRecord
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmpty
	}
	return results, nil
}

// Count returns the number of stored movies.
func (r *MoviesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM movies`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanMovie(row pgx.Row) (domain.MovieRecord, error) {
	var movie domain.MovieRecord
	err := row.Scan(
		&movie.Title,
		&movie.Year,
		&movie.Genres,
		&movie.Rating,
		&movie.Metascore,
		&movie.RevenueMillions,
	)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	return movie, nil
}
