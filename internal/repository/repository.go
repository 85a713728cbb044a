package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/genre-dashboard/internal/store"
)

// ErrEmpty indicates the movies table holds no imported dataset.
var ErrEmpty = errors.New("repository: no movies imported")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies *MoviesRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: &MoviesRepository{pool: pool},
	}
}
