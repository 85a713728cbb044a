package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// Source loads the full movie table. It is called once at startup.
type Source interface {
	Load(ctx context.Context) ([]domain.MovieRecord, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]domain.MovieRecord, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) ([]domain.MovieRecord, error) {
	return f(ctx)
}

// FileSource reads the table from a local file.
type FileSource struct {
	Path string
}

// Load opens and decodes the file.
func (s FileSource) Load(ctx context.Context) ([]domain.MovieRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return records, nil
}
