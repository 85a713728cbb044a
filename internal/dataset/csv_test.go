package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Title,Year,Genre,Rating,Metascore,RevenueMillions
T1,2010,"Action,Drama",7.0,70,100.0
T2,2010,Action,6.0,60,50.0
T3,2011,Comedy,8.0,80,30.0
`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "T1", first.Title)
	assert.Equal(t, 2010, first.Year)
	assert.Equal(t, []string{"Action", "Drama"}, first.Genres)
	assert.InDelta(t, 7.0, first.Rating, 1e-9)
	require.NotNil(t, first.Metascore)
	assert.InDelta(t, 70.0, *first.Metascore, 1e-9)
	require.NotNil(t, first.RevenueMillions)
	assert.InDelta(t, 100.0, *first.RevenueMillions, 1e-9)
}

func TestDecode_RawIMDBHeaderWithBOM(t *testing.T) {
	raw := "\ufeffRank,Title,Genre,Description,Year,Rating,Votes,Revenue (Millions),Metascore\n" +
		"1,Guardians of the Galaxy,\"Action,Adventure,Sci-Fi\",A group,2014,8.1,757074,333.13,76\n" +
		"2,The Host,\"Comedy, Drama ,Comedy\",Quiet,2013,6.1,2000,,\n"

	records, err := Decode(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Action", "Adventure", "Sci-Fi"}, records[0].Genres)
	assert.InDelta(t, 333.13, records[0].Revenue(), 1e-9)

	assert.Equal(t, []string{"Comedy", "Drama"}, records[1].Genres)
	assert.Nil(t, records[1].Metascore)
	assert.Nil(t, records[1].RevenueMillions)
	assert.Zero(t, records[1].Revenue())
}

func TestDecode_EmptyGenreIsNotAnError(t *testing.T) {
	raw := "Title,Year,Genre,Rating,Metascore,RevenueMillions\nNo Genre,2012,,5.5,NaN,1.5\n"

	records, err := Decode(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Genres)
	assert.Nil(t, records[0].Metascore)
}

func TestDecode_FormatErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantColumn string
		wantReason string
	}{
		{
			name:       "empty input",
			input:      "",
			wantReason: "missing header row",
		},
		{
			name:       "missing columns",
			input:      "Title,Year,Genre\nA,2010,Action\n",
			wantLine:   1,
			wantReason: "Rating, Metascore, RevenueMillions",
		},
		{
			name:       "duplicate column",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions,Revenue (Millions)\n",
			wantLine:   1,
			wantColumn: ColumnRevenue,
		},
		{
			name:       "non integer year",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions\nA,20x0,Action,7,70,1\n",
			wantLine:   2,
			wantColumn: ColumnYear,
		},
		{
			name:       "bad rating",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions\nA,2010,Action,,70,1\n",
			wantLine:   2,
			wantColumn: ColumnRating,
		},
		{
			name:       "bad revenue",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions\nA,2010,Action,7,70,lots\n",
			wantLine:   2,
			wantColumn: ColumnRevenue,
		},
		{
			name:       "empty title",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions\n,2010,Action,7,70,1\n",
			wantLine:   2,
			wantColumn: ColumnTitle,
		},
		{
			name:       "wrong field count",
			input:      "Title,Year,Genre,Rating,Metascore,RevenueMillions\nA,2010,Action\n",
			wantLine:   2,
			wantReason: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)

			var formatErr *DataFormatError
			require.True(t, errors.As(err, &formatErr), "want DataFormatError, got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, formatErr.Line)
			if tt.wantColumn != "" {
				assert.Equal(t, tt.wantColumn, formatErr.Column)
			}
			if tt.wantReason != "" {
				assert.Contains(t, formatErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	records, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_WrapsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title\nA\n"), 0o600))

	_, err := FileSource{Path: path}.Load(context.Background())
	var formatErr *DataFormatError
	assert.True(t, errors.As(err, &formatErr))
}
