package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `Rank,Title,Genre,Description,Director,Actors,Year,Runtime (Minutes),Rating,Votes,Revenue (Millions),Metascore
1,T1,"Action,Drama",d,dir,a,2010,120,7.0,100,100.0,70
2,T2,Action,d,dir,a,2010,100,6.0,100,50.0,60
3,T3,Comedy,d,dir,a,2011,90,8.0,100,30.0,80
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imdb-data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	t.Setenv("DATASET_PATH", writeDataset(t))

	out, err := execute(t, "summary", "--year", "2010")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "YEAR"))
	assert.Equal(t, []string{"2010", "Action", "2", "6.50", "65.00", "150"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2010", "Drama", "1", "7.00", "70.00", "100"}, strings.Fields(lines[2]))
	assert.Equal(t, "2 rows for 2010", lines[3])
}

func TestSummaryCommandAllYears(t *testing.T) {
	t.Setenv("DATASET_PATH", writeDataset(t))

	out, err := execute(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows for All Years")
	assert.Contains(t, out, "Comedy")
}

func TestSummaryCommandErrors(t *testing.T) {
	t.Setenv("DATASET_PATH", writeDataset(t))

	_, err := execute(t, "summary", "--year", "1999")
	assert.ErrorContains(t, err, "year not present in dataset")

	_, err = execute(t, "summary", "--year", "nineteen")
	assert.ErrorContains(t, err, "invalid year selector")
}

func TestSummaryCommandMissingDataset(t *testing.T) {
	t.Setenv("DATASET_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	_, err := execute(t, "summary")
	assert.ErrorContains(t, err, "open dataset")
}

func TestSummaryCommandConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dataset_path: "+writeDataset(t)+"\n"), 0o600))

	out, err := execute(t, "--config", cfgPath, "summary", "--year", "2011")
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows for 2011")
}

func TestImportRequiresDatabase(t *testing.T) {
	t.Setenv("DATASET_PATH", writeDataset(t))

	_, err := execute(t, "import")
	assert.ErrorIs(t, err, errNoDatabase)
}
