package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/genre-dashboard/internal/config"
	"github.com/Clark-Hu/genre-dashboard/internal/dashboard"
	"github.com/Clark-Hu/genre-dashboard/internal/domain"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
)

func testMovies() []domain.MovieRecord {
	return []domain.MovieRecord{
		{Title: "T1", Year: 2010, Genres: []string{"Action", "Drama"}, Rating: 7.0, Metascore: domain.Float64(70), RevenueMillions: domain.Float64(100.0)},
		{Title: "T2", Year: 2010, Genres: []string{"Action"}, Rating: 6.0, Metascore: domain.Float64(60), RevenueMillions: domain.Float64(50.0)},
		{Title: "T3", Year: 2011, Genres: []string{"Comedy"}, Rating: 8.0, Metascore: domain.Float64(80), RevenueMillions: domain.Float64(30.0)},
	}
}

func buildTestServer(tb testing.TB) *Server {
	tb.Helper()
	cfg := config.Config{
		Port:             "0",
		ReadTimeoutSecs:  15,
		WriteTimeoutSecs: 15,
		IdleTimeoutSecs:  60,
		PieCategoryCap:   7,
		TopN:             10,
	}
	srv, err := New(cfg, dashboard.NewSnapshot(testMovies()), nil, logger.Nop())
	require.NoError(tb, err)
	return srv
}

func doGet(t testing.TB, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleCharts_AllYears(t *testing.T) {
	srv := buildTestServer(t)

	for _, target := range []string{"/api/v1/charts?year=ALL", "/api/v1/charts"} {
		rec := doGet(t, srv, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var set domain.ChartSet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		assert.Equal(t, "ALL", set.Scope)
		assert.Equal(t, []string{"T3", "T2", "T1"}, set.TopRevenue.Labels)
		assert.Equal(t, []float64{30, 50, 100}, set.TopRevenue.Values)
		assert.Equal(t, []string{"Action", "Comedy", "Drama"}, set.Pie.Labels)
		assert.Equal(t, []string{"Action", "Drama", "Comedy"}, set.Revenue.Categories)
	}
}

func TestHandleCharts_SingleYear(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/api/v1/charts?year=2011")
	require.Equal(t, http.StatusOK, rec.Code)

	var set domain.ChartSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "2011", set.Scope)
	assert.Equal(t, []string{"Comedy"}, set.Pie.Labels)
	assert.Equal(t, []string{"T3"}, set.TopRevenue.Labels)
}

func TestHandleCharts_Errors(t *testing.T) {
	srv := buildTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{name: "unknown year", target: "/api/v1/charts?year=1999", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "malformed year", target: "/api/v1/charts?year=abc", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "negative year", target: "/api/v1/charts?year=-2010", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "summary unknown year", target: "/api/v1/summary?year=2030", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "charts page malformed year", target: "/charts?year=twenty", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "index unknown year", target: "/?year=1980", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, srv, tt.target)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestHandleYears(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/api/v1/years")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp yearsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{2010, 2011}, resp.Years)
	assert.Equal(t, []string{"Action", "Comedy", "Drama"}, resp.Genres)
	require.Len(t, resp.Options, 3)
	assert.Equal(t, yearOption{Value: "ALL", Label: "All Years"}, resp.Options[0])
	assert.Equal(t, "2010", resp.Options[1].Value)
}

func TestHandleSummary(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/api/v1/summary?year=2010")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2010", resp.Scope)
	assert.Equal(t, 3, resp.Dropped)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, domain.GenreYearStat{
		Year:                 2010,
		Genre:                "Action",
		Total:                2,
		AvgRating:            6.5,
		AvgMetascore:         65,
		TotalRevenueMillions: 150,
	}, resp.Rows[0])
	assert.Equal(t, "Drama", resp.Rows[1].Genre)
}

func TestHandleIndex(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/?year=2010")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	body := rec.Body.String()
	assert.Contains(t, body, `<option value="ALL">All Years</option>`)
	assert.Contains(t, body, `<option value="2010" selected>2010</option>`)
	assert.Contains(t, body, `<option value="2011">2011</option>`)
	assert.Contains(t, body, `src="/charts?year=2010"`)
	assert.Contains(t, body, "3 movies across 3 genres, 2010 to 2011")
}

func TestHandleChartsPage(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/charts?year=2010")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Movies by Genre (2010)")
	assert.Contains(t, body, "Revenue by Genre (2010)")
	assert.Contains(t, body, "Top 10 Most Profitable Movies by Year (2010)")
}

func TestHandleHealthz_WithoutStore(t *testing.T) {
	srv := buildTestServer(t)

	rec := doGet(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthResponse{Status: "ok", Movies: 3}, resp)
}

func TestServerStartStopsOnCancel(t *testing.T) {
	srv := buildTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func BenchmarkHandleCharts(b *testing.B) {
	srv := buildTestServer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doGet(b, srv, "/api/v1/charts?year=2010")
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
