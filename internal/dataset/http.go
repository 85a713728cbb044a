package dataset

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

// ErrNotFound is returned when the remote host has no dataset at the configured URL.
var ErrNotFound = errors.New("dataset: not found")

// HTTPSource downloads the table from a remote URL.
type HTTPSource struct {
	endpoint *url.URL
	apiKey   string
	client   *http.Client
	logger   *zap.SugaredLogger
}

// NewHTTPSource constructs a remote source. apiKey, when non-empty, is sent as X-API-Key.
func NewHTTPSource(rawURL, apiKey string, timeout time.Duration, logger *zap.SugaredLogger) (*HTTPSource, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse dataset url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("parse dataset url: unsupported scheme %q", parsed.Scheme)
	}
	return &HTTPSource{
		endpoint: parsed,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Load fetches and decodes the remote table.
func (s *HTTPSource) Load(ctx context.Context) ([]domain.MovieRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		records, err := Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.endpoint.Redacted(), err)
		}
		return records, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		s.logger.Warnw("unexpected dataset status", "status", resp.StatusCode, "url", s.endpoint.Redacted())
		return nil, fmt.Errorf("dataset: upstream returned %d", resp.StatusCode)
	}
}
