// Package scraper implements the client for the eCourts portal. It
// resolves the state/district/complex/court hierarchy, downloads cause
// list PDFs, and falls back to synthetic data when the portal is not
// reachable and mock mode is enabled.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/cache"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
)

// Config holds the scraper configuration.
type Config struct {
	// BaseURL is the root URL of the ecourts portal.
	BaseURL string

	// Timeout is the timeout for individual portal requests.
	Timeout time.Duration

	// DownloadsDir is the directory where cause list files are stored.
	DownloadsDir string

	// MockMode enables synthetic fallback data when the portal is
	// unreachable, and synthetic cause list documents instead of
	// portal downloads.
	MockMode bool

	// Retry is the retry policy for portal requests.
	Retry RetryConfig

	// Cache is an optional cache manager for hierarchy lookups.
	// When nil, every lookup goes to the portal (or mock data).
	Cache *cache.Manager
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://services.ecourts.gov.in/ecourtindia_v6",
		Timeout:      30 * time.Second,
		DownloadsDir: "static/downloads",
		MockMode:     true,
		Retry:        DefaultRetryConfig(),
	}
}

// Scraper is the eCourts portal client.
type Scraper struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a Scraper from the given configuration.
func New(cfg Config) (*Scraper, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("scraper: BaseURL must not be empty")
	}
	if cfg.DownloadsDir == "" {
		return nil, errors.New("scraper: DownloadsDir must not be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Scraper{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logging.NewLogger("scraper"),
	}, nil
}

// option is the portal's wire representation of a dropdown entry.
type option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GetStates returns all states known to the portal.
func (s *Scraper) GetStates(ctx context.Context) ([]models.State, error) {
	key := cache.Key{Level: cache.LevelStates}

	var cached []models.State
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	opts, err := s.fetchOptions(ctx, "states", nil)
	if err != nil {
		if s.cfg.MockMode {
			s.logger.Warn().Err(err).Msg("Portal unreachable, using mock states")
			return mockStates(), nil
		}
		return nil, err
	}

	states := make([]models.State, 0, len(opts))
	for _, o := range opts {
		states = append(states, models.State{Code: o.Code, Name: o.Name})
	}
	s.cacheSet(ctx, key, states)
	return states, nil
}

// GetDistricts returns the districts of a state.
func (s *Scraper) GetDistricts(ctx context.Context, stateCode string) ([]models.District, error) {
	if stateCode == "" {
		return nil, errors.New("scraper: state code must not be empty")
	}
	key := cache.Key{Level: cache.LevelDistricts, Params: []string{stateCode}}

	var cached []models.District
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	opts, err := s.fetchOptions(ctx, "districts", url.Values{"state_code": {stateCode}})
	if err != nil {
		if s.cfg.MockMode {
			s.logger.Warn().Err(err).Str("state_code", stateCode).
				Msg("Portal unreachable, using mock districts")
			return mockDistricts(stateCode), nil
		}
		return nil, err
	}

	districts := make([]models.District, 0, len(opts))
	for _, o := range opts {
		districts = append(districts, models.District{Code: o.Code, Name: o.Name})
	}
	s.cacheSet(ctx, key, districts)
	return districts, nil
}

// GetCourtComplexes returns the court complexes of a district.
func (s *Scraper) GetCourtComplexes(ctx context.Context, stateCode, districtCode string) ([]models.CourtComplex, error) {
	if stateCode == "" || districtCode == "" {
		return nil, errors.New("scraper: state and district codes must not be empty")
	}
	key := cache.Key{Level: cache.LevelComplexes, Params: []string{stateCode, districtCode}}

	var cached []models.CourtComplex
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	opts, err := s.fetchOptions(ctx, "court_complexes", url.Values{
		"state_code":    {stateCode},
		"district_code": {districtCode},
	})
	if err != nil {
		if s.cfg.MockMode {
			s.logger.Warn().Err(err).Str("district_code", districtCode).
				Msg("Portal unreachable, using mock court complexes")
			return mockComplexes(districtCode), nil
		}
		return nil, err
	}

	complexes := make([]models.CourtComplex, 0, len(opts))
	for _, o := range opts {
		complexes = append(complexes, models.CourtComplex{Code: o.Code, Name: o.Name})
	}
	s.cacheSet(ctx, key, complexes)
	return complexes, nil
}

// GetCourts returns the individual courts within a court complex.
func (s *Scraper) GetCourts(ctx context.Context, complexCode string) ([]models.Court, error) {
	if complexCode == "" {
		return nil, errors.New("scraper: complex code must not be empty")
	}
	key := cache.Key{Level: cache.LevelCourts, Params: []string{complexCode}}

	var cached []models.Court
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	opts, err := s.fetchOptions(ctx, "courts", url.Values{"complex_code": {complexCode}})
	if err != nil {
		if s.cfg.MockMode {
			s.logger.Warn().Err(err).Str("complex_code", complexCode).
				Msg("Portal unreachable, using mock courts")
			return mockCourts(complexCode), nil
		}
		return nil, err
	}

	courts := make([]models.Court, 0, len(opts))
	for _, o := range opts {
		courts = append(courts, models.Court{Code: o.Code, Name: o.Name})
	}
	s.cacheSet(ctx, key, courts)
	return courts, nil
}

// DownloadCauseList fetches the cause list PDF for a single court and
// date and stores it under DownloadsDir/<date>/. Failures are reported
// in the returned result rather than as an error, so bulk callers can
// aggregate outcomes uniformly.
func (s *Scraper) DownloadCauseList(ctx context.Context, court models.Court, date string) models.DownloadResult {
	logger := s.logger.With().
		Str("court_code", court.Code).
		Str("date", date).
		Logger()

	filename := models.SanitizeFilename(court.Name, court.Code, date)
	dir := filepath.Join(s.cfg.DownloadsDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create download directory")
		return failedResult(court, date, fmt.Sprintf("failed to create download directory: %v", err))
	}
	path := filepath.Join(dir, filename)

	if s.cfg.MockMode {
		if err := writeSyntheticCauseList(path, court, date); err != nil {
			logger.Error().Err(err).Msg("Failed to write synthetic cause list")
			return failedResult(court, date, err.Error())
		}
		info, _ := os.Stat(path)
		var size int64
		if info != nil {
			size = info.Size()
		}
		logger.Info().Str("filename", filename).Int64("size", size).
			Msg("Synthetic cause list created")
		return successResult(filename, date, size)
	}

	size, err := s.fetchPDF(ctx, court.Code, date, path)
	if err != nil {
		var portalErr *PortalError
		if errors.As(err, &portalErr) {
			ErrorsTotal.WithLabelValues(string(portalErr.ErrorClass)).Inc()
		}
		logger.Error().Err(err).Msg("Cause list download failed")
		return failedResult(court, date, err.Error())
	}

	DownloadBytes.Observe(float64(size))
	logger.Info().Str("filename", filename).Int64("size", size).
		Msg("Cause list downloaded")
	return successResult(filename, date, size)
}

// fetchPDF downloads the cause list PDF for a court to path, returning
// the number of bytes written.
func (s *Scraper) fetchPDF(ctx context.Context, courtCode, date, path string) (int64, error) {
	// The portal expects DD-MM-YYYY in download URLs.
	portalDate := toPortalDate(date)
	reqURL := fmt.Sprintf("%s/causelist/pdf/%s/%s", s.cfg.BaseURL, courtCode, portalDate)

	var size int64
	err := retryWithBackoff(ctx, s.cfg.Retry, s.logger, func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			RequestsTotal.WithLabelValues("causelist", "error").Inc()
			return &PortalError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		RequestDuration.WithLabelValues("causelist").Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues("causelist", fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			return &PortalError{
				StatusCode: resp.StatusCode,
				ErrorClass: classifyStatus(resp.StatusCode),
				Message:    "cause list request failed",
			}
		}

		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, "text/html") {
			// The portal serves an HTML notice page instead of a 404
			// when no cause list exists for the date.
			return &PortalError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNotFound,
				Message:    ErrNoCauseList.Error(),
				Err:        ErrNoCauseList,
			}
		}

		size, err = writeToFile(path, resp.Body)
		if err != nil {
			return fmt.Errorf("writing cause list file: %w", err)
		}
		if size == 0 {
			os.Remove(path)
			return &PortalError{
				ErrorClass: ErrorClassNotFound,
				Message:    "portal returned an empty document",
				Err:        ErrNoCauseList,
			}
		}
		return nil
	})
	return size, err
}

// fetchOptions retrieves a dropdown option list from the portal.
func (s *Scraper) fetchOptions(ctx context.Context, endpoint string, params url.Values) ([]option, error) {
	reqURL := fmt.Sprintf("%s/api/%s", s.cfg.BaseURL, endpoint)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var opts []option
	err := retryWithBackoff(ctx, s.cfg.Retry, s.logger, func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			RequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return &PortalError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			return &PortalError{
				StatusCode: resp.StatusCode,
				ErrorClass: classifyStatus(resp.StatusCode),
				Message:    fmt.Sprintf("%s request failed", endpoint),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &PortalError{
				ErrorClass: ErrorClassNetwork,
				Message:    "reading response body",
				Err:        err,
			}
		}
		if err := json.Unmarshal(body, &opts); err != nil {
			return fmt.Errorf("unmarshaling %s response: %w", endpoint, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opts, nil
}

// cacheGet reads a hierarchy level from the cache. A miss or cache
// error is not fatal, the lookup simply proceeds to the portal.
func (s *Scraper) cacheGet(ctx context.Context, key cache.Key, dest any) bool {
	if s.cfg.Cache == nil {
		return false
	}
	err := s.cfg.Cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache read failed")
	}
	return false
}

// cacheSet writes a hierarchy level to the cache, best effort.
func (s *Scraper) cacheSet(ctx context.Context, key cache.Key, value any) {
	if s.cfg.Cache == nil {
		return
	}
	if err := s.cfg.Cache.Set(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache write failed")
	}
}

// writeToFile streams r to path, creating or truncating the file.
func writeToFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// toPortalDate converts an ISO date (YYYY-MM-DD) into the DD-MM-YYYY
// form the portal expects. Malformed inputs are returned unchanged;
// validation happens at request parsing.
func toPortalDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

func successResult(filename, date string, size int64) models.DownloadResult {
	return models.DownloadResult{
		Success:     true,
		Filename:    filename,
		FileSize:    size,
		DownloadURL: fmt.Sprintf("/downloads/%s/%s", date, filename),
		Timestamp:   time.Now(),
	}
}

func failedResult(court models.Court, date, message string) models.DownloadResult {
	return models.DownloadResult{
		Success:      false,
		Filename:     models.FallbackFilename(court.Code, date),
		ErrorMessage: message,
		Timestamp:    time.Now(),
	}
}
