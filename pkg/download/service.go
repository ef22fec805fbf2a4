// Package download orchestrates cause list downloads: single courts,
// bulk runs across every court of a complex, and the background
// sessions that track them.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/archive"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/progress"
)

// PortalClient is the part of the scraper the download service needs:
// court discovery within a complex and single cause list downloads.
type PortalClient interface {
	GetCourts(ctx context.Context, complexCode string) ([]models.Court, error)
	DownloadCauseList(ctx context.Context, court models.Court, date string) models.DownloadResult
}

// Config holds the download service configuration.
type Config struct {
	// MaxWorkers bounds the number of concurrent court downloads in a
	// bulk run.
	MaxWorkers int

	// DownloadsDir is the directory where cause list files and zip
	// archives are stored.
	DownloadsDir string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:   3,
		DownloadsDir: "static/downloads",
	}
}

// Service downloads cause lists through a portal client and packages
// bulk results into zip archives.
type Service struct {
	portal  PortalClient
	builder *archive.Builder
	cfg     Config
	logger  zerolog.Logger
}

// NewService creates a download service.
func NewService(portal PortalClient, cfg Config) *Service {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = "static/downloads"
	}
	return &Service{
		portal:  portal,
		builder: archive.NewBuilder(),
		cfg:     cfg,
		logger:  logging.NewLogger("download-service"),
	}
}

// DownloadSingle fetches the cause list of one court. The court name
// is resolved from the complex listing when available so the stored
// filename is descriptive.
func (s *Service) DownloadSingle(ctx context.Context, req models.DownloadRequest) models.DownloadResult {
	court := models.Court{Code: req.CourtCode, Name: req.CourtCode}
	if courts, err := s.portal.GetCourts(ctx, req.ComplexCode); err == nil {
		for _, c := range courts {
			if c.Code == req.CourtCode {
				court = c
				break
			}
		}
	}

	result := s.portal.DownloadCauseList(ctx, court, req.Date)
	if result.Success {
		DownloadsTotal.WithLabelValues("success").Inc()
	} else {
		DownloadsTotal.WithLabelValues("failure").Inc()
	}
	return result
}

// outcome pairs a court with its download result so the harvester can
// report progress by court name.
type outcome struct {
	court  models.Court
	result models.DownloadResult
}

// DownloadBulk downloads the cause lists of every court in the
// requested complex using a bounded worker pool and packages the
// successful files into a zip archive. Per-court failures, including
// panics inside a download, become failed results; the run itself only
// fails when no court yields a file. onProgress, when non-nil, is
// notified after every court.
func (s *Service) DownloadBulk(ctx context.Context, req models.BulkDownloadRequest, onProgress progress.Observer) models.BulkDownloadResult {
	start := time.Now()
	logger := s.logger.With().
		Str("complex_code", req.ComplexCode).
		Str("date", req.Date).
		Logger()

	courts := s.discoverCourts(ctx, req.ComplexCode)
	tracker := progress.NewTracker(len(courts))
	if onProgress != nil {
		tracker.AddObserver(onProgress)
	}

	if len(courts) == 0 {
		logger.Warn().Msg("No courts found in complex")
		BulkDownloadsTotal.WithLabelValues("empty").Inc()
		return models.BulkDownloadResult{
			Success:   false,
			Message:   "no courts found in the selected complex",
			Timestamp: time.Now(),
		}
	}

	logger.Info().Int("courts", len(courts)).Msg("Starting bulk download")

	workers := s.cfg.MaxWorkers
	if workers > len(courts) {
		workers = len(courts)
	}

	jobs := make(chan models.Court, len(courts))
	results := make(chan outcome, len(courts))

	for _, court := range courts {
		jobs <- court
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.worker(ctx, req.Date, jobs, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Harvest in completion order.
	all := make([]models.DownloadResult, 0, len(courts))
	successful := 0
	for out := range results {
		tracker.Update(out.court.Name, out.result.Success)
		all = append(all, out.result)
		if out.result.Success {
			successful++
			DownloadsTotal.WithLabelValues("success").Inc()
		} else {
			DownloadsTotal.WithLabelValues("failure").Inc()
		}
	}

	failed := len(all) - successful
	result := models.BulkDownloadResult{
		Success:             successful > 0,
		TotalFiles:          len(all),
		SuccessfulDownloads: successful,
		FailedDownloads:     failed,
		DownloadResults:     all,
		Timestamp:           time.Now(),
	}

	if successful > 0 {
		zipName, zipURL := s.buildArchive(req, all)
		result.ZipFilename = zipName
		result.ZipDownloadURL = zipURL
		result.Message = fmt.Sprintf("downloaded %d of %d cause lists", successful, len(all))
		BulkDownloadsTotal.WithLabelValues("success").Inc()
	} else {
		result.Message = "all downloads failed"
		BulkDownloadsTotal.WithLabelValues("failure").Inc()
	}

	BulkDownloadDuration.Observe(time.Since(start).Seconds())
	logger.Info().
		Int("successful", successful).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Bulk download finished")
	return result
}

// worker drains the job queue, containing panics from individual
// downloads so one bad court cannot take down the run.
func (s *Service) worker(ctx context.Context, date string, jobs <-chan models.Court, results chan<- outcome, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for court := range jobs {
		select {
		case <-ctx.Done():
			s.logger.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		results <- outcome{
			court:  court,
			result: s.fetchOne(ctx, court, date),
		}
	}
}

// fetchOne downloads one court's cause list, converting panics into
// failed results.
func (s *Service) fetchOne(ctx context.Context, court models.Court, date string) (result models.DownloadResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Str("court_code", court.Code).
				Msg("Download panicked")
			result = models.DownloadResult{
				Success:      false,
				Filename:     models.FallbackFilename(court.Code, date),
				ErrorMessage: fmt.Sprintf("internal error: %v", r),
				Timestamp:    time.Now(),
			}
		}
	}()
	return s.portal.DownloadCauseList(ctx, court, date)
}

// discoverCourts lists the courts of a complex. Discovery failures are
// logged and yield an empty work set.
func (s *Service) discoverCourts(ctx context.Context, complexCode string) []models.Court {
	courts, err := s.portal.GetCourts(ctx, complexCode)
	if err != nil {
		s.logger.Error().Err(err).
			Str("complex_code", complexCode).
			Msg("Court discovery failed")
		return nil
	}
	return courts
}

// buildArchive zips the successfully downloaded files. Archive errors
// do not fail the bulk run; the per-court files remain downloadable.
func (s *Service) buildArchive(req models.BulkDownloadRequest, all []models.DownloadResult) (string, string) {
	paths := make([]string, 0, len(all))
	for _, r := range all {
		if r.Success {
			paths = append(paths, filepath.Join(s.cfg.DownloadsDir, req.Date, r.Filename))
		}
	}

	zipName := fmt.Sprintf("bulk_download_%s_%s.zip",
		req.ComplexCode, strings.ReplaceAll(req.Date, "-", "_"))
	zipPath := filepath.Join(s.cfg.DownloadsDir, zipName)

	if err := s.builder.Build(paths, zipPath); err != nil {
		s.logger.Error().Err(err).Str("archive", zipName).Msg("Archive build failed")
		return "", ""
	}
	return zipName, "/downloads/" + zipName
}

// CleanupOldFiles removes downloaded files and archives older than
// maxAge, then prunes empty date directories. It returns the number of
// files removed.
func (s *Service) CleanupOldFiles(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(s.cfg.DownloadsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove old file")
				return nil
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleaning old files: %w", err)
	}

	// Prune date directories left empty by the sweep.
	entries, err := os.ReadDir(s.cfg.DownloadsDir)
	if err != nil {
		return removed, nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.cfg.DownloadsDir, e.Name())
		if sub, err := os.ReadDir(dir); err == nil && len(sub) == 0 {
			os.Remove(dir)
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Old download files cleaned up")
	}
	return removed, nil
}

// Stats summarizes the contents of the downloads directory.
type Stats struct {
	TotalFiles int   `json:"total_files"`
	Archives   int   `json:"archives"`
	TotalBytes int64 `json:"total_bytes"`
}

// Statistics reports how many files and archives are currently stored
// and their combined size.
func (s *Service) Statistics() (Stats, error) {
	var stats Stats
	err := filepath.Walk(s.cfg.DownloadsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		stats.TotalFiles++
		stats.TotalBytes += info.Size()
		if strings.HasSuffix(path, ".zip") {
			stats.Archives++
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("collecting download statistics: %w", err)
	}
	return stats, nil
}
