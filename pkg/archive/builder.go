// Package archive builds zip archives from downloaded cause list
// files for bulk download delivery.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
)

// ErrNoFiles is returned when none of the given files could be added
// to the archive.
var ErrNoFiles = errors.New("no files available to archive")

var (
	archivesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecourts_archives_created_total",
		Help: "Total number of zip archives built, by outcome",
	}, []string{"outcome"})

	archiveBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecourts_archive_bytes",
		Help:    "Size of built zip archives in bytes",
		Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
	})
)

// Builder writes zip archives of downloaded files.
type Builder struct {
	logger zerolog.Logger
}

// NewBuilder creates an archive builder.
func NewBuilder() *Builder {
	return &Builder{
		logger: logging.NewLogger("archive"),
	}
}

// Build creates a deflate-compressed zip archive at zipPath containing
// the given files. Entry names are flattened to basenames. Files that
// no longer exist are skipped with a warning. If no file could be
// added, the archive is removed and ErrNoFiles is returned.
func (b *Builder) Build(paths []string, zipPath string) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		archivesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("creating archive file: %w", err)
	}

	zw := zip.NewWriter(f)
	added := 0
	for _, path := range paths {
		if err := b.addFile(zw, path); err != nil {
			if os.IsNotExist(err) {
				b.logger.Warn().Str("path", path).Msg("File missing, skipping archive entry")
				continue
			}
			zw.Close()
			f.Close()
			os.Remove(zipPath)
			archivesTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("adding %s to archive: %w", filepath.Base(path), err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(zipPath)
		archivesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(zipPath)
		archivesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("closing archive: %w", err)
	}

	if added == 0 {
		os.Remove(zipPath)
		archivesTotal.WithLabelValues("empty").Inc()
		return ErrNoFiles
	}

	info, err := os.Stat(zipPath)
	if err != nil || info.Size() == 0 {
		os.Remove(zipPath)
		archivesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("archive verification failed: %w", err)
	}

	archivesTotal.WithLabelValues("success").Inc()
	archiveBytes.Observe(float64(info.Size()))
	b.logger.Info().
		Str("archive", filepath.Base(zipPath)).
		Int("files", added).
		Int64("size", info.Size()).
		Msg("Archive created")
	return nil
}

// addFile writes one file into the archive under its basename.
func (b *Builder) addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
