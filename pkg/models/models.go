// Package models defines the court hierarchy, request, and result types
// shared by the scraper and the download service.
package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation errors returned by request Validate methods.
var (
	// ErrMissingCode indicates a required hierarchy code was empty.
	ErrMissingCode = errors.New("required code is empty")

	// ErrInvalidDate indicates the date is not a valid YYYY-MM-DD value.
	ErrInvalidDate = errors.New("date must be a valid YYYY-MM-DD value")
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Court identifies one court inside a court complex. Courts are the
// work units of a bulk download.
type Court struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// State is one entry of the top hierarchy level.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// District is one entry of the second hierarchy level.
type District struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CourtComplex is one entry of the third hierarchy level.
type CourtComplex struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DownloadRequest asks for the cause list of one court on one date.
type DownloadRequest struct {
	StateCode    string `json:"state_code"`
	DistrictCode string `json:"district_code"`
	ComplexCode  string `json:"complex_code"`
	CourtCode    string `json:"court_code"`
	Date         string `json:"date"`
}

// Validate checks that all required codes are present and the date is
// a real YYYY-MM-DD date.
func (r *DownloadRequest) Validate() error {
	for _, code := range []string{r.StateCode, r.DistrictCode, r.ComplexCode} {
		if strings.TrimSpace(code) == "" {
			return ErrMissingCode
		}
	}
	return validateDate(r.Date)
}

// BulkDownloadRequest asks for the cause lists of every court in a
// complex on one date.
type BulkDownloadRequest struct {
	StateCode    string `json:"state_code"`
	DistrictCode string `json:"district_code"`
	ComplexCode  string `json:"complex_code"`
	Date         string `json:"date"`
}

// Validate checks that all required codes are present and the date is
// a real YYYY-MM-DD date.
func (r *BulkDownloadRequest) Validate() error {
	for _, code := range []string{r.StateCode, r.DistrictCode, r.ComplexCode} {
		if strings.TrimSpace(code) == "" {
			return ErrMissingCode
		}
	}
	return validateDate(r.Date)
}

func validateDate(date string) error {
	if !datePattern.MatchString(date) {
		return ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return nil
}

// DownloadResult records the outcome of one court's download. Results
// are immutable once produced; a bulk run yields exactly one per court.
type DownloadResult struct {
	Success      bool      `json:"success"`
	Filename     string    `json:"filename"`
	FileSize     int64     `json:"file_size"`
	DownloadURL  string    `json:"download_url"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// BulkDownloadResult aggregates all per-court results of a bulk run.
// Invariants once the run completes: SuccessfulDownloads +
// FailedDownloads == TotalFiles, len(DownloadResults) == TotalFiles,
// and Success is true iff at least one download succeeded.
type BulkDownloadResult struct {
	Success             bool             `json:"success"`
	Message             string           `json:"message,omitempty"`
	TotalFiles          int              `json:"total_files"`
	SuccessfulDownloads int              `json:"successful_downloads"`
	FailedDownloads     int              `json:"failed_downloads"`
	DownloadResults     []DownloadResult `json:"download_results"`
	ZipFilename         string           `json:"zip_filename,omitempty"`
	ZipDownloadURL      string           `json:"zip_download_url,omitempty"`
	Timestamp           time.Time        `json:"timestamp"`
}

// SanitizeFilename builds a standardized cause list filename from a
// court name, an optional court code, and a YYYY-MM-DD date. The court
// name is reduced to alphanumerics, spaces, dashes, and underscores,
// then truncated to 50 runes; dashes in the date become underscores so
// the name stays filesystem safe.
func SanitizeFilename(courtName, courtCode, date string) string {
	var b strings.Builder
	for _, r := range courtName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	clean := strings.Trim(b.String(), "_")
	if runes := []rune(clean); len(runes) > 50 {
		clean = string(runes[:50])
	}
	if clean == "" {
		clean = "causelist"
	}

	dateStr := strings.ReplaceAll(date, "-", "_")
	if courtCode != "" {
		return fmt.Sprintf("%s_%s_%s.pdf", clean, courtCode, dateStr)
	}
	return fmt.Sprintf("%s_%s.pdf", clean, dateStr)
}

// FallbackFilename names the synthetic result produced when a court's
// download fails before a real filename could be derived.
func FallbackFilename(courtCode, date string) string {
	if strings.TrimSpace(courtCode) == "" {
		courtCode = "unknown"
	}
	return fmt.Sprintf("court_%s_%s.pdf", courtCode, strings.ReplaceAll(date, "-", "_"))
}
