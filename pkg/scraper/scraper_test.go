package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/internal/testutil"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
)

// fastRetry keeps test runs quick.
func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func newTestScraper(t *testing.T, portal *testutil.MockPortal, mockMode bool) *Scraper {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = portal.URL()
	cfg.DownloadsDir = t.TempDir()
	cfg.MockMode = mockMode
	cfg.Retry = fastRetry()

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func TestNew_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = ""
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for empty BaseURL")
	}

	cfg = DefaultConfig()
	cfg.DownloadsDir = ""
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for empty DownloadsDir")
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	cfg.Retry = RetryConfig{}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if s.httpClient.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", s.httpClient.Timeout)
	}
	if s.cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Expected default retry attempts 3, got %d", s.cfg.Retry.MaxAttempts)
	}
}

func TestGetStates(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	portal.SetResponse("/api/states", testutil.NewOptionsResponse(
		`[{"code":"1","name":"Delhi"},{"code":"2","name":"Maharashtra"}]`))

	s := newTestScraper(t, portal, false)
	states, err := s.GetStates(context.Background())
	if err != nil {
		t.Fatalf("GetStates() failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("Expected 2 states, got %d", len(states))
	}
	if states[0].Code != "1" || states[0].Name != "Delhi" {
		t.Errorf("Unexpected first state: %+v", states[0])
	}
}

func TestGetStates_MockFallback(t *testing.T) {
	portal := testutil.NewMockPortal()
	portal.SetResponse("/api/states", testutil.NewServerErrorResponse())
	defer portal.Close()

	s := newTestScraper(t, portal, true)
	states, err := s.GetStates(context.Background())
	if err != nil {
		t.Fatalf("GetStates() with mock fallback failed: %v", err)
	}
	if len(states) == 0 {
		t.Error("Expected mock states, got none")
	}
}

func TestGetStates_PortalError(t *testing.T) {
	portal := testutil.NewMockPortal()
	portal.SetResponse("/api/states", testutil.NewServerErrorResponse())
	defer portal.Close()

	s := newTestScraper(t, portal, false)
	_, err := s.GetStates(context.Background())
	if err == nil {
		t.Fatal("Expected error when portal fails and mock mode is off")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
}

func TestGetDistricts_RequiresStateCode(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	s := newTestScraper(t, portal, true)
	if _, err := s.GetDistricts(context.Background(), ""); err == nil {
		t.Error("Expected error for empty state code")
	}
}

func TestGetCourts(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	portal.SetResponse("/api/courts", testutil.NewOptionsResponse(
		`[{"code":"CMPX_C01","name":"District Judge Court"}]`))

	s := newTestScraper(t, portal, false)
	courts, err := s.GetCourts(context.Background(), "CMPX")
	if err != nil {
		t.Fatalf("GetCourts() failed: %v", err)
	}
	if len(courts) != 1 {
		t.Fatalf("Expected 1 court, got %d", len(courts))
	}
	if courts[0].Code != "CMPX_C01" {
		t.Errorf("Unexpected court code: %s", courts[0].Code)
	}
}

func TestGetCourts_MockFallback(t *testing.T) {
	portal := testutil.NewMockPortal()
	portal.SetResponse("/api/courts", testutil.NewServerErrorResponse())
	defer portal.Close()

	s := newTestScraper(t, portal, true)
	courts, err := s.GetCourts(context.Background(), "CMPX")
	if err != nil {
		t.Fatalf("GetCourts() with mock fallback failed: %v", err)
	}
	if len(courts) != 5 {
		t.Fatalf("Expected 5 mock courts, got %d", len(courts))
	}
	if courts[0].Code != "CMPX_C01" {
		t.Errorf("Expected mock code CMPX_C01, got %s", courts[0].Code)
	}
}

func TestDownloadCauseList_Success(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	portal.SetCauseListResponse("CMPX_C01", "29-08-2025",
		testutil.NewPDFResponse("%PDF-1.4 fake pdf content"))

	s := newTestScraper(t, portal, false)
	court := models.Court{Code: "CMPX_C01", Name: "District Judge Court"}

	result := s.DownloadCauseList(context.Background(), court, "2025-08-29")
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.ErrorMessage)
	}
	if result.Filename != "District_Judge_Court_CMPX_C01_2025_08_29.pdf" {
		t.Errorf("Unexpected filename: %s", result.Filename)
	}
	if result.FileSize == 0 {
		t.Error("Expected non-zero file size")
	}
	if result.DownloadURL != "/downloads/2025-08-29/"+result.Filename {
		t.Errorf("Unexpected download URL: %s", result.DownloadURL)
	}

	path := filepath.Join(s.cfg.DownloadsDir, "2025-08-29", result.Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Downloaded file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("Unexpected file content: %q", data)
	}
}

func TestDownloadCauseList_NoticePage(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	portal.SetCauseListResponse("CMPX_C01", "29-08-2025",
		testutil.NewNoticePageResponse())

	s := newTestScraper(t, portal, false)
	court := models.Court{Code: "CMPX_C01", Name: "District Judge Court"}

	result := s.DownloadCauseList(context.Background(), court, "2025-08-29")
	if result.Success {
		t.Fatal("Expected failure for HTML notice page")
	}
	if result.Filename != "court_CMPX_C01_2025_08_29.pdf" {
		t.Errorf("Expected fallback filename, got %s", result.Filename)
	}
	if !strings.Contains(result.ErrorMessage, "no cause list available") {
		t.Errorf("Unexpected error message: %s", result.ErrorMessage)
	}
	// Not-found responses must not be retried.
	if n := portal.GetRequestCount(); n != 1 {
		t.Errorf("Expected 1 request, got %d", n)
	}
}

func TestDownloadCauseList_MockMode(t *testing.T) {
	portal := testutil.NewMockPortal()
	defer portal.Close()

	s := newTestScraper(t, portal, true)
	court := models.Court{Code: "CMPX_C02", Name: "Civil Judge Senior Division"}

	result := s.DownloadCauseList(context.Background(), court, "2025-08-29")
	if !result.Success {
		t.Fatalf("Expected success in mock mode, got: %s", result.ErrorMessage)
	}

	path := filepath.Join(s.cfg.DownloadsDir, "2025-08-29", result.Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Synthetic file missing: %v", err)
	}
	if !strings.Contains(string(data), "CAUSE LIST") {
		t.Error("Synthetic file missing cause list header")
	}
	if !strings.Contains(string(data), court.Name) {
		t.Error("Synthetic file missing court name")
	}
	// No portal requests happen in mock mode.
	if n := portal.GetRequestCount(); n != 0 {
		t.Errorf("Expected 0 portal requests in mock mode, got %d", n)
	}
}

func TestRetryWithBackoff_RetriesServerErrors(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), fastRetry(), logging.NewLogger("test"), func() error {
		attempts++
		if attempts < 2 {
			return &PortalError{StatusCode: 503, ErrorClass: ErrorClassServer, Message: "unavailable"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_ClientErrorNotRetried(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), fastRetry(), logging.NewLogger("test"), func() error {
		attempts++
		return &PortalError{StatusCode: 400, ErrorClass: ErrorClassClient, Message: "bad request"}
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Client errors should fail immediately, not exhaust retries")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, fastRetry(), logging.NewLogger("test"), func() error {
		return &PortalError{ErrorClass: ErrorClassNetwork, Message: "timeout"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{404, ErrorClassNotFound},
		{400, ErrorClassClient},
		{403, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
		{200, ErrorClass("")},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassServer, true},
		{ErrorClassNetwork, true},
		{ErrorClassClient, false},
		{ErrorClassNotFound, false},
	}

	for _, tt := range tests {
		if got := shouldRetry(tt.class); got != tt.want {
			t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestToPortalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-08-29", "29-08-2025"},
		{"2025-01-05", "05-01-2025"},
		{"invalid", "invalid"},
	}

	for _, tt := range tests {
		if got := toPortalDate(tt.in); got != tt.want {
			t.Errorf("toPortalDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMockCourts(t *testing.T) {
	courts := mockCourts("X")
	if len(courts) != 5 {
		t.Fatalf("Expected 5 courts, got %d", len(courts))
	}
	if courts[0].Code != "X_C01" || courts[4].Code != "X_C05" {
		t.Errorf("Unexpected court codes: %s .. %s", courts[0].Code, courts[4].Code)
	}
	for _, c := range courts {
		if c.Name == "" {
			t.Errorf("Court %s has empty name", c.Code)
		}
	}
}
