package scraper

import (
	"errors"
	"fmt"
)

// Common errors returned by the scraper.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrPortalUnavailable is returned when the portal cannot be reached
	// and synthetic fallback is disabled.
	ErrPortalUnavailable = errors.New("ecourts portal is not accessible")

	// ErrNoCauseList is returned when the portal has no cause list for
	// the requested court and date.
	ErrNoCauseList = errors.New("no cause list available for the selected date and court")
)

// ErrorClass represents a classification of portal errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassNotFound represents a court or date with no data.
	ErrorClassNotFound ErrorClass = "not_found"
)

// PortalError represents a portal-specific error with additional context.
type PortalError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *PortalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("portal %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("portal %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *PortalError) Unwrap() error {
	return e.Err
}

// classifyStatus categorizes an HTTP status code for handling and metrics.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == 404:
		return ErrorClassNotFound
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient, ErrorClassNotFound:
		// 4xx responses won't improve on retry
		return false
	case ErrorClassServer:
		return true
	case ErrorClassNetwork:
		return true
	default:
		return false
	}
}
