package services

import (
	"time"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// ServiceOption configures the shared parts of a service.
type ServiceOption func(*BaseService)

// WithClock replaces the UTC wall clock.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// WithMaxRetries bounds how often a unit of work is retried after a lost race.
func WithMaxRetries(n int) ServiceOption {
	return func(s *BaseService) {
		s.MaxRetries = n
	}
}

// WithReportInvalidation makes mutations drop the workplace's cached reports.
func WithReportInvalidation(reports portssvc.ReportingService) ServiceOption {
	return func(s *BaseService) {
		s.Reports = reports
	}
}

func applyOptions(s *BaseService, options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}
