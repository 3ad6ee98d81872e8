package service

import (
	"log/slog"

	"a2admin/internal/audit"
	tenantmetrics "a2admin/internal/tenant/metrics"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger   *slog.Logger
	audit    *audit.Logger
	metrics  *tenantmetrics.Metrics
	notifier Notifier
	counter  RecordCounter
	loginURL string
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(c *serviceConfig) {
		c.audit = l
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithNotifier enables the welcome, activation and test emails.
func WithNotifier(n Notifier) Option {
	return func(c *serviceConfig) {
		c.notifier = n
	}
}

// WithRecordCounter enables sponsor and campaign counts in tenant details.
func WithRecordCounter(counter RecordCounter) Option {
	return func(c *serviceConfig) {
		c.counter = counter
	}
}

// WithLoginURL sets where identity provider emails send the user back to.
func WithLoginURL(url string) Option {
	return func(c *serviceConfig) {
		c.loginURL = url
	}
}
