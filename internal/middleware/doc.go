// Package middleware provides HTTP middleware for the gallery service.
//
// It includes:
//   - Access logging with log injection protection
//   - Prometheus request metrics with low-cardinality path labels
package middleware
