// Package middleware provides the HTTP middleware chain of the web server:
// W3C Extended access logging, gzip compression and Prometheus request
// metrics.
package middleware
