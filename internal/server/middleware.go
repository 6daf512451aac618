package server

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"civicreport/internal/utils"

	"github.com/sirupsen/logrus"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

const (
	corsAllowedMethods = "GET, POST, OPTIONS"
	corsAllowedHeaders = "Content-Type, Authorization"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = utils.RequestID()
		}
		rw.Header().Set("X-Request-ID", requestID)

		entry := s.logger.WithField("request_id", requestID)
		ctx := context.WithValue(r.Context(), contextKeyLogger, entry)

		next.ServeHTTP(rw, r.WithContext(ctx))

		entry.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// CORSMiddleware answers cross-origin requests to the API for the configured
// origins, GET/POST/OPTIONS only.
func (s *Service) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)

		next.ServeHTTP(w, r)
	})
}

func (s *Service) allowedOrigin(origin string) string {
	if slices.Contains(s.config.CORSAllowedOrigins, "*") {
		return "*"
	}

	if origin != "" && slices.Contains(s.config.CORSAllowedOrigins, origin) {
		return origin
	}

	return ""
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// log returns the request scoped logger set by LoggingMiddleware.
func (s *Service) log(r *http.Request) *logrus.Entry {
	if entry, ok := r.Context().Value(contextKeyLogger).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(s.logger)
}
