package server

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"civicreport/internal/storage"
)

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	index, err := fs.ReadFile(publicFS, "public/index.html")
	if err != nil {
		s.log(r).WithError(err).Error("failed to read index page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := s.issues.Ping(ctx); err != nil {
		s.log(r).WithError(err).Error("health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if !storage.ValidName(name) {
		http.NotFound(w, r)
		return
	}

	blob, err := s.blobs.Get(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log(r).WithError(err).WithField("image", name).Error("failed to open upload")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}

	if _, err := io.Copy(w, blob.Body); err != nil {
		s.log(r).WithError(err).WithField("image", name).Warn("failed to stream upload")
	}
}
