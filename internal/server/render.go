package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"civicreport/pkg/types"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log(r).WithError(err).Error("failed to encode response")
	}
}

// writeError maps err onto the client facing error body. Anything that is not
// a validation or media error is reported as an internal error and logged.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *types.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Error:   validationErr.Message,
			Missing: validationErr.Missing,
		})
	case errors.Is(err, types.ErrUnsupportedMedia):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid file type"})
	case errors.Is(err, types.ErrIssueNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Issue not found"})
	default:
		s.log(r).WithError(err).Error("request failed")
		s.internalServerError(w, r)
	}
}

func (s *Service) internalServerError(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}
