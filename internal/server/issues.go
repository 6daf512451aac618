package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"civicreport/pkg/types"
)

type issueResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Location    *string `json:"location"`
	Timestamp   string  `json:"timestamp"`
	Image       *string `json:"image"`
	Status      string  `json:"status"`
}

type listIssuesResponse struct {
	Issues     []issueResponse  `json:"issues"`
	Pagination types.Pagination `json:"pagination"`
}

// toIssueResponse rewrites the stored image name into its public path; an
// issue without an image keeps a null image.
func (s *Service) toIssueResponse(issue *types.Issue) issueResponse {
	out := issueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Type:        issue.Type,
		Latitude:    issue.Latitude,
		Longitude:   issue.Longitude,
		Location:    issue.Location,
		Timestamp:   issue.Timestamp.Format(time.RFC3339Nano),
		Status:      string(issue.Status),
	}

	if issue.Image != nil && *issue.Image != "" {
		path := s.config.ImagePath(*issue.Image)
		out.Image = &path
	}

	return out
}

func (s *Service) handleListIssues(w http.ResponseWriter, r *http.Request) {

	var params = new(listIssuesParams)
	if err := decoder.Decode(params, r.URL.Query()); err != nil {
		s.log(r).WithError(err).Info("rejected issue listing")
		s.writeError(w, r, types.NewInvalidPaginationError())
		return
	}

	filter, err := params.filter()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	issues, total, err := s.issues.Issues(ctx, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := listIssuesResponse{
		Issues:     make([]issueResponse, 0, len(issues)),
		Pagination: types.NewPagination(filter.Page, filter.PerPage, total),
	}
	for _, issue := range issues {
		out.Issues = append(out.Issues, s.toIssueResponse(issue))
	}

	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Service) handleGetIssue(w http.ResponseWriter, r *http.Request) {

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid issue id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	issue, err := s.issues.Issue(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, s.toIssueResponse(issue))
}
