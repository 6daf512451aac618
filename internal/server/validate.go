package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"civicreport/internal/storage"
	"civicreport/pkg/types"
)

type reportForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Type        string `form:"type"`
	Latitude    string `form:"latitude"`
	Longitude   string `form:"longitude"`
}

func (f *reportForm) missingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"title", f.Title},
		{"description", f.Description},
		{"type", f.Type},
		{"latitude", f.Latitude},
		{"longitude", f.Longitude},
	}

	var missing []string
	for _, field := range fields {
		if !required(field.value) {
			missing = append(missing, field.name)
		}
	}

	return missing
}

// validateReport checks a submission in a fixed order: required fields, the
// attachment extension (when attachmentName is not empty), then coordinates.
func validateReport(f *reportForm, attachmentName string, allowedExtensions []string) (*types.NewIssue, error) {
	if missing := f.missingFields(); len(missing) > 0 {
		return nil, types.NewMissingFieldsError(missing)
	}

	if attachmentName != "" && !storage.AllowedExtension(attachmentName, allowedExtensions) {
		return nil, types.ErrUnsupportedMedia
	}

	latitude, err := parseCoordinate(f.Latitude)
	if err != nil {
		return nil, err
	}

	longitude, err := parseCoordinate(f.Longitude)
	if err != nil {
		return nil, err
	}

	return &types.NewIssue{
		Title:       f.Title,
		Description: f.Description,
		Type:        f.Type,
		Latitude:    latitude,
		Longitude:   longitude,
		Location:    fmt.Sprintf("%s, %s", strings.TrimSpace(f.Latitude), strings.TrimSpace(f.Longitude)),
	}, nil
}

func parseCoordinate(v string) (float64, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, types.NewInvalidCoordinatesError()
	}
	return c, nil
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

type listIssuesParams struct {
	Page    *int64 `form:"page"`
	PerPage *int64 `form:"per_page"`
	Type    string `form:"type"`
	Status  string `form:"status"`
}

// filter applies the pagination defaults and rejects pages or page sizes
// below one, and pages whose offset would overflow.
func (p *listIssuesParams) filter() (types.IssueFilter, error) {
	page, perPage := int64(types.DefaultPage), int64(types.DefaultPerPage)
	if p.Page != nil {
		page = *p.Page
	}
	if p.PerPage != nil {
		perPage = *p.PerPage
	}

	if page < 1 || perPage < 1 {
		return types.IssueFilter{}, types.NewInvalidPaginationError()
	}

	// The row offset has to fit the BIGINT Postgres accepts for OFFSET.
	if page-1 > math.MaxInt64/perPage {
		return types.IssueFilter{}, types.NewInvalidPaginationError()
	}

	return types.IssueFilter{
		Type:    p.Type,
		Status:  p.Status,
		Page:    uint64(page),
		PerPage: uint64(perPage),
	}, nil
}
