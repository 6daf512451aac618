package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"civicreport/internal/utils"
	"civicreport/pkg/types"
)

// IssueCreator is the subset of the issue repository the seeder writes through.
type IssueCreator interface {
	CreateIssue(ctx context.Context, issue *types.NewIssue) (*types.CreatedIssue, error)
}

type sampleIssue struct {
	Type        string
	Title       string
	Description string
	Weight      int
}

var sampleIssues = []sampleIssue{
	{Type: "pothole", Title: "Pothole in the bike lane", Description: "Wide and deep enough to throw a cyclist.", Weight: 30},
	{Type: "streetlight", Title: "Streetlight out", Description: "Lamp has been dark for three nights, the corner is unlit.", Weight: 20},
	{Type: "graffiti", Title: "Graffiti on the underpass", Description: "Fresh tags covering the tunnel wall on both sides.", Weight: 15},
	{Type: "garbage", Title: "Overflowing bins", Description: "Public bins by the bus stop have not been emptied this week.", Weight: 20},
	{Type: "sidewalk", Title: "Broken paving slab", Description: "Lifted slab is a trip hazard next to the school entrance.", Weight: 10},
	{Type: "water", Title: "Leaking hydrant", Description: "Water is running from the hydrant base onto the road.", Weight: 5},
}

// Issues are scattered around this point.
const (
	centerLatitude  = 52.5200
	centerLongitude = 13.4050
	spreadDegrees   = 0.05
)

// SeedIssues creates count sample issues and returns what was written. Every
// seeded title carries a "[seed]" prefix so it is easy to find later.
func SeedIssues(ctx context.Context, repo IssueCreator, rng *rand.Rand, count int) ([]*types.Issue, error) {
	if count <= 0 {
		return nil, nil
	}

	issues := make([]*types.Issue, 0, count)
	for i := 0; i < count; i++ {
		sample := pickWeightedSample(rng)

		latitude := centerLatitude + (rng.Float64()*2-1)*spreadDegrees
		longitude := centerLongitude + (rng.Float64()*2-1)*spreadDegrees

		issue := &types.NewIssue{
			Title:       fmt.Sprintf("[seed] %s", sample.Title),
			Description: sample.Description,
			Type:        sample.Type,
			Latitude:    latitude,
			Longitude:   longitude,
			Location:    fmt.Sprintf("%s, %s", formatCoordinate(latitude), formatCoordinate(longitude)),
		}

		created, err := repo.CreateIssue(ctx, issue)
		if err != nil {
			return issues, fmt.Errorf("failed to create sample issue %d: %w", i+1, err)
		}

		issues = append(issues, &types.Issue{
			ID:          created.ID,
			Title:       issue.Title,
			Description: issue.Description,
			Type:        issue.Type,
			Latitude:    issue.Latitude,
			Longitude:   issue.Longitude,
			Location:    utils.StringPtr(issue.Location),
			Timestamp:   created.Timestamp,
			Status:      types.IssueStatusPending,
		})
	}

	return issues, nil
}

func pickWeightedSample(rng *rand.Rand) sampleIssue {
	total := 0
	for _, item := range sampleIssues {
		total += item.Weight
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range sampleIssues {
		running += item.Weight
		if roll < running {
			return item
		}
	}

	return sampleIssues[0]
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
