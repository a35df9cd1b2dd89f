// Package stats fetches the dashboard aggregates and shapes them for
// the charts pane.
package stats

import (
	"context"

	"riskwatch/internal/api"
)

// Client is the slice of the API the service needs.
type Client interface {
	DashboardStats(ctx context.Context) (api.DashboardStats, error)
}

// Point is one labeled bar in a chart.
type Point struct {
	Label string
	Value float64
}

// Overview is the chart-ready form of the dashboard aggregates.
type Overview struct {
	Risk []Point
	GPA  []Point
}

// gpaBins fixes the histogram order; the service returns a map.
var gpaBins = []string{"0-1", "1-2", "2-3", "3-4", "4+"}

// Service fetches and converts the aggregates.
type Service struct {
	Client Client
}

// Overview fetches the current aggregates.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	ds, err := s.Client.DashboardStats(ctx)
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{
		Risk: []Point{
			{Label: "at risk", Value: float64(ds.RiskDistribution.AtRisk)},
			{Label: "safe", Value: float64(ds.RiskDistribution.NotAtRisk)},
		},
	}
	for _, bin := range gpaBins {
		ov.GPA = append(ov.GPA, Point{Label: bin, Value: float64(ds.GPADistribution[bin])})
	}
	return ov, nil
}
