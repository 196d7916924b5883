// pkg/pipeline/result.go
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dataeng/datamart-ingress/pkg/analytics"
	"github.com/dataeng/datamart-ingress/pkg/transform"
)

// RunResult represents the outcome of one pipeline run
type RunResult struct {
	RunID uuid.UUID

	SalesSummary   transform.Summary
	StudentSummary transform.Summary

	SalesAnalytics   analytics.SalesAnalytics
	StudentAnalytics analytics.StudentAnalytics
	QualityScores    analytics.QualityScores

	ExportPaths []string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewRunResult initializes a result for a starting run
func NewRunResult() *RunResult {
	return &RunResult{
		RunID:     uuid.New(),
		StartTime: time.Now(),
	}
}

// Complete marks the run as finished and computes its duration
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
