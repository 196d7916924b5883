// pkg/analytics/score.go
package analytics

import (
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// QualityScores grades each dataset on the share of records carrying valid
// key fields. Scores are percentages in [0,100].
type QualityScores struct {
	SalesQualityScore   float64 `json:"sales_quality_score"`
	StudentQualityScore float64 `json:"student_quality_score"`
	OverallQualityScore float64 `json:"overall_quality_score"`
}

// ScoreQuality computes per-dataset and overall quality scores. A dataset
// score averages the valid-share of its two key fields; an empty dataset
// scores 0.
func (r *Reducer) ScoreQuality(sales []model.SalesRecord, students []model.StudentRecord) QualityScores {
	scores := QualityScores{}

	if len(sales) > 0 {
		validPrices, validDates := 0, 0
		for _, rec := range sales {
			if rec.HasValidPrice {
				validPrices++
			}
			if rec.HasValidDate {
				validDates++
			}
		}
		total := float64(len(sales))
		scores.SalesQualityScore = (float64(validPrices)/total + float64(validDates)/total) / 2 * 100
	}

	if len(students) > 0 {
		validAges, validEnrollments := 0, 0
		for _, rec := range students {
			if rec.HasValidAge {
				validAges++
			}
			if rec.HasValidEnrollmentDate {
				validEnrollments++
			}
		}
		total := float64(len(students))
		scores.StudentQualityScore = (float64(validAges)/total + float64(validEnrollments)/total) / 2 * 100
	}

	scores.OverallQualityScore = (scores.SalesQualityScore + scores.StudentQualityScore) / 2

	r.logger.Info("Calculated data quality scores",
		zap.Float64("sales", scores.SalesQualityScore),
		zap.Float64("student", scores.StudentQualityScore),
		zap.Float64("overall", scores.OverallQualityScore))

	return scores
}
