// pkg/analytics/student.go
package analytics

import (
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// gpaScale maps letter grades onto a 4.3 scale. Grades outside the map
// contribute 0.0 and therefore count as failing.
var gpaScale = map[string]float64{
	"A+": 4.3, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D": 1.0, "F": 0.0,
}

// AgeStatistics summarizes the ages present in the collection.
type AgeStatistics struct {
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	Percentile25 float64 `json:"percentile_25"`
	Percentile75 float64 `json:"percentile_75"`
}

// AgeDistribution buckets ages into fixed bands. The last band is closed at
// 120, matching the upper bound accepted by age parsing.
type AgeDistribution struct {
	Under20    int `json:"under_20"`
	From20To25 int `json:"20_to_25"`
	From25To30 int `json:"25_to_30"`
	From30To35 int `json:"30_to_35"`
	Over35     int `json:"over_35"`
}

// AgeOutliers reports ages beyond two standard deviations of the mean.
type AgeOutliers struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// EnrollmentStatistics summarizes enrollment durations in days.
type EnrollmentStatistics struct {
	MeanDays         float64 `json:"mean_days"`
	MedianDays       float64 `json:"median_days"`
	MinDays          int     `json:"min_days"`
	MaxDays          int     `json:"max_days"`
	RecentlyEnrolled int     `json:"recently_enrolled"`
}

// GradeStatistics summarizes letter grades on the GPA scale.
type GradeStatistics struct {
	MeanGPA      float64 `json:"mean_gpa"`
	MedianGPA    float64 `json:"median_gpa"`
	FailingCount int     `json:"failing_count"`
}

// StudentAnalytics is the full student-side analytics report. Sections whose
// input array was empty are omitted rather than zero-filled.
type StudentAnalytics struct {
	AgeStatistics        *AgeStatistics        `json:"age_statistics,omitempty"`
	AgeDistribution      *AgeDistribution      `json:"age_distribution,omitempty"`
	AgeOutliers          *AgeOutliers          `json:"age_outliers,omitempty"`
	EnrollmentStatistics *EnrollmentStatistics `json:"enrollment_statistics,omitempty"`
	GradeStatistics      *GradeStatistics      `json:"grade_statistics,omitempty"`
	GenderDistribution   map[string]int        `json:"gender_distribution,omitempty"`
}

// AnalyzeStudents reduces a cleaned student collection over the records whose
// relevant fields are present.
func (r *Reducer) AnalyzeStudents(records []model.StudentRecord) StudentAnalytics {
	var ages, daysEnrolled, gpas []float64
	genders := map[string]int{}

	for _, rec := range records {
		if rec.Age != nil {
			ages = append(ages, float64(*rec.Age))
		}
		if rec.DaysEnrolled != nil {
			daysEnrolled = append(daysEnrolled, float64(*rec.DaysEnrolled))
		}
		if rec.Grade != nil {
			gpas = append(gpas, gpaScale[*rec.Grade])
		}
		if rec.Gender != nil {
			genders[*rec.Gender]++
		}
	}

	report := StudentAnalytics{}

	if len(ages) > 0 {
		lo, hi := minMax(ages)
		report.AgeStatistics = &AgeStatistics{
			Mean:         mean(ages),
			Median:       median(ages),
			StdDev:       popStdDev(ages),
			Min:          int(lo),
			Max:          int(hi),
			Percentile25: percentile(ages, 25),
			Percentile75: percentile(ages, 75),
		}

		buckets := histogram(ages, []float64{0, 20, 25, 30, 35, 120})
		report.AgeDistribution = &AgeDistribution{
			Under20:    buckets[0],
			From20To25: buckets[1],
			From25To30: buckets[2],
			From30To35: buckets[3],
			Over35:     buckets[4],
		}

		m, s := mean(ages), popStdDev(ages)
		outliers := countOutside(ages, m-2*s, m+2*s)
		report.AgeOutliers = &AgeOutliers{
			Count:      outliers,
			Percentage: float64(outliers) / float64(len(ages)) * 100,
		}
	}

	if len(daysEnrolled) > 0 {
		lo, hi := minMax(daysEnrolled)
		report.EnrollmentStatistics = &EnrollmentStatistics{
			MeanDays:         mean(daysEnrolled),
			MedianDays:       median(daysEnrolled),
			MinDays:          int(lo),
			MaxDays:          int(hi),
			RecentlyEnrolled: countBelow(daysEnrolled, 365),
		}
	}

	if len(gpas) > 0 {
		failing := 0
		for _, g := range gpas {
			if g == 0.0 {
				failing++
			}
		}
		report.GradeStatistics = &GradeStatistics{
			MeanGPA:      mean(gpas),
			MedianGPA:    median(gpas),
			FailingCount: failing,
		}
	}

	if len(genders) > 0 {
		report.GenderDistribution = genders
	}

	r.logger.Info("Computed student analytics",
		zap.Int("records", len(records)),
		zap.Int("ages", len(ages)),
		zap.Int("enrollments", len(daysEnrolled)))

	return report
}
