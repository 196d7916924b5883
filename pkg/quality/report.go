// pkg/quality/report.go
package quality

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// SalesQuality counts defects in the cleaned sales collection.
type SalesQuality struct {
	TotalRecords  int     `json:"total_records"`
	MissingDates  int     `json:"missing_dates"`
	ZeroPrices    int     `json:"zero_prices"`
	ZeroQuantity  int     `json:"zero_quantity"`
	AvgTotalValue float64 `json:"avg_total_value"`
}

// StudentQuality counts defects in the cleaned student collection.
type StudentQuality struct {
	TotalRecords           int     `json:"total_records"`
	MissingAges            int     `json:"missing_ages"`
	MissingEnrollmentDates int     `json:"missing_enrollment_dates"`
	MissingMajors          int     `json:"missing_majors"`
	AvgAge                 float64 `json:"avg_age"`
}

// Report is the data quality summary exported alongside the cleaned files.
type Report struct {
	SalesQuality   SalesQuality   `json:"sales_quality"`
	StudentQuality StudentQuality `json:"student_quality"`
}

// Reporter summarizes cleaned collections into a quality report.
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a new Reporter instance
func NewReporter(logger *zap.Logger) (*Reporter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Reporter{logger: logger}, nil
}

// Generate builds the quality report. Means over empty sets are 0 rather
// than an error.
func (r *Reporter) Generate(sales []model.SalesRecord, students []model.StudentRecord) Report {
	report := Report{
		SalesQuality:   summarizeSales(sales),
		StudentQuality: summarizeStudents(students),
	}

	r.logger.Info("Generated data quality report",
		zap.Int("sales_records", report.SalesQuality.TotalRecords),
		zap.Int("student_records", report.StudentQuality.TotalRecords))

	return report
}

func summarizeSales(sales []model.SalesRecord) SalesQuality {
	q := SalesQuality{TotalRecords: len(sales)}

	totalValue := 0.0
	for _, rec := range sales {
		if !rec.HasValidDate {
			q.MissingDates++
		}
		if rec.Price == 0 {
			q.ZeroPrices++
		}
		if rec.Quantity == 0 {
			q.ZeroQuantity++
		}
		totalValue += rec.TotalValue
	}

	if len(sales) > 0 {
		q.AvgTotalValue = totalValue / float64(len(sales))
	}
	return q
}

func summarizeStudents(students []model.StudentRecord) StudentQuality {
	q := StudentQuality{TotalRecords: len(students)}

	ageSum, ageCount := 0, 0
	for _, rec := range students {
		if !rec.HasValidAge {
			q.MissingAges++
		}
		if !rec.HasValidEnrollmentDate {
			q.MissingEnrollmentDates++
		}
		if rec.Major == nil {
			q.MissingMajors++
		}
		if rec.Age != nil {
			ageSum += *rec.Age
			ageCount++
		}
	}

	if ageCount > 0 {
		q.AvgAge = float64(ageSum) / float64(ageCount)
	}
	return q
}
