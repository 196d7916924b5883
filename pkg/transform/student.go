// pkg/transform/student.go
package transform

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
	"github.com/dataeng/datamart-ingress/pkg/normalize"
)

// StudentTransformer turns raw enrollment rows into cleaned, typed records.
type StudentTransformer struct {
	logger *zap.Logger

	// today anchors the days_enrolled computation so a run is reproducible.
	today time.Time
}

// NewStudentTransformer creates a new StudentTransformer instance. The today
// argument is the processing date used to derive enrollment durations.
func NewStudentTransformer(logger *zap.Logger, today time.Time) (*StudentTransformer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &StudentTransformer{
		logger: logger,
		today:  time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// Transform cleans a batch of raw student rows. Rows that are fully empty or
// lack a usable student identifier are skipped. The output order follows the
// input order.
func (t *StudentTransformer) Transform(rows []model.RawRecord) ([]model.StudentRecord, Summary) {
	summary := Summary{}
	cleaned := make([]model.StudentRecord, 0, len(rows))

	for _, row := range rows {
		summary.Processed++

		record, ok := t.cleanRow(row)
		if !ok {
			summary.Skipped++
			continue
		}

		cleaned = append(cleaned, record)
		summary.Cleaned++
	}

	t.logger.Info("Cleaned student data",
		zap.Int("processed", summary.Processed),
		zap.Int("cleaned", summary.Cleaned),
		zap.Int("skipped", summary.Skipped))

	return cleaned, summary
}

func (t *StudentTransformer) cleanRow(row model.RawRecord) (model.StudentRecord, bool) {
	if row.IsEmpty() {
		return model.StudentRecord{}, false
	}

	studentID, ok := normalize.ParseInt(row["StudentID"], false)
	if !ok {
		return model.StudentRecord{}, false
	}

	record := model.StudentRecord{StudentID: studentID}

	// Prefer the full name column; fall back to assembling first/last parts
	// only when a first name is actually present.
	if name, ok := normalize.CleanText(row["Name"]); ok {
		record.Name = &name
	} else if first := row["FirstName"]; first != "" {
		if name, ok := normalize.CombineNameParts(first, row["LastName"]); ok {
			record.Name = &name
		}
	}

	if age, ok := normalize.ParseAge(row["Age"]); ok {
		record.Age = &age
	}
	if gender, ok := normalize.StandardizeGender(row["Gender"]); ok {
		record.Gender = &gender
	}
	if grade, ok := normalize.StandardizeGrade(row["Grade"]); ok {
		record.Grade = &grade
	}
	if major, ok := normalize.CleanText(row["Major"]); ok {
		record.Major = &major
	}

	if date, ok := normalize.ParseDate(row["EnrollmentDate"]); ok {
		record.EnrollmentDate = &date
		days := int(t.today.Sub(date).Hours() / 24)
		record.DaysEnrolled = &days
	}

	record.HasValidAge = record.Age != nil
	record.HasValidEnrollmentDate = record.EnrollmentDate != nil

	return record, true
}
