package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestGenerateReport(t *testing.T) {
	reporter, err := NewReporter(zap.NewNop())
	require.NoError(t, err)

	sales := []model.SalesRecord{
		{Price: 10, Quantity: 2, TotalValue: 20, HasValidDate: true, HasValidPrice: true},
		{Price: 0, Quantity: 0, TotalValue: 0, HasValidDate: false},
		{Price: 5, Quantity: 4, TotalValue: 20, HasValidDate: true, HasValidPrice: true},
	}
	students := []model.StudentRecord{
		{Age: intPtr(20), Major: strPtr("Math"), HasValidAge: true, HasValidEnrollmentDate: true},
		{HasValidAge: false, HasValidEnrollmentDate: false},
		{Age: intPtr(30), HasValidAge: true, HasValidEnrollmentDate: true},
	}

	report := reporter.Generate(sales, students)

	assert.Equal(t, 3, report.SalesQuality.TotalRecords)
	assert.Equal(t, 1, report.SalesQuality.MissingDates)
	assert.Equal(t, 1, report.SalesQuality.ZeroPrices)
	assert.Equal(t, 1, report.SalesQuality.ZeroQuantity)
	assert.InDelta(t, 40.0/3, report.SalesQuality.AvgTotalValue, 1e-9)

	assert.Equal(t, 3, report.StudentQuality.TotalRecords)
	assert.Equal(t, 1, report.StudentQuality.MissingAges)
	assert.Equal(t, 1, report.StudentQuality.MissingEnrollmentDates)
	assert.Equal(t, 2, report.StudentQuality.MissingMajors)
	assert.InDelta(t, 25.0, report.StudentQuality.AvgAge, 1e-9)
}

func TestGenerateReportEmptyCollections(t *testing.T) {
	reporter, err := NewReporter(zap.NewNop())
	require.NoError(t, err)

	report := reporter.Generate(nil, nil)

	assert.Equal(t, 0, report.SalesQuality.TotalRecords)
	assert.Equal(t, 0.0, report.SalesQuality.AvgTotalValue)
	assert.Equal(t, 0.0, report.StudentQuality.AvgAge)
}
