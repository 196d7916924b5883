package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.75, percentile(values, 25), 1e-9)
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-9)
	assert.InDelta(t, 3.25, percentile(values, 75), 1e-9)
	assert.Equal(t, 1.0, percentile(values, 0))
	assert.Equal(t, 4.0, percentile(values, 100))
	assert.Equal(t, 7.0, percentile([]float64{7}, 75))
}

func TestPopulationStdDev(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.InDelta(t, 11.180339887498949, popStdDev(values), 1e-9)
	assert.InDelta(t, 125.0, popVariance(values), 1e-9)
}

func TestHistogramLastBinClosed(t *testing.T) {
	edges := []float64{0, 20, 25, 30, 35, 120}
	counts := histogram([]float64{19, 20, 25, 34, 35, 120}, edges)

	// 35 and 120 both land in the closed last bin.
	assert.Equal(t, []int{1, 1, 1, 1, 2}, counts)
}

func TestAnalyzeSales(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	records := []model.SalesRecord{
		{Price: 10, Quantity: 5, TotalValue: 50},
		{Price: 60, Quantity: 20, TotalValue: 1200},
		{Price: 150, Quantity: 2, TotalValue: 300},
		{Price: 250, Quantity: 1, TotalValue: 250},
	}

	report := reducer.AnalyzeSales(records)

	require.NotNil(t, report.PriceStatistics)
	assert.InDelta(t, 117.5, report.PriceStatistics.Mean, 1e-9)
	assert.InDelta(t, 105.0, report.PriceStatistics.Median, 1e-9)
	assert.Equal(t, 10.0, report.PriceStatistics.Min)
	assert.Equal(t, 250.0, report.PriceStatistics.Max)

	require.NotNil(t, report.Outliers)
	assert.Equal(t, 0, report.Outliers.Count)
	assert.InDelta(t, report.PriceStatistics.Mean+2*report.PriceStatistics.StdDev,
		report.Outliers.ThresholdHigh, 1e-9)

	require.NotNil(t, report.InventoryStatistics)
	assert.Equal(t, 28, report.InventoryStatistics.TotalItems)
	assert.Equal(t, 3, report.InventoryStatistics.LowStockCount)

	require.NotNil(t, report.ValueStatistics)
	assert.InDelta(t, 1800.0, report.ValueStatistics.TotalValue, 1e-9)
	// Strictly above the 75th percentile, so the boundary value itself
	// does not count.
	assert.Equal(t, 1, report.ValueStatistics.HighValueItems)

	require.NotNil(t, report.PriceDistribution)
	assert.Equal(t, 1, report.PriceDistribution.Low)
	assert.Equal(t, 1, report.PriceDistribution.Medium)
	assert.Equal(t, 1, report.PriceDistribution.High)
	assert.Equal(t, 1, report.PriceDistribution.Premium)

	require.NotNil(t, report.Correlation)
	assert.True(t, report.Correlation.PriceQuantity >= -1 && report.Correlation.PriceQuantity <= 1)
}

func TestAnalyzeSalesPerfectCorrelation(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	records := []model.SalesRecord{
		{Price: 1, Quantity: 2, TotalValue: 2},
		{Price: 2, Quantity: 4, TotalValue: 8},
		{Price: 3, Quantity: 6, TotalValue: 18},
	}

	report := reducer.AnalyzeSales(records)
	require.NotNil(t, report.Correlation)
	assert.InDelta(t, 1.0, report.Correlation.PriceQuantity, 1e-9)
}

func TestAnalyzeSalesSkipsCorrelationOnLengthMismatch(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	// One record has a zero quantity, so the filtered arrays differ in
	// length and correlation is not computed.
	records := []model.SalesRecord{
		{Price: 5, Quantity: 0, TotalValue: 0},
		{Price: 7, Quantity: 3, TotalValue: 21},
	}

	report := reducer.AnalyzeSales(records)
	assert.Nil(t, report.Correlation)
	require.NotNil(t, report.PriceStatistics)
}

func TestAnalyzeSalesEmptyInput(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	report := reducer.AnalyzeSales(nil)
	assert.Nil(t, report.PriceStatistics)
	assert.Nil(t, report.Outliers)
	assert.Nil(t, report.InventoryStatistics)
	assert.Nil(t, report.ValueStatistics)
	assert.Nil(t, report.PriceDistribution)
	assert.Nil(t, report.Correlation)
}

func TestAnalyzeStudents(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	records := []model.StudentRecord{
		{Age: intPtr(19), DaysEnrolled: intPtr(100), Grade: strPtr("A"), Gender: strPtr("F")},
		{Age: intPtr(22), DaysEnrolled: intPtr(400), Grade: strPtr("B-"), Gender: strPtr("M")},
		{Age: intPtr(35), DaysEnrolled: intPtr(800), Grade: strPtr("F"), Gender: strPtr("F")},
		{Grade: strPtr("D+")}, // unmapped grade counts as failing
	}

	report := reducer.AnalyzeStudents(records)

	require.NotNil(t, report.AgeStatistics)
	assert.Equal(t, 19, report.AgeStatistics.Min)
	assert.Equal(t, 35, report.AgeStatistics.Max)
	assert.InDelta(t, (19+22+35)/3.0, report.AgeStatistics.Mean, 1e-9)

	require.NotNil(t, report.AgeDistribution)
	assert.Equal(t, 1, report.AgeDistribution.Under20)
	assert.Equal(t, 1, report.AgeDistribution.From20To25)
	assert.Equal(t, 0, report.AgeDistribution.From25To30)
	assert.Equal(t, 0, report.AgeDistribution.From30To35)
	assert.Equal(t, 1, report.AgeDistribution.Over35)

	require.NotNil(t, report.AgeOutliers)
	assert.Equal(t, 0, report.AgeOutliers.Count)

	require.NotNil(t, report.EnrollmentStatistics)
	assert.Equal(t, 100, report.EnrollmentStatistics.MinDays)
	assert.Equal(t, 800, report.EnrollmentStatistics.MaxDays)
	assert.Equal(t, 1, report.EnrollmentStatistics.RecentlyEnrolled)

	require.NotNil(t, report.GradeStatistics)
	// A=4.0, B-=2.7, F=0.0, D+ unmapped=0.0
	assert.InDelta(t, (4.0+2.7)/4, report.GradeStatistics.MeanGPA, 1e-9)
	assert.Equal(t, 2, report.GradeStatistics.FailingCount)

	require.NotNil(t, report.GenderDistribution)
	assert.Equal(t, map[string]int{"F": 2, "M": 1}, report.GenderDistribution)
}

func TestAnalyzeStudentsEmptyInput(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	report := reducer.AnalyzeStudents(nil)
	assert.Nil(t, report.AgeStatistics)
	assert.Nil(t, report.AgeDistribution)
	assert.Nil(t, report.AgeOutliers)
	assert.Nil(t, report.EnrollmentStatistics)
	assert.Nil(t, report.GradeStatistics)
	assert.Nil(t, report.GenderDistribution)
}

func TestScoreQuality(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	sales := []model.SalesRecord{
		{HasValidPrice: true, HasValidDate: true},
		{HasValidPrice: true, HasValidDate: false},
		{HasValidPrice: false, HasValidDate: false},
		{HasValidPrice: true, HasValidDate: true},
	}
	students := []model.StudentRecord{
		{HasValidAge: true, HasValidEnrollmentDate: true},
		{HasValidAge: false, HasValidEnrollmentDate: true},
	}

	scores := reducer.ScoreQuality(sales, students)
	assert.InDelta(t, (0.75+0.5)/2*100, scores.SalesQualityScore, 1e-9)
	assert.InDelta(t, (0.5+1.0)/2*100, scores.StudentQualityScore, 1e-9)
	assert.InDelta(t, (scores.SalesQualityScore+scores.StudentQualityScore)/2,
		scores.OverallQualityScore, 1e-9)
}

func TestScoreQualityEmptyDatasets(t *testing.T) {
	reducer, err := NewReducer(zap.NewNop())
	require.NoError(t, err)

	scores := reducer.ScoreQuality(nil, nil)
	assert.Equal(t, QualityScores{}, scores)
	assert.False(t, math.IsNaN(scores.OverallQualityScore))
}
