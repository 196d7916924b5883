// pkg/analytics/sales.go
package analytics

import (
	"errors"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// PriceStatistics summarizes the distribution of positive prices.
type PriceStatistics struct {
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile25 float64 `json:"percentile_25"`
	Percentile75 float64 `json:"percentile_75"`
	Variance     float64 `json:"variance"`
}

// Outliers reports prices beyond two standard deviations of the mean.
type Outliers struct {
	Count         int     `json:"count"`
	ThresholdHigh float64 `json:"threshold_high"`
	ThresholdLow  float64 `json:"threshold_low"`
	Percentage    float64 `json:"percentage"`
}

// InventoryStatistics summarizes positive stock quantities.
type InventoryStatistics struct {
	TotalItems     int     `json:"total_items"`
	MeanQuantity   float64 `json:"mean_quantity"`
	MedianQuantity float64 `json:"median_quantity"`
	LowStockCount  int     `json:"low_stock_count"`
}

// ValueStatistics summarizes positive total values.
type ValueStatistics struct {
	TotalValue     float64 `json:"total_value"`
	MeanValue      float64 `json:"mean_value"`
	HighValueItems int     `json:"high_value_items"`
}

// PriceDistribution buckets prices into fixed ranges: low [0,50),
// medium [50,100), high [100,200), premium [200,inf).
type PriceDistribution struct {
	Low     int `json:"low"`
	Medium  int `json:"medium"`
	High    int `json:"high"`
	Premium int `json:"premium"`
}

// Correlation holds the Pearson correlation between price and quantity.
type Correlation struct {
	PriceQuantity float64 `json:"price_quantity"`
}

// SalesAnalytics is the full sales-side analytics report. Sections whose
// input array was empty are omitted rather than zero-filled.
type SalesAnalytics struct {
	PriceStatistics     *PriceStatistics     `json:"price_statistics,omitempty"`
	Outliers            *Outliers            `json:"outliers,omitempty"`
	InventoryStatistics *InventoryStatistics `json:"inventory_statistics,omitempty"`
	ValueStatistics     *ValueStatistics     `json:"value_statistics,omitempty"`
	PriceDistribution   *PriceDistribution   `json:"price_distribution,omitempty"`
	Correlation         *Correlation         `json:"correlation,omitempty"`
}

// Reducer computes analytics reports over cleaned collections.
type Reducer struct {
	logger *zap.Logger
}

// NewReducer creates a new Reducer instance
func NewReducer(logger *zap.Logger) (*Reducer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Reducer{logger: logger}, nil
}

// AnalyzeSales reduces a cleaned sales collection. Each section draws on the
// strictly-positive subset of its field, so a dataset of all-zero prices
// yields no price section at all.
func (r *Reducer) AnalyzeSales(records []model.SalesRecord) SalesAnalytics {
	var prices, quantities, totalValues []float64
	for _, rec := range records {
		if rec.Price > 0 {
			prices = append(prices, rec.Price)
		}
		if rec.Quantity > 0 {
			quantities = append(quantities, float64(rec.Quantity))
		}
		if rec.TotalValue > 0 {
			totalValues = append(totalValues, rec.TotalValue)
		}
	}

	report := SalesAnalytics{}

	if len(prices) > 0 {
		lo, hi := minMax(prices)
		report.PriceStatistics = &PriceStatistics{
			Mean:         mean(prices),
			Median:       median(prices),
			StdDev:       popStdDev(prices),
			Min:          lo,
			Max:          hi,
			Percentile25: percentile(prices, 25),
			Percentile75: percentile(prices, 75),
			Variance:     popVariance(prices),
		}

		m, s := mean(prices), popStdDev(prices)
		high, low := m+2*s, m-2*s
		outliers := countOutside(prices, low, high)
		report.Outliers = &Outliers{
			Count:         outliers,
			ThresholdHigh: high,
			ThresholdLow:  low,
			Percentage:    float64(outliers) / float64(len(prices)) * 100,
		}

		buckets := histogram(prices, []float64{0, 50, 100, 200, math.Inf(1)})
		report.PriceDistribution = &PriceDistribution{
			Low:     buckets[0],
			Medium:  buckets[1],
			High:    buckets[2],
			Premium: buckets[3],
		}
	}

	if len(quantities) > 0 {
		report.InventoryStatistics = &InventoryStatistics{
			TotalItems:     int(sum(quantities)),
			MeanQuantity:   mean(quantities),
			MedianQuantity: median(quantities),
			LowStockCount:  countBelow(quantities, 10),
		}
	}

	if len(totalValues) > 0 {
		report.ValueStatistics = &ValueStatistics{
			TotalValue:     sum(totalValues),
			MeanValue:      mean(totalValues),
			HighValueItems: countAbove(totalValues, percentile(totalValues, 75)),
		}
	}

	if len(prices) > 0 && len(quantities) > 0 && len(prices) == len(quantities) {
		report.Correlation = &Correlation{
			PriceQuantity: stat.Correlation(prices, quantities, nil),
		}
	}

	r.logger.Info("Computed sales analytics",
		zap.Int("records", len(records)),
		zap.Int("positive_prices", len(prices)),
		zap.Int("positive_quantities", len(quantities)))

	return report
}
