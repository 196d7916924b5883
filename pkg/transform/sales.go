// pkg/transform/sales.go
package transform

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
	"github.com/dataeng/datamart-ingress/pkg/normalize"
)

// SalesTransformer turns raw sales rows into cleaned, typed records.
type SalesTransformer struct {
	logger *zap.Logger
}

// NewSalesTransformer creates a new SalesTransformer instance
func NewSalesTransformer(logger *zap.Logger) (*SalesTransformer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &SalesTransformer{logger: logger}, nil
}

// Transform cleans a batch of raw sales rows. Rows that are fully empty or
// lack a usable item identifier are skipped; every other row is retained with
// field-level fallbacks applied. The output order follows the input order.
func (t *SalesTransformer) Transform(rows []model.RawRecord) ([]model.SalesRecord, Summary) {
	summary := Summary{}
	cleaned := make([]model.SalesRecord, 0, len(rows))

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

	t.logger.Info("Cleaned sales data",
		zap.Int("processed", summary.Processed),
		zap.Int("cleaned", summary.Cleaned),
		zap.Int("skipped", summary.Skipped))

	return cleaned, summary
}

func (t *SalesTransformer) cleanRow(row model.RawRecord) (model.SalesRecord, bool) {
	if row.IsEmpty() {
		return model.SalesRecord{}, false
	}

	// The item identifier is the only hard requirement.
	itemID, ok := normalize.ParseInt(row["ItemID"], false)
	if !ok {
		return model.SalesRecord{}, false
	}

	record := model.SalesRecord{
		ItemID:   itemID,
		Supplier: normalize.CleanSupplier(row["Supplier"]),
	}

	if name, ok := normalize.CleanText(row["ItemName"]); ok {
		record.ItemName = &name
	}
	if category, ok := normalize.CleanText(row["Category"]); ok {
		record.Category = &category
	}

	// Negative quantities and unparsable values default to zero.
	if quantity, ok := normalize.ParseInt(row["Quantity"], false); ok {
		record.Quantity = quantity
	}

	// A leading minus on the price is treated as a data-entry artifact.
	if price, ok := normalize.ParseDecimal(row["Price"], false, true); ok {
		record.Price = price
	}

	if date, ok := normalize.ParseDate(row["DateAdded"]); ok {
		record.DateAdded = &date
	}

	record.TotalValue = math.Round(float64(record.Quantity)*record.Price*100) / 100
	record.HasValidPrice = record.Price > 0
	record.HasValidDate = record.DateAdded != nil

	return record, true
}
