package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
	"github.com/dataeng/datamart-ingress/pkg/quality"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportSales(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(zap.NewNop(), dir)
	require.NoError(t, err)

	date := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	records := []model.SalesRecord{
		{
			ItemID: 101, ItemName: strPtr("Widget"), Category: strPtr("Tools"),
			Quantity: 5, Price: 19.99, Supplier: "Unknown", DateAdded: &date,
			TotalValue: 99.95, HasValidDate: true, HasValidPrice: true,
		},
		{ItemID: 102, Supplier: "Acme"},
	}

	path, err := exporter.Sales(records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SalesFile), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"item_id", "item_name", "category", "quantity", "price",
		"supplier", "date_added", "total_value", "has_valid_date", "has_valid_price"}, rows[0])
	assert.Equal(t, []string{"101", "Widget", "Tools", "5", "19.99",
		"Unknown", "2025-01-15", "99.95", "true", "true"}, rows[1])
	// Absent optionals serialize as empty strings.
	assert.Equal(t, []string{"102", "", "", "0", "0", "Acme", "", "0", "false", "false"}, rows[2])
}

func TestExportStudents(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(zap.NewNop(), dir)
	require.NoError(t, err)

	date := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := []model.StudentRecord{{
		StudentID: 2001, Name: strPtr("Jane Doe"), Age: intPtr(25),
		Gender: strPtr("F"), Grade: strPtr("B-"), Major: strPtr("Physics"),
		EnrollmentDate: &date, DaysEnrolled: intPtr(365),
		HasValidAge: true, HasValidEnrollmentDate: true,
	}}

	path, err := exporter.Students(records)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"student_id", "name", "age", "gender", "grade", "major",
		"enrollment_date", "days_enrolled", "has_valid_age", "has_valid_enrollment_date"}, rows[0])
	assert.Equal(t, []string{"2001", "Jane Doe", "25", "F", "B-", "Physics",
		"2024-06-01", "365", "true", "true"}, rows[1])
}

func TestExportStarSchema(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(zap.NewNop(), dir)
	require.NoError(t, err)

	supplierID := 1
	schema := &model.StarSchema{
		DimItem:     []model.DimItem{{ItemID: 1, ItemName: strPtr("Widget")}},
		DimSupplier: []model.DimSupplier{{SupplierID: 1, SupplierName: "Acme"}},
		FactInventory: []model.FactInventory{{
			ItemID: 1, SupplierID: &supplierID, Quantity: 5, Price: 10, TotalValue: 50,
		}},
		DimStudent:     []model.DimStudent{{StudentID: 9}},
		FactEnrollment: []model.FactEnrollment{{StudentID: 9}},
	}

	paths, err := exporter.StarSchema(schema)
	require.NoError(t, err)
	require.Len(t, paths, 7)

	rows := readCSV(t, filepath.Join(dir, FactInventoryFile))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"item_id", "supplier_id", "category_id", "date_added",
		"quantity", "price", "total_value", "has_valid_date", "has_valid_price"}, rows[0])
	assert.Equal(t, []string{"1", "1", "", "", "5", "10", "50", "false", "false"}, rows[1])

	rows = readCSV(t, filepath.Join(dir, FactEnrollFile))
	assert.Equal(t, []string{"student_id", "major_id", "grade", "enrollment_date",
		"days_enrolled", "has_valid_age", "has_valid_enrollment_date"}, rows[0])
}

func TestExportQualityReport(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(zap.NewNop(), dir)
	require.NoError(t, err)

	report := quality.Report{
		SalesQuality:   quality.SalesQuality{TotalRecords: 2, ZeroPrices: 1, AvgTotalValue: 12.5},
		StudentQuality: quality.StudentQuality{TotalRecords: 1, MissingMajors: 1},
	}

	path, err := exporter.QualityReport(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["sales_quality"]["total_records"])
	assert.Equal(t, float64(1), decoded["student_quality"]["missing_majors"])
	assert.Contains(t, string(data), "\n  \"sales_quality\"")
}
