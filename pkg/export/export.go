// pkg/export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
	"github.com/dataeng/datamart-ingress/pkg/quality"
)

const dateLayout = "2006-01-02"

// Output file names within the export directory.
const (
	SalesFile         = "cleaned_sales_data.csv"
	StudentFile       = "cleaned_student_data.csv"
	DimItemFile       = "dim_item.csv"
	DimSupplierFile   = "dim_supplier.csv"
	DimCategoryFile   = "dim_category.csv"
	FactInventoryFile = "fact_inventory.csv"
	DimStudentFile    = "dim_student.csv"
	DimMajorFile      = "dim_major.csv"
	FactEnrollFile    = "fact_enrollment.csv"
	QualityReportFile = "data_quality_report.json"
)

// Exporter writes cleaned collections, the star schema and the quality
// report into a single output directory.
type Exporter struct {
	logger    *zap.Logger
	outputDir string
}

// NewExporter creates a new Exporter instance and ensures the output
// directory exists.
func NewExporter(logger *zap.Logger, outputDir string) (*Exporter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if outputDir == "" {
		return nil, errors.New("output directory cannot be empty")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Exporter{logger: logger, outputDir: outputDir}, nil
}

// Sales writes the cleaned sales collection and returns the written path.
func (e *Exporter) Sales(records []model.SalesRecord) (string, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ItemID),
			optStr(r.ItemName),
			optStr(r.Category),
			strconv.Itoa(r.Quantity),
			fmtFloat(r.Price),
			r.Supplier,
			optDate(r.DateAdded),
			fmtFloat(r.TotalValue),
			strconv.FormatBool(r.HasValidDate),
			strconv.FormatBool(r.HasValidPrice),
		})
	}

	header := []string{"item_id", "item_name", "category", "quantity", "price",
		"supplier", "date_added", "total_value", "has_valid_date", "has_valid_price"}
	return e.writeCSV(SalesFile, header, rows)
}

// Students writes the cleaned student collection and returns the written path.
func (e *Exporter) Students(records []model.StudentRecord) (string, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.StudentID),
			optStr(r.Name),
			optInt(r.Age),
			optStr(r.Gender),
			optStr(r.Grade),
			optStr(r.Major),
			optDate(r.EnrollmentDate),
			optInt(r.DaysEnrolled),
			strconv.FormatBool(r.HasValidAge),
			strconv.FormatBool(r.HasValidEnrollmentDate),
		})
	}

	header := []string{"student_id", "name", "age", "gender", "grade", "major",
		"enrollment_date", "days_enrolled", "has_valid_age", "has_valid_enrollment_date"}
	return e.writeCSV(StudentFile, header, rows)
}

// StarSchema writes all seven dimensional tables, one CSV per table, and
// returns the written paths.
func (e *Exporter) StarSchema(schema *model.StarSchema) ([]string, error) {
	if schema == nil {
		return nil, errors.New("star schema cannot be nil")
	}

	var paths []string
	write := func(name string, header []string, rows [][]string) error {
		path, err := e.writeCSV(name, header, rows)
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	rows := make([][]string, 0, len(schema.DimItem))
	for _, d := range schema.DimItem {
		rows = append(rows, []string{strconv.Itoa(d.ItemID), optStr(d.ItemName), optStr(d.Category)})
	}
	if err := write(DimItemFile, []string{"item_id", "item_name", "category"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, d := range schema.DimSupplier {
		rows = append(rows, []string{strconv.Itoa(d.SupplierID), d.SupplierName})
	}
	if err := write(DimSupplierFile, []string{"supplier_id", "supplier_name"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, d := range schema.DimCategory {
		rows = append(rows, []string{strconv.Itoa(d.CategoryID), d.CategoryName})
	}
	if err := write(DimCategoryFile, []string{"category_id", "category_name"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, f := range schema.FactInventory {
		rows = append(rows, []string{
			strconv.Itoa(f.ItemID),
			optInt(f.SupplierID),
			optInt(f.CategoryID),
			optDate(f.DateAdded),
			strconv.Itoa(f.Quantity),
			fmtFloat(f.Price),
			fmtFloat(f.TotalValue),
			strconv.FormatBool(f.HasValidDate),
			strconv.FormatBool(f.HasValidPrice),
		})
	}
	header := []string{"item_id", "supplier_id", "category_id", "date_added",
		"quantity", "price", "total_value", "has_valid_date", "has_valid_price"}
	if err := write(FactInventoryFile, header, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, d := range schema.DimStudent {
		rows = append(rows, []string{strconv.Itoa(d.StudentID), optStr(d.Name), optInt(d.Age), optStr(d.Gender)})
	}
	if err := write(DimStudentFile, []string{"student_id", "name", "age", "gender"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, d := range schema.DimMajor {
		rows = append(rows, []string{strconv.Itoa(d.MajorID), d.MajorName})
	}
	if err := write(DimMajorFile, []string{"major_id", "major_name"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, f := range schema.FactEnrollment {
		rows = append(rows, []string{
			strconv.Itoa(f.StudentID),
			optInt(f.MajorID),
			optStr(f.Grade),
			optDate(f.EnrollmentDate),
			optInt(f.DaysEnrolled),
			strconv.FormatBool(f.HasValidAge),
			strconv.FormatBool(f.HasValidEnrollmentDate),
		})
	}
	header = []string{"student_id", "major_id", "grade", "enrollment_date",
		"days_enrolled", "has_valid_age", "has_valid_enrollment_date"}
	if err := write(FactEnrollFile, header, rows); err != nil {
		return nil, err
	}

	return paths, nil
}

// QualityReport writes the indented JSON quality report and returns the
// written path.
func (e *Exporter) QualityReport(report quality.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal quality report: %w", err)
	}

	path := filepath.Join(e.outputDir, QualityReportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write quality report: %w", err)
	}

	e.logger.Info("Exported quality report", zap.String("path", path))
	return path, nil
}

func (e *Exporter) writeCSV(name string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(e.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	e.logger.Info("Exported CSV",
		zap.String("path", path),
		zap.Int("rows", len(rows)))

	return path, nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
