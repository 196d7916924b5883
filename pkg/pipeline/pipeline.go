// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/analytics"
	"github.com/dataeng/datamart-ingress/pkg/config"
	"github.com/dataeng/datamart-ingress/pkg/export"
	"github.com/dataeng/datamart-ingress/pkg/quality"
	"github.com/dataeng/datamart-ingress/pkg/source"
	"github.com/dataeng/datamart-ingress/pkg/star"
	"github.com/dataeng/datamart-ingress/pkg/transform"
)

// Runner orchestrates one full pipeline run: read, clean, analyze, model,
// export. Each run is a pure function of the source files plus the
// configured processing date.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger

	reader   *source.Reader
	sales    *transform.SalesTransformer
	students *transform.StudentTransformer
	reducer  *analytics.Reducer
	modeler  *star.Modeler
	reporter *quality.Reporter
	exporter *export.Exporter
}

// NewRunner creates a new Runner instance with all collaborators wired
func NewRunner(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	reader, err := source.NewReader(logger)
	if err != nil {
		return nil, err
	}
	salesTransformer, err := transform.NewSalesTransformer(logger)
	if err != nil {
		return nil, err
	}
	studentTransformer, err := transform.NewStudentTransformer(logger, cfg.ProcessingDate)
	if err != nil {
		return nil, err
	}
	reducer, err := analytics.NewReducer(logger)
	if err != nil {
		return nil, err
	}
	modeler, err := star.NewModeler(logger)
	if err != nil {
		return nil, err
	}
	reporter, err := quality.NewReporter(logger)
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewExporter(logger, cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		logger:   logger,
		reader:   reader,
		sales:    salesTransformer,
		students: studentTransformer,
		reducer:  reducer,
		modeler:  modeler,
		reporter: reporter,
		exporter: exporter,
	}, nil
}

// Run executes the pipeline once. Unreadable source files are fatal;
// everything downstream degrades per record instead of failing the run.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := NewRunResult()
	defer result.Complete()

	r.logger.Info("Starting pipeline run",
		zap.String("run_id", result.RunID.String()),
		zap.String("sales_file", r.cfg.SalesFile),
		zap.String("student_file", r.cfg.StudentFile),
		zap.Time("processing_date", r.cfg.ProcessingDate))

	rawSales, err := r.reader.ReadFile(r.cfg.SalesFile)
	if err != nil {
		return result, fmt.Errorf("failed to read sales data: %w", err)
	}
	rawStudents, err := r.reader.ReadFile(r.cfg.StudentFile)
	if err != nil {
		return result, fmt.Errorf("failed to read student data: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	cleanSales, salesSummary := r.sales.Transform(rawSales)
	cleanStudents, studentSummary := r.students.Transform(rawStudents)
	result.SalesSummary = salesSummary
	result.StudentSummary = studentSummary

	result.SalesAnalytics = r.reducer.AnalyzeSales(cleanSales)
	result.StudentAnalytics = r.reducer.AnalyzeStudents(cleanStudents)
	result.QualityScores = r.reducer.ScoreQuality(cleanSales, cleanStudents)

	report := r.reporter.Generate(cleanSales, cleanStudents)
	schema := r.modeler.Build(cleanSales, cleanStudents)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Export everything; collect failures rather than stopping at the first.
	var exportErr error

	if path, err := r.exporter.Sales(cleanSales); err != nil {
		exportErr = multierr.Append(exportErr, err)
	} else {
		result.ExportPaths = append(result.ExportPaths, path)
	}

	if path, err := r.exporter.Students(cleanStudents); err != nil {
		exportErr = multierr.Append(exportErr, err)
	} else {
		result.ExportPaths = append(result.ExportPaths, path)
	}

	if paths, err := r.exporter.StarSchema(schema); err != nil {
		exportErr = multierr.Append(exportErr, err)
	} else {
		result.ExportPaths = append(result.ExportPaths, paths...)
	}

	if path, err := r.exporter.QualityReport(report); err != nil {
		exportErr = multierr.Append(exportErr, err)
	} else {
		result.ExportPaths = append(result.ExportPaths, path)
	}

	if exportErr != nil {
		return result, fmt.Errorf("export failed: %w", exportErr)
	}

	r.logger.Info("Pipeline run complete",
		zap.String("run_id", result.RunID.String()),
		zap.Int("sales_cleaned", result.SalesSummary.Cleaned),
		zap.Int("students_cleaned", result.StudentSummary.Cleaned),
		zap.Float64("overall_quality", result.QualityScores.OverallQualityScore),
		zap.Int("exported_files", len(result.ExportPaths)))

	return result, nil
}
