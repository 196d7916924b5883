// pkg/source/csv.go
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// Reader loads header-keyed delimited files into raw records.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new Reader instance
func NewReader(logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Reader{logger: logger}, nil
}

// ReadFile reads a CSV file whose first row is the header. Each subsequent
// row becomes one raw record keyed by column name; short rows leave the
// trailing columns empty, extra fields are dropped. Row order is preserved.
func (r *Reader) ReadFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer f.Close()

	records, err := r.readAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	r.logger.Info("Read source file",
		zap.String("path", path),
		zap.Int("rows", len(records)))

	return records, nil
}

func (r *Reader) readAll(f io.Reader) ([]model.RawRecord, error) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []model.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}

		record := make(model.RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}
