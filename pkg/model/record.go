// pkg/model/record.go
package model

import "time"

// RawRecord is one row of a header-keyed delimited file: column name to the
// raw text value, which may be empty or a sentinel. Raw records are ephemeral;
// they are read once and consumed by the row transformers.
type RawRecord map[string]string

// IsEmpty reports whether every value in the record is the empty string.
// Whitespace-only values count as present, matching the transformer's
// skip rule for completely empty rows.
func (r RawRecord) IsEmpty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

// SalesRecord is a cleaned sales/inventory row. Optional fields are nil when
// the source value was absent or failed validation.
type SalesRecord struct {
	ItemID        int        // Required positive identifier
	ItemName      *string    // Normalized text, nil if absent
	Category      *string    // Normalized text, nil if absent
	Quantity      int        // Non-negative; invalid input defaults to 0
	Price         float64    // Non-negative; invalid input defaults to 0.0
	Supplier      string     // Never empty; absent input becomes "Unknown"
	DateAdded     *time.Time // Calendar date, nil if unparseable
	TotalValue    float64    // Quantity * Price, rounded to 2 decimals
	HasValidDate  bool       // DateAdded != nil
	HasValidPrice bool       // Price > 0 after cleaning
}

// StudentRecord is a cleaned student enrollment row.
type StudentRecord struct {
	StudentID              int        // Required positive identifier
	Name                   *string    // Direct name, or first/last parts combined
	Age                    *int       // In [1,120], nil otherwise
	Gender                 *string    // "M", "F" or "Other", nil if absent
	Grade                  *string    // Letter grade A+..F, nil if absent
	Major                  *string    // Normalized text, nil if absent
	EnrollmentDate         *time.Time // Calendar date, nil if unparseable
	DaysEnrolled           *int       // Whole days since enrollment; nil iff EnrollmentDate is nil
	HasValidAge            bool       // Age != nil
	HasValidEnrollmentDate bool       // EnrollmentDate != nil
}
