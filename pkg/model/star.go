// pkg/model/star.go
package model

import "time"

// DimItem is one row of the item dimension, deduplicated by item_id with the
// first occurrence winning for name and category.
type DimItem struct {
	ItemID   int
	ItemName *string
	Category *string
}

// DimSupplier is one row of the supplier dimension. Surrogate keys start at 1
// and increase in first-seen order.
type DimSupplier struct {
	SupplierID   int
	SupplierName string
}

// DimCategory is one row of the category dimension.
type DimCategory struct {
	CategoryID   int
	CategoryName string
}

// DimStudent is one row of the student dimension; student_id is already
// unique per retained row, so no dedup is applied.
type DimStudent struct {
	StudentID int
	Name      *string
	Age       *int
	Gender    *string
}

// DimMajor is one row of the major dimension.
type DimMajor struct {
	MajorID   int
	MajorName string
}

// FactInventory is one fact row per cleaned sales record. Foreign keys are
// nil exactly when the corresponding source value was absent.
type FactInventory struct {
	ItemID        int
	SupplierID    *int
	CategoryID    *int
	DateAdded     *time.Time
	Quantity      int
	Price         float64
	TotalValue    float64
	HasValidDate  bool
	HasValidPrice bool
}

// FactEnrollment is one fact row per cleaned student record.
type FactEnrollment struct {
	StudentID              int
	MajorID                *int
	Grade                  *string
	EnrollmentDate         *time.Time
	DaysEnrolled           *int
	HasValidAge            bool
	HasValidEnrollmentDate bool
}

// StarSchema holds the seven dimensional tables materialized from one run.
// The tables are rebuilt in full every run; surrogate keys are a function of
// input row order only.
type StarSchema struct {
	DimItem        []DimItem
	DimSupplier    []DimSupplier
	DimCategory    []DimCategory
	FactInventory  []FactInventory
	DimStudent     []DimStudent
	DimMajor       []DimMajor
	FactEnrollment []FactEnrollment
}
