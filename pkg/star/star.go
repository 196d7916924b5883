// pkg/star/star.go
package star

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/model"
)

// Modeler builds the dimensional star schema from cleaned collections.
// Surrogate keys are assigned in first-seen order starting at 1, so the
// resulting schema is a deterministic function of input row order.
type Modeler struct {
	logger *zap.Logger
}

// NewModeler creates a new Modeler instance
func NewModeler(logger *zap.Logger) (*Modeler, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Modeler{logger: logger}, nil
}

// keyTable assigns dense surrogate keys to distinct text values in
// first-seen order.
type keyTable struct {
	keys  map[string]int
	order []string
}

func newKeyTable() *keyTable {
	return &keyTable{keys: make(map[string]int)}
}

// resolve returns the surrogate key for value, assigning the next key on
// first sight.
func (t *keyTable) resolve(value string) int {
	if id, ok := t.keys[value]; ok {
		return id
	}
	id := len(t.order) + 1
	t.keys[value] = id
	t.order = append(t.order, value)
	return id
}

// Build materializes all seven tables in one pass over each collection.
func (m *Modeler) Build(sales []model.SalesRecord, students []model.StudentRecord) *model.StarSchema {
	schema := &model.StarSchema{}
	m.buildSales(schema, sales)
	m.buildStudents(schema, students)

	m.logger.Info("Built star schema",
		zap.Int("dim_item", len(schema.DimItem)),
		zap.Int("dim_supplier", len(schema.DimSupplier)),
		zap.Int("dim_category", len(schema.DimCategory)),
		zap.Int("fact_inventory", len(schema.FactInventory)),
		zap.Int("dim_student", len(schema.DimStudent)),
		zap.Int("dim_major", len(schema.DimMajor)),
		zap.Int("fact_enrollment", len(schema.FactEnrollment)))

	return schema
}

func (m *Modeler) buildSales(schema *model.StarSchema, sales []model.SalesRecord) {
	seenItems := make(map[int]bool)
	suppliers := newKeyTable()
	categories := newKeyTable()

	for _, rec := range sales {
		// First occurrence wins for the item's name and category. Item id 0
		// keeps its fact rows but never enters the dimension.
		if rec.ItemID != 0 && !seenItems[rec.ItemID] {
			seenItems[rec.ItemID] = true
			schema.DimItem = append(schema.DimItem, model.DimItem{
				ItemID:   rec.ItemID,
				ItemName: rec.ItemName,
				Category: rec.Category,
			})
		}

		fact := model.FactInventory{
			ItemID:        rec.ItemID,
			DateAdded:     rec.DateAdded,
			Quantity:      rec.Quantity,
			Price:         rec.Price,
			TotalValue:    rec.TotalValue,
			HasValidDate:  rec.HasValidDate,
			HasValidPrice: rec.HasValidPrice,
		}

		// Suppliers are never absent in cleaned records, categories can be.
		supplierID := suppliers.resolve(rec.Supplier)
		fact.SupplierID = &supplierID

		if rec.Category != nil {
			categoryID := categories.resolve(*rec.Category)
			fact.CategoryID = &categoryID
		}

		schema.FactInventory = append(schema.FactInventory, fact)
	}

	for i, name := range suppliers.order {
		schema.DimSupplier = append(schema.DimSupplier, model.DimSupplier{
			SupplierID:   i + 1,
			SupplierName: name,
		})
	}
	for i, name := range categories.order {
		schema.DimCategory = append(schema.DimCategory, model.DimCategory{
			CategoryID:   i + 1,
			CategoryName: name,
		})
	}
}

func (m *Modeler) buildStudents(schema *model.StarSchema, students []model.StudentRecord) {
	majors := newKeyTable()

	for _, rec := range students {
		schema.DimStudent = append(schema.DimStudent, model.DimStudent{
			StudentID: rec.StudentID,
			Name:      rec.Name,
			Age:       rec.Age,
			Gender:    rec.Gender,
		})

		fact := model.FactEnrollment{
			StudentID:              rec.StudentID,
			Grade:                  rec.Grade,
			EnrollmentDate:         rec.EnrollmentDate,
			DaysEnrolled:           rec.DaysEnrolled,
			HasValidAge:            rec.HasValidAge,
			HasValidEnrollmentDate: rec.HasValidEnrollmentDate,
		}

		if rec.Major != nil {
			majorID := majors.resolve(*rec.Major)
			fact.MajorID = &majorID
		}

		schema.FactEnrollment = append(schema.FactEnrollment, fact)
	}

	for i, name := range majors.order {
		schema.DimMajor = append(schema.DimMajor, model.DimMajor{
			MajorID:   i + 1,
			MajorName: name,
		})
	}
}
