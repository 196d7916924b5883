// pkg/loader/loader.go
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/config"
	"github.com/dataeng/datamart-ingress/pkg/connector"
	"github.com/dataeng/datamart-ingress/pkg/export"
	"github.com/dataeng/datamart-ingress/pkg/source"
)

// tables lists the star schema tables in dependency order.
var tables = []string{
	"dim_item", "dim_supplier", "dim_category", "fact_inventory",
	"dim_student", "dim_major", "fact_enrollment",
}

// Loader loads the exported star schema artifacts into PostgreSQL.
type Loader struct {
	db     *sqlx.DB
	reader *source.Reader
	logger *zap.Logger
	cfg    *config.LoaderConfig
}

// NewLoader creates a new Loader instance over an established connection
func NewLoader(conn *connector.PostgresConnector, cfg *config.LoaderConfig, logger *zap.Logger) (*Loader, error) {
	if conn == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("loader configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	reader, err := source.NewReader(logger)
	if err != nil {
		return nil, err
	}

	return &Loader{
		db:     sqlx.NewDb(conn.DB(), "pgx"),
		reader: reader,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// Run executes the full load: schema setup, both datasets, verification.
func (l *Loader) Run(ctx context.Context) error {
	if err := l.CreateSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := l.LoadSales(ctx); err != nil {
		return fmt.Errorf("failed to load sales data: %w", err)
	}

	if err := l.LoadStudents(ctx); err != nil {
		return fmt.Errorf("failed to load student data: %w", err)
	}

	counts, err := l.Verify(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify load: %w", err)
	}

	for _, table := range tables {
		l.logger.Info("Verified table", zap.String("table", table), zap.Int("rows", counts[table]))
	}

	return nil
}

// CreateSchema ensures the target schema and tables exist. With FreshStart
// set, existing tables are dropped first so every run starts clean.
func (l *Loader) CreateSchema(ctx context.Context) error {
	schema := l.cfg.Schema

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				l.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}

	if l.cfg.FreshStart {
		// Facts first so the dimension drops don't trip FK dependencies.
		drops := []string{
			"fact_inventory", "fact_enrollment",
			"dim_item", "dim_supplier", "dim_category", "dim_student", "dim_major",
		}
		for _, table := range drops {
			if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s CASCADE", schema, table)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
	}

	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dim_item (
			item_id INT PRIMARY KEY,
			item_name TEXT,
			category TEXT
		)`, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dim_supplier (
			supplier_id SERIAL PRIMARY KEY,
			supplier_name TEXT UNIQUE
		)`, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dim_category (
			category_id SERIAL PRIMARY KEY,
			category_name TEXT UNIQUE
		)`, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.fact_inventory (
			inventory_id SERIAL PRIMARY KEY,
			item_id INT,
			supplier_id INT,
			category_id INT,
			date_added DATE,
			quantity INT,
			price NUMERIC(10,2),
			total_value NUMERIC(10,2),
			has_valid_date BOOLEAN,
			has_valid_price BOOLEAN,
			FOREIGN KEY (item_id) REFERENCES %s.dim_item(item_id),
			FOREIGN KEY (supplier_id) REFERENCES %s.dim_supplier(supplier_id),
			FOREIGN KEY (category_id) REFERENCES %s.dim_category(category_id)
		)`, schema, schema, schema, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dim_student (
			student_id INT PRIMARY KEY,
			name TEXT,
			age INT,
			gender TEXT
		)`, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.dim_major (
			major_id SERIAL PRIMARY KEY,
			major_name TEXT UNIQUE
		)`, schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.fact_enrollment (
			enrollment_id SERIAL PRIMARY KEY,
			student_id INT,
			major_id INT,
			grade TEXT,
			enrollment_date DATE,
			days_enrolled INT,
			has_valid_age BOOLEAN,
			has_valid_enrollment_date BOOLEAN,
			FOREIGN KEY (student_id) REFERENCES %s.dim_student(student_id),
			FOREIGN KEY (major_id) REFERENCES %s.dim_major(major_id)
		)`, schema, schema, schema),
	}

	for _, stmt := range ddl {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.logger.Info("Created schema and tables",
		zap.String("schema", schema),
		zap.Bool("fresh_start", l.cfg.FreshStart))

	return nil
}

// LoadSales loads the cleaned sales artifact into the item, supplier and
// category dimensions plus fact_inventory, in a single transaction.
func (l *Loader) LoadSales(ctx context.Context) error {
	rows, err := l.reader.ReadFile(filepath.Join(l.cfg.InputDir, export.SalesFile))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		l.logger.Warn("No sales data to load")
		return nil
	}

	schema := l.cfg.Schema

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				l.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	loadedItems := make(map[int]bool)
	supplierLookup := make(map[string]int)
	categoryLookup := make(map[string]int)

	// Dimensions first, deduplicating in input order.
	for _, row := range rows {
		itemID, ok := rowID(row["item_id"])
		if !ok {
			continue
		}

		if !loadedItems[itemID] {
			loadedItems[itemID] = true
			_, err = tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s.dim_item (item_id, item_name, category)
				VALUES ($1, $2, $3)
				ON CONFLICT (item_id) DO NOTHING
			`, schema), itemID, row["item_name"], row["category"])
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", itemID, err)
			}
		}

		if supplier := row["supplier"]; supplier != "" {
			if err = l.resolveDim(ctx, tx, supplierLookup, "dim_supplier", "supplier_id", "supplier_name", supplier); err != nil {
				return err
			}
		}

		if category := row["category"]; category != "" {
			if err = l.resolveDim(ctx, tx, categoryLookup, "dim_category", "category_id", "category_name", category); err != nil {
				return err
			}
		}
	}

	facts := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		itemID, ok := rowID(row["item_id"])
		if !ok {
			continue
		}

		facts = append(facts, []interface{}{
			itemID,
			lookupKey(supplierLookup, row["supplier"]),
			lookupKey(categoryLookup, row["category"]),
			nullDate(row["date_added"]),
			nullInt(row["quantity"]),
			nullFloat(row["price"]),
			nullFloat(row["total_value"]),
			parseFlag(row["has_valid_date"]),
			parseFlag(row["has_valid_price"]),
		})
	}

	columns := []string{"item_id", "supplier_id", "category_id", "date_added",
		"quantity", "price", "total_value", "has_valid_date", "has_valid_price"}
	inserted, err := connector.BatchInsert(ctx, tx, schema, "fact_inventory", columns, facts, 500, "")
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.logger.Info("Loaded sales data",
		zap.Int("items", len(loadedItems)),
		zap.Int("suppliers", len(supplierLookup)),
		zap.Int("categories", len(categoryLookup)),
		zap.Int64("facts", inserted))

	return nil
}

// LoadStudents loads the cleaned student artifact into the student and major
// dimensions plus fact_enrollment, in a single transaction.
func (l *Loader) LoadStudents(ctx context.Context) error {
	rows, err := l.reader.ReadFile(filepath.Join(l.cfg.InputDir, export.StudentFile))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		l.logger.Warn("No student data to load")
		return nil
	}

	schema := l.cfg.Schema

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				l.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	loadedStudents := make(map[int]bool)
	majorLookup := make(map[string]int)

	for _, row := range rows {
		studentID, ok := rowID(row["student_id"])
		if !ok {
			continue
		}

		if !loadedStudents[studentID] {
			loadedStudents[studentID] = true
			_, err = tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s.dim_student (student_id, name, age, gender)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (student_id) DO NOTHING
			`, schema), studentID, row["name"], nullInt(row["age"]), row["gender"])
			if err != nil {
				return fmt.Errorf("failed to insert student %d: %w", studentID, err)
			}
		}

		if major := row["major"]; major != "" {
			if err = l.resolveDim(ctx, tx, majorLookup, "dim_major", "major_id", "major_name", major); err != nil {
				return err
			}
		}
	}

	facts := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		studentID, ok := rowID(row["student_id"])
		if !ok {
			continue
		}

		facts = append(facts, []interface{}{
			studentID,
			lookupKey(majorLookup, row["major"]),
			row["grade"],
			nullDate(row["enrollment_date"]),
			nullInt(row["days_enrolled"]),
			parseFlag(row["has_valid_age"]),
			parseFlag(row["has_valid_enrollment_date"]),
		})
	}

	columns := []string{"student_id", "major_id", "grade", "enrollment_date",
		"days_enrolled", "has_valid_age", "has_valid_enrollment_date"}
	inserted, err := connector.BatchInsert(ctx, tx, schema, "fact_enrollment", columns, facts, 500, "")
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.logger.Info("Loaded student data",
		zap.Int("students", len(loadedStudents)),
		zap.Int("majors", len(majorLookup)),
		zap.Int64("facts", inserted))

	return nil
}

// resolveDim inserts a text dimension value if unseen and records its
// surrogate key in the lookup. On conflict with an existing row, the
// existing key is fetched instead.
func (l *Loader) resolveDim(
	ctx context.Context,
	tx *sqlx.Tx,
	lookup map[string]int,
	table, idCol, nameCol, value string,
) error {
	if _, ok := lookup[value]; ok {
		return nil
	}

	schema := l.cfg.Schema
	var id int

	insert := fmt.Sprintf(`
		INSERT INTO %s.%s (%s) VALUES ($1)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s
	`, schema, table, nameCol, nameCol, idCol)

	err := tx.GetContext(ctx, &id, insert, value)
	if errors.Is(err, sql.ErrNoRows) {
		query := fmt.Sprintf("SELECT %s FROM %s.%s WHERE %s = $1", idCol, schema, table, nameCol)
		err = tx.GetContext(ctx, &id, query, value)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve %s value %q: %w", table, value, err)
	}

	lookup[value] = id
	return nil
}

// lookupKey returns the surrogate key for a dimension value, or NULL when
// the value is empty or unseen.
func lookupKey(lookup map[string]int, value string) interface{} {
	if id, ok := lookup[value]; ok {
		return id
	}
	return nil
}

// Verify returns the row count of every star schema table.
func (l *Loader) Verify(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tables))

	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", l.cfg.Schema, table)
		if err := l.db.GetContext(ctx, &count, query); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}
