package db

import (
	"cmp"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/fasttrack/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// schemaMigration is one forward-only file from the migrations directory.
// Version keeps the zero padded prefix so it sorts as text in schema_migrations.
type schemaMigration struct {
	Version    string
	Name       string
	Statements []string
	order      int
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return err
	}
	pending, err := pendingMigrations(database)
	if err != nil {
		return err
	}

	for _, migration := range pending {
		if err := database.Transaction(func(tx *gorm.DB) error {
			return runMigration(tx, migration)
		}); err != nil {
			return err
		}
		log.Printf("db: applied migration %s", migration.Name)
	}
	return nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func pendingMigrations(database *gorm.DB) ([]schemaMigration, error) {
	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		return nil, err
	}

	var applied []string
	if err := database.Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	return slices.DeleteFunc(migrations, func(migration schemaMigration) bool {
		return slices.Contains(applied, migration.Version)
	}), nil
}

func loadEmbeddedMigrations() ([]schemaMigration, error) {
	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	for _, entry := range entries {
		matches := migrationNamePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || matches == nil {
			continue
		}
		order, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		raw, err := fs.ReadFile(embeddedmigrations.Files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		statements := splitSQLStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no statements", entry.Name())
		}
		migrations = append(migrations, schemaMigration{
			Version:    matches[1],
			Name:       entry.Name(),
			Statements: statements,
			order:      order,
		})
	}

	slices.SortFunc(migrations, func(a, b schemaMigration) int {
		return cmp.Compare(a.order, b.order)
	})
	for index := 1; index < len(migrations); index++ {
		if migrations[index].order == migrations[index-1].order {
			return nil, fmt.Errorf("duplicate migration version in %s and %s", migrations[index-1].Name, migrations[index].Name)
		}
	}
	return migrations, nil
}

func runMigration(tx *gorm.DB, migration schemaMigration) error {
	for _, statement := range migration.Statements {
		exists, err := addedColumnExists(tx, statement)
		if err != nil {
			return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
		}
		if exists {
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("execute migration %s: %w", migration.Name, err)
		}
	}

	record := map[string]any{"version": migration.Version, "name": migration.Name}
	if err := tx.Table("schema_migrations").Create(record).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Name, err)
	}
	return nil
}

// SQLite has no ADD COLUMN IF NOT EXISTS, so a column that is already present
// turns the statement into a no-op.
func addedColumnExists(tx *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}
	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, strings.ReplaceAll(table, "'", "''"))
	if err := tx.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load columns of %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(existing.Name, column) {
			return true, nil
		}
	}
	return false, nil
}

func splitSQLStatements(sqlText string) []string {
	var statements []string
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
