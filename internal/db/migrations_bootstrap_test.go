package db

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/fasttrack/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openTestDatabase(t)

	assertTableHasColumns(t, database, "users", "email", "name", "image", "created_at")
	assertTableHasColumns(t, database, "user_settings", "theme", "default_goal_minutes", "reminder_enabled", "reminder_time", "max_duration_minutes", "reminder_last_sent_on")
	assertTableHasColumns(t, database, "fasting_sessions", "id", "user_id", "started_at", "ended_at", "goal_minutes", "notes")
	assertIndexContains(t, database, "uidx_users_email_normalized", "lower(trim(email))")
	assertIndexContains(t, database, "uidx_fasting_sessions_one_active", "whereended_atisnull")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteSkipsAddColumnThatAlreadyExists(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "fasttrack-partial.db")
	seedInitSchemaWithReminderColumn(t, databasePath)

	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	assertTableHasColumns(t, database, "user_settings", "reminder_last_sent_on")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "fasttrack-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestSplitSQLStatementsDropsEmptyParts(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ; CREATE INDEX i ON a(id);\n")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if !strings.HasPrefix(statements[1], "CREATE INDEX") {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "fasttrack-test.db"))
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func seedInitSchemaWithReminderColumn(t *testing.T, databasePath string) {
	t.Helper()

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)", databasePath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open seed sqlite: %v", err)
	}

	initSQL, err := fs.ReadFile(embeddedmigrations.Files, "001_init.sql")
	if err != nil {
		t.Fatalf("read 001 migration: %v", err)
	}
	for _, statement := range splitSQLStatements(string(initSQL)) {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("apply 001 statement %q: %v", statement, err)
		}
	}
	if err := database.Exec(`ALTER TABLE user_settings ADD COLUMN reminder_last_sent_on TEXT`).Error; err != nil {
		t.Fatalf("pre-create reminder column: %v", err)
	}
	if err := ensureSchemaMigrationsTable(database); err != nil {
		t.Fatalf("create schema_migrations: %v", err)
	}
	if err := database.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, "001", "001_init.sql").Error; err != nil {
		t.Fatalf("record 001 migration: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open seed sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close seed sql db: %v", err)
	}
}

func assertTableHasColumns(t *testing.T, database *gorm.DB, tableName string, expected ...string) {
	t.Helper()

	columns := loadTableColumns(t, database, tableName)
	for _, column := range expected {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected %s.%s column to exist after migrations", tableName, column)
		}
	}
}

func assertIndexContains(t *testing.T, database *gorm.DB, indexName string, fragment string) {
	t.Helper()

	indexSQL := loadSQLiteObjectSQL(t, database, "index", indexName)
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if definition == "" {
		t.Fatalf("expected index %s to exist", indexName)
	}
	if !strings.Contains(definition, fragment) {
		t.Fatalf("expected index %s to contain %q, got %q", indexName, fragment, indexSQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := make([]string, 0)

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}
