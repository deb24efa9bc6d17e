package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"memberdocs/internal/config"
)

type migrationStep struct {
	Name string
	SQL  string
}

var sqliteSteps = []migrationStep{
	{
		Name: "create_table_members",
		SQL: `CREATE TABLE IF NOT EXISTS members (
  id                 INTEGER   PRIMARY KEY AUTOINCREMENT,
  custom_id          TEXT,
  name               TEXT,
  email              TEXT,
  address            TEXT,
  phone              TEXT,
  pan_number         TEXT,
  citizenship_number TEXT,
  nid_number         TEXT,
  created_at         TIMESTAMP NOT NULL,
  updated_at         TIMESTAMP NOT NULL
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id         INTEGER   PRIMARY KEY AUTOINCREMENT,
  member_id  INTEGER   NOT NULL REFERENCES members (id),
  title      TEXT      NOT NULL,
  file_path  TEXT      NOT NULL,
  doc_type   TEXT      NOT NULL DEFAULT 'other',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`,
	},
	{
		Name: "create_table_admin_settings",
		SQL: `CREATE TABLE IF NOT EXISTS admin_settings (
  id                   INTEGER   PRIMARY KEY AUTOINCREMENT,
  username             TEXT      NOT NULL UNIQUE,
  password_hash        BLOB      NOT NULL,
  security_question    TEXT,
  security_answer_hash BLOB,
  created_at           TIMESTAMP NOT NULL,
  updated_at           TIMESTAMP NOT NULL
);`,
	},
	{
		Name: "create_index_members_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_members_created_at ON members (created_at);`,
	},
	{
		Name: "create_index_documents_member_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_member_id ON documents (member_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_members",
		SQL: `CREATE TABLE IF NOT EXISTS members (
  id                 BIGSERIAL   PRIMARY KEY,
  custom_id          TEXT,
  name               TEXT,
  email              TEXT,
  address            TEXT,
  phone              TEXT,
  pan_number         TEXT,
  citizenship_number TEXT,
  nid_number         TEXT,
  created_at         TIMESTAMPTZ NOT NULL,
  updated_at         TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id         BIGSERIAL   PRIMARY KEY,
  member_id  BIGINT      NOT NULL REFERENCES members (id),
  title      TEXT        NOT NULL,
  file_path  TEXT        NOT NULL,
  doc_type   TEXT        NOT NULL DEFAULT 'other',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_admin_settings",
		SQL: `CREATE TABLE IF NOT EXISTS admin_settings (
  id                   BIGSERIAL   PRIMARY KEY,
  username             TEXT        NOT NULL UNIQUE,
  password_hash        BYTEA       NOT NULL,
  security_question    TEXT,
  security_answer_hash BYTEA,
  created_at           TIMESTAMPTZ NOT NULL,
  updated_at           TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_index_members_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_members_created_at ON members (created_at);`,
	},
	{
		Name: "create_index_documents_member_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_member_id ON documents (member_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
}

// EnsureMigrated checks if the 'members' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver string, loc *time.Location) error {
	start := time.Now()

	steps, sentinel, err := dialect(driver)
	if err != nil {
		return err
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_driver": driver,
	})

	var exists bool
	if err := db.QueryRowContext(ctx, sentinel).Scan(&exists); err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_driver":     driver,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_driver":   driver,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_driver": driver,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_driver":        driver,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_driver":        driver,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_driver":   driver,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func dialect(driver string) ([]migrationStep, string, error) {
	switch driver {
	case config.DriverSQLite:
		return sqliteSteps, `SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'members'`, nil
	case config.DriverPostgres:
		return postgresSteps, `SELECT to_regclass('public.members') IS NOT NULL`, nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
