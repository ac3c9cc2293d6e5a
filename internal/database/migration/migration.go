package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_extension_pg_trgm",
		SQL:  `CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
	},
	{
		Name: "create_table_history",
		SQL: `CREATE TABLE IF NOT EXISTS history (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  question   TEXT        NOT NULL,
  answer     TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_trgm_index_history_question",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_history_question_trgm ON history USING GIN (question gin_trgm_ops);`,
	},
	{
		Name: "create_trgm_index_history_answer",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_history_answer_trgm ON history USING GIN (answer gin_trgm_ops);`,
	},
	{
		Name: "create_index_history_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_history_created_at ON history (created_at);`,
	},
}

// EnsureMigrated checks if the 'history' table exists and runs migrations if it doesn't.
// The history table is append-only; there are no destructive steps.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	logJSON(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
	})

	var exists bool
	query := "SELECT to_regclass('public.history') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(map[string]any{
				"component":      "database",
				"event":          "db_migration_failed",
				"status":         "error",
				"migration_step": step.Name,
				"error_message":  err.Error(),
				"duration_ms":    time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
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
