package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
)

func main() {
	target := flag.String("target", "global", "Migration target: global, tenant or all-tenants")
	orgID := flag.String("org", "", "Organization ID (required for tenant migrations)")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch *target {
	case "global":
		db, err := database.NewGlobalDB(cfg.Database.Global)
		if err != nil {
			log.Fatalf("Failed to connect to global DB: %v", err)
		}
		defer db.Close()
		if err := runMigrations(db, filepath.Join("migrations", "global")); err != nil {
			log.Fatal(err)
		}
	case "tenant":
		if *orgID == "" {
			log.Fatal("--org flag required for tenant migrations")
		}
		db, cleanup, err := openTenant(cfg, *orgID)
		if err != nil {
			log.Fatal(err)
		}
		defer cleanup()
		if err := runMigrations(db, filepath.Join("migrations", "tenant")); err != nil {
			log.Fatal(err)
		}
	case "all-tenants":
		if err := migrateAllTenants(cfg); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("Invalid target: must be 'global', 'tenant' or 'all-tenants'")
	}

	fmt.Println("Migration completed successfully")
}

func openTenant(cfg *config.Config, orgID string) (*sql.DB, func(), error) {
	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to global DB: %w", err)
	}

	var dbFilePath string
	err = globalDB.QueryRow("SELECT db_file_path FROM organizations WHERE id = ?", orgID).Scan(&dbFilePath)
	globalDB.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get organization DB path: %w", err)
	}

	db, err := sql.Open("sqlite3", dbFilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open tenant DB: %w", err)
	}
	return db, func() { db.Close() }, nil
}

func migrateAllTenants(cfg *config.Config) error {
	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		return fmt.Errorf("failed to connect to global DB: %w", err)
	}
	defer globalDB.Close()

	rows, err := globalDB.Query("SELECT id, db_file_path FROM organizations WHERE deleted_at IS NULL")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return err
		}

		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return fmt.Errorf("org %s: %w", id, err)
		}
		if err := runMigrations(db, filepath.Join("migrations", "tenant")); err != nil {
			db.Close()
			return fmt.Errorf("org %s: %w", id, err)
		}
		db.Close()
		log.Printf("Migrated tenant %s", id)
	}
	return rows.Err()
}

// Runs every .sql file in order. Migrations are written idempotent
// (CREATE TABLE IF NOT EXISTS) instead of tracked in a version table.
func runMigrations(db *sql.DB, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".sql" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}
		log.Printf("Applying migration: %s", file.Name())
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
		}
	}
	return nil
}
