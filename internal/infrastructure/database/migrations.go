package database

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations aplica as migrações pendentes do diretório migrations/
func RunMigrations() error {
	dbURL := migrateURL()

	sourceURL := "file://migrations"
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		sourceURL = "file://" + path
	}

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("erro ao criar migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	return nil
}

// migrateURL monta a URL de conexão no formato esperado pelo migrate
func migrateURL() string {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" && strings.HasPrefix(dbURL, "postgres") {
		return dbURL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(getEnv("DB_USER", "postgres")),
		url.QueryEscape(getEnv("DB_PASSWORD", "postgres")),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "pos_cafeteria"),
		getEnv("DB_SSLMODE", "disable"),
	)
}
