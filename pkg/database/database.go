package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// NewDB connects to the audit/identity database. Postgres (Supabase) is the
// default; mysql is accepted for local development.
func NewDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	switch driver {
	case "", "postgres", "postgresql", DriverPostgres:
		driver = DriverPostgres
	case DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to %s database", driver)
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	var statements []string
	switch db.DriverName() {
	case DriverMySQL:
		statements = mysqlSchema
	default:
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		nome TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'OPERADOR',
		regional TEXT,
		tenant_id UUID NOT NULL,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_tenant_id ON users (tenant_id)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id UUID PRIMARY KEY,
		entidade_id UUID NOT NULL,
		user_id UUID,
		acao TEXT NOT NULL,
		canal TEXT NOT NULL,
		regional TEXT,
		mensagem TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		protocolo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_entidade_created ON activity_logs (entidade_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_status ON activity_logs (status)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		nome VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role VARCHAR(20) NOT NULL DEFAULT 'OPERADOR',
		regional VARCHAR(255),
		tenant_id CHAR(36) NOT NULL,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_users_tenant_id (tenant_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id CHAR(36) PRIMARY KEY,
		entidade_id CHAR(36) NOT NULL,
		user_id CHAR(36),
		acao VARCHAR(50) NOT NULL,
		canal VARCHAR(20) NOT NULL,
		regional TEXT,
		mensagem TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		protocolo VARCHAR(255),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_activity_logs_entidade_created (entidade_id, created_at),
		INDEX idx_activity_logs_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}
