package database

import (
	"time"

	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/opaline/storefront/internal/config"
	"github.com/opaline/storefront/pkg/logger"
)

// Open creates and configures the MySQL connection pool.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		logger.Error("database ping failed", "error", err)
		return nil, err
	}

	logger.Info("database connection pool established")
	return db, nil
}

// normalizeDSN forces CLIENT_FOUND_ROWS on the connection so UPDATEs
// report matched rows. Without it the server counts changed rows and a
// no-op update, such as re-saving an unchanged status, reads as a
// missing row.
func normalizeDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	c.ClientFoundRows = true
	return c.FormatDSN(), nil
}
