// Package database opens the Postgres connection pool backing
// pkg/repository and pkg/synonym, with connection-config defaults
// generalized from MySQL to
// Postgres (pgx stdlib driver registered under database/sql).
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// Open returns an *sqlx.DB configured from cfg, with the pgx driver
// registered under database/sql so both sqlx and raw database/sql callers
// (e.g. pq.Error / pgconn.PgError inspection in pkg/repository) work.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// IsUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505), the signal pkg/repository maps to
// errors.DuplicateDefinitionError / a duplicate synonym-member add.
func IsUniqueViolation(err error) bool {
	var sqlErr interface{ SQLState() string }
	if ok := asSQLState(err, &sqlErr); ok {
		return sqlErr.SQLState() == "23505"
	}
	return false
}

func asSQLState(err error, target *interface{ SQLState() string }) bool {
	type sqlStater interface{ SQLState() string }
	for err != nil {
		if s, ok := err.(sqlStater); ok {
			*target = s
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

var _ = sql.ErrNoRows
