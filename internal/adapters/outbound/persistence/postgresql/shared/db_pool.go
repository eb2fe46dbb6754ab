package shared

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool sizing covers the API handlers plus one withdrawal claim loop. Claim
// transactions hold row locks until commit, so the pool stays small enough
// that lock waits surface quickly instead of queueing behind idle capacity.
const (
	maxOpenConns    = 15
	maxIdleConns    = 5
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

func NewDatabasePool(databaseURL string, logger *log.Logger) *sql.DB {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		panic(err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if logger != nil {
		logger.Printf("database pool initialized max_open=%d max_idle=%d", maxOpenConns, maxIdleConns)
	}

	return db
}
