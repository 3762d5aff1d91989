// Package database manages the MySQL connection pool.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection, retrying a few times
// to accommodate containers that are still starting up.
//
// parseTime must be on so DATETIME columns scan into time.Time, and the
// connection location is pinned to UTC: every timestamp the lifecycle
// engine compares is a UTC instant, so the driver must not reinterpret
// what the database hands back.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt >= 5 {
			db.Close()
			return nil, fmt.Errorf("connect to mysql: %w", err)
		}
		log.Printf("db connect attempt %d/5 failed: %v; retrying in 2s", attempt, err)
		time.Sleep(2 * time.Second)
	}
}
