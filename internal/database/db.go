// Package database owns MySQL connectivity. The repository pool and the
// migration runner render their connection strings through the same helper
// so the two can never drift apart.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
)

// dsn renders user[:pass]@tcp(host:port)/name plus the given query
// parameters. An empty password drops the colon, which matters for local
// root-without-password setups.
func dsn(user, pass, host, port, name, params string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?%s", auth, host, port, name, params)
}

// Open builds the connection pool the repositories run on and verifies it
// with a bounded ping before anything else touches it. parseTime maps
// DATETIME columns to time.Time; loc=UTC keeps every scanned timestamp in
// one zone regardless of the server's setting.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql",
		dsn(user, pass, host, port, name, "charset=utf8mb4&parseTime=true&loc=UTC"))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
