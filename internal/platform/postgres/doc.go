// Package postgres provides the PostgreSQL implementation of the snapshot
// gateway defined in the internal/store package, together with the embedded
// goose migrations that create its schema. Connections go through the pgx
// database/sql driver.
package postgres
