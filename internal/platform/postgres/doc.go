// Package postgres contains PostgreSQL implementations of the store
// interfaces, built on database/sql with the pgx stdlib driver. Nullable
// review timestamps are mapped to zero time.Time values in the domain.
package postgres
