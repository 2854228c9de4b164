// Package store defines the persistence interfaces consumed by the service
// layer, together with shared error values and transaction helpers. Concrete
// implementations live under internal/platform (PostgreSQL) and in test
// fakes.
package store
