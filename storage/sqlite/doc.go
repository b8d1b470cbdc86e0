// Package sqlite implements the storage contracts on an embedded SQLite
// database via modernc.org/sqlite. Schema changes ship as embedded
// migration files applied at open time.
package sqlite
