package store

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific behavior.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for
	// postgres).
	RewriteQuery(query string) string

	// ConfigureConnection applies database-specific connection settings.
	ConfigureConnection(db *sql.DB) error

	// CreateMigrationsTableQuery returns the SQL creating the migrations
	// tracking table.
	CreateMigrationsTableQuery() string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
