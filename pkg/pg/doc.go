// Package pg provides PostgreSQL connection management built on pgx:
// pooled connections with retry logic, goose schema migrations, and a
// health check helper, all driven by environment-based configuration.
package pg
