package config

import "os"

// GetConnectionString returns the database connection string.
func GetConnectionString() string {
	connStr := os.Getenv("DB_CONN_STRING")
	if connStr == "" {
		// Default connection string for local development
		return "postgres://localhost:5432/raven?sslmode=disable"
	}
	return connStr
}

// GetListenAddr returns the HTTP listen address for the web server.
func GetListenAddr() string {
	addr := os.Getenv("RAVEN_LISTEN_ADDR")
	if addr == "" {
		return ":8181"
	}
	return addr
}
