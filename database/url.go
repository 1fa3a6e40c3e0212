package database

import "strings"

// ConstructDatabaseURL joins a base postgres URL with a database name and
// defaults sslmode to disable when the URL does not set one. An empty
// database name returns the base URL untouched.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	u := base + "/" + databaseName
	if hasQuery {
		u += "?" + query
	}

	if !strings.Contains(u, "sslmode=") {
		sep := "?"
		if hasQuery {
			sep = "&"
		}
		u += sep + "sslmode=disable"
	}
	return u
}
