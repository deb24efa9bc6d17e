// Package sqlstore implements the repository interfaces on database/sql.
// The SQL is written to run unchanged on both backends the service supports:
// the embedded SQLite file and PostgreSQL ($N placeholders and RETURNING are
// understood by both).
package sqlstore

import "database/sql"

// nullString converts an optional field for use as a query argument.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converts a scanned nullable column back to an optional field.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
