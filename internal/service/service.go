// Package service holds the use cases behind the HTTP API. Services speak in
// model types and translate repository errors into *Error values.
package service

import (
	"database/sql"
	"errors"
	"strings"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// clampPage normalises 1-based page and size parameters.
func clampPage(page, size, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return page, size
}

// trimmed returns s without surrounding whitespace, or nil when that is empty.
func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
